package questions

// Bank maps a lowercase technology name to its canned screening questions.
type Bank map[string][]string

// DefaultBank covers the technologies TalentScout screens for most often.
// Lookups are by exact lowercase token.
var DefaultBank = Bank{
	"python": {
		"Explain the difference between a list and a tuple in Python.",
		"What are decorators in Python, and how are they used?",
		"How does Python's garbage collection work?",
		"What is the Global Interpreter Lock (GIL) and its impact on multithreading?",
		"Describe how list comprehensions work in Python with an example.",
	},
	"django": {
		"What is the purpose of Django's ORM? Provide an example of a model definition.",
		"Explain the Django middleware framework and its use cases.",
		"How do you handle database migrations in Django?",
		"What are Django signals, and when would you use them?",
		"Describe the Django template inheritance mechanism.",
	},
	"javascript": {
		"What is the difference between `let`, `const`, and `var` in JavaScript?",
		"Explain the concept of closures in JavaScript with an example.",
		"What is the event loop in JavaScript, and how does it handle asynchronous operations?",
		"How does prototypal inheritance work in JavaScript?",
		"What are Promises, and how do they differ from async/await?",
	},
	"react": {
		"What is the virtual DOM, and how does React use it?",
		"Explain the difference between functional and class components in React.",
		"What are React hooks, and how do you use useState and useEffect?",
		"How does React handle state management in large applications?",
		"What is the purpose of keys in React lists?",
	},
}
