package interview

import (
	"strings"
	"unicode"

	"github.com/talentscout/screener/internal/store"
	"github.com/talentscout/screener/internal/validate"
)

// candidateCollector fills CandidateInfo from free-text turns. Email and
// phone tokens are recognized structurally wherever they appear; the residual
// text fills the first empty field in collection order (name, years,
// position). The conversation itself is still driven by the oracle, the
// collector only makes phase completion observable.
type candidateCollector struct {
	info store.CandidateInfo
}

func (c *candidateCollector) Absorb(text string) {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})

	residual := make([]string, 0, len(tokens))
	for _, token := range tokens {
		switch {
		case c.info.Email == "" && validate.Email(token):
			c.info.Email = token
		case c.info.Phone == "" && validate.Phone(token):
			c.info.Phone = token
		default:
			residual = append(residual, token)
		}
	}

	rest := strings.TrimSpace(strings.Join(residual, " "))
	if rest == "" {
		return
	}

	switch {
	case c.info.FullName == "":
		c.info.FullName = rest
	case c.info.YearsExperience == "":
		c.info.YearsExperience = rest
	case c.info.DesiredPosition == "":
		c.info.DesiredPosition = rest
	case c.info.Location == "":
		c.info.Location = rest
	}
}

// Complete reports whether all required fields are filled. Location is
// optional and not part of the requirement.
func (c *candidateCollector) Complete() bool {
	return c.info.FullName != "" &&
		c.info.Email != "" &&
		c.info.Phone != "" &&
		c.info.YearsExperience != "" &&
		c.info.DesiredPosition != ""
}
