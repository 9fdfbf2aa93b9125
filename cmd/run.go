package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/talentscout/screener/internal/ai"
	"github.com/talentscout/screener/internal/ai/gemini"
	"github.com/talentscout/screener/internal/ai/openai"
	"github.com/talentscout/screener/internal/interview"
	"github.com/talentscout/screener/internal/logger"
	"github.com/talentscout/screener/internal/questions"
	"github.com/talentscout/screener/internal/secrets"
	"github.com/talentscout/screener/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	assistantLabel = "TalentScout Bot"

	oracleKeyEnv    = "GROQ_API_KEY"
	geminiKeyEnv    = "GEMINI_API_KEY"
	questionsKeyEnv = "QUESTION_API_KEY"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive screening session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("output-dir", "o", "", "directory for anonymized session artifacts. Default is 'candidates'.")

	viper.BindPFlag("session.output-dir", runCmd.Flags().Lookup("output-dir"))
}

// run drives one screening session from greeting to termination.
func run(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the talentscout screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config.Session, "", "  ")
	logger.Debug(fmt.Sprintf("starting with session config: \n %s", pretty))

	completer, err := newCompleter(ctx, config.Oracle, logger)
	if err != nil {
		logger.Fatal(
			"configuring the model oracle",
			zap.Error(err),
			zap.String("hint", "set GROQ_API_KEY (or oracle.api-key-file in the configuration file)"),
		)
	}

	source := newQuestionSource(config.Questions, logger)

	outputDir := viper.GetString("session.output-dir")
	if outputDir == "" {
		outputDir = config.Session.OutputDir
	}

	engine := interview.New(interview.Deps{
		Completer: completer,
		Questions: source,
		Recorder:  store.New(outputDir),
		Logger:    logger,
	}, config.Session.TerminationPhrases)

	transcript, err := engine.Start(ctx)
	if err != nil {
		logger.Fatal("starting the session", zap.Error(err))
	}

	// Render everything after the system turn.
	for _, turn := range transcript[1:] {
		renderTurn(turn)
	}

	prompt := promptui.Prompt{Label: "You"}

	for !engine.Ended() {
		text, err := prompt.Run()
		if err != nil {
			logger.Info("exiting", zap.String("reason", "input closed"), zap.Error(err))
			return
		}

		if strings.TrimSpace(text) == "" {
			continue
		}

		reply, err := engine.Submit(ctx, text)
		if errors.Is(err, interview.ErrSessionEnded) {
			break
		}
		if err != nil {
			logger.Error("turn failed, input not recorded, please try again", zap.Error(err))
			continue
		}

		renderTurn(reply)
	}

	fmt.Println("Conversation has ended. Thank you!")
	logger.Info("session ended",
		zap.String("artifact", engine.ArtifactPath()),
		zap.Int("transcript_length", len(engine.Transcript())),
	)
}

func renderTurn(turn interview.Turn) {
	fmt.Printf("\n%s: %s\n\n", assistantLabel, turn.Content)
}

// newCompleter builds the configured oracle provider. The openai-compatible
// provider (Groq) is the default.
func newCompleter(ctx context.Context, cfg *OracleConfig, log *zap.Logger) (ai.Completer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", "openai", "groq":
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "oracle api key",
			Value: cfg.APIKey,
			File:  cfg.APIKeyFile,
			Env:   oracleKeyEnv,
		})
		if err != nil {
			return nil, err
		}

		return openai.New(apiKey, cfg.BaseURL, cfg.Model,
			logger.WithOracleFields(log, "openai", cfg.Model))
	case "gemini":
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.APIKey,
			File:  cfg.APIKeyFile,
			Env:   geminiKeyEnv,
		})
		if err != nil {
			return nil, err
		}

		return gemini.New(ctx, apiKey, cfg.Model,
			logger.WithOracleFields(log, "gemini", cfg.Model))
	default:
		return nil, fmt.Errorf("unsupported oracle provider: %s", cfg.Provider)
	}
}

// newQuestionSource wires the optional remote generation endpoint. A missing
// endpoint or credential simply leaves only the fallback bank active.
func newQuestionSource(cfg *QuestionsConfig, log *zap.Logger) *questions.Source {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = strings.TrimSpace(viper.GetString("questions.endpoint"))
	}

	var apiKey string
	if endpoint != "" {
		key, err := secrets.Load(secrets.Source{
			Name:  "question endpoint api key",
			Value: cfg.APIKey,
			File:  cfg.APIKeyFile,
			Env:   questionsKeyEnv,
		})
		if err != nil {
			log.Warn("question endpoint configured without a credential, using fallback bank only", zap.Error(err))
			endpoint = ""
		}
		apiKey = key
	}

	return questions.NewSource(endpoint, apiKey, nil, log)
}
