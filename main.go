package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	apiKey       string
	promptPath   string
	settingsPath string
	outputPath   string
	tokenBudget  int
	itemLimit    int
	listenAddr   string
)

var rootCmd = &cobra.Command{
	Use:   "hiringlens",
	Short: "Structured job-market data from HN 'Who is hiring?' threads",
	Long: `hiringlens downloads the latest Hacker News "Who is hiring?" thread,
extracts structured job attributes from each posting with an AI model, and
serves the normalized table for filtering.`,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the latest hiring thread's comments",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := setup()
		if err != nil {
			return err
		}

		comments, thread, err := fetchComments()
		if err != nil {
			return err
		}

		_, err = SaveComments(comments, thread.ID, config.Settings.RawDirectory)
		return err
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [comments-file]",
	Short: "Run the extraction pipeline over fetched comments",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := setup()
		if err != nil {
			return err
		}

		path := ""
		if len(args) > 0 {
			path = args[0]
		} else {
			path, err = LatestCommentsFile(config.Settings.RawDirectory)
			if err != nil {
				return err
			}
			log.Printf("Loading comments from %s...", path)
		}

		comments, err := LoadComments(path)
		if err != nil {
			return err
		}

		return analyzeComments(config, comments)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the latest thread and analyze it in one go",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := setup()
		if err != nil {
			return err
		}

		comments, thread, err := fetchComments()
		if err != nil {
			return err
		}
		if _, err := SaveComments(comments, thread.ID, config.Settings.RawDirectory); err != nil {
			return err
		}

		return analyzeComments(config, comments)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the jobs table over HTTP with filtering",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := setup()
		if err != nil {
			return err
		}

		store := NewCSVStore(config.Settings.OutputPath)
		server := NewJobServer(store)

		log.Printf("Serving %s on %s", store.Path(), listenAddr)
		return http.ListenAndServe(listenAddr, server)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Anthropic API key (defaults to ANTHROPIC_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&promptPath, "prompt", "", "Path to a custom extraction prompt file")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to a custom settings file")
	rootCmd.PersistentFlags().StringVar(&outputPath, "output", "", "Output CSV path (overrides settings)")

	analyzeCmd.Flags().IntVar(&tokenBudget, "token-budget", 0, "Per-run token ceiling (overrides settings)")
	analyzeCmd.Flags().IntVar(&itemLimit, "limit", 0, "Maximum number of comments to process")
	runCmd.Flags().IntVar(&tokenBudget, "token-budget", 0, "Per-run token ceiling (overrides settings)")
	runCmd.Flags().IntVar(&itemLimit, "limit", 0, "Maximum number of comments to process")
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "Listen address")

	rootCmd.AddCommand(fetchCmd, analyzeCmd, runCmd, serveCmd)
}

// setup ensures the config directory exists and loads settings with any
// command-line overrides applied.
func setup() (*Config, error) {
	if err := ensureConfigExists(); err != nil {
		return nil, fmt.Errorf("ensuring config files exist: %w", err)
	}

	overrides := &ConfigOverrides{}
	if promptPath != "" {
		overrides.PromptPath = &promptPath
	}
	if settingsPath != "" {
		overrides.SettingsPath = &settingsPath
	}

	config, err := NewConfig(overrides)
	if err != nil {
		return nil, err
	}

	if outputPath != "" {
		config.Settings.OutputPath = outputPath
	}

	return config, nil
}

// fetchComments finds the latest hiring thread and downloads its comments.
func fetchComments() ([]Comment, *Thread, error) {
	client := NewHNClient()

	thread, err := client.FindHiringThread()
	if err != nil {
		return nil, nil, err
	}

	comments, err := client.FetchComments(thread.ID)
	if err != nil {
		return nil, nil, err
	}

	return comments, thread, nil
}

// analyzeComments builds the pipeline and runs it over the comments, writing
// the final result table when done.
func analyzeComments(config *Config, comments []Comment) error {
	key := apiKey
	if key == "" {
		key = os.Getenv("ANTHROPIC_API_KEY")
	}

	a := config.Settings.Analyzer
	completer, err := newAnthropicCompleter(key, a.Model, a.MaxTokens, a.Temperature)
	if err != nil {
		return err
	}

	gate := NewGatekeeper(config.Settings.Filter.MinLength, config.Settings.Filter.Keywords)
	extractor := NewJobExtractor(completer, config.GetExtractPrompt(), a.MaxInputChars)
	normalizer := NewNormalizer(config.Settings.Normalizer.TechBlacklist, config.Settings.Normalizer.RemoteMarkers)
	store := NewCSVStore(config.Settings.OutputPath)
	pipeline := NewPipeline(gate, extractor, normalizer, store, config.Settings)

	if itemLimit > 0 && itemLimit < len(comments) {
		comments = comments[:itemLimit]
	}

	budget := a.DailyTokenBudget
	if tokenBudget > 0 {
		budget = tokenBudget
	}

	results, _ := pipeline.Run(comments, budget)

	if err := store.Save(results); err != nil {
		return fmt.Errorf("saving results: %w", err)
	}
	log.Printf("Saved %d jobs to %s", len(results), store.Path())
	return nil
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		log.Println("Warning: ANTHROPIC_API_KEY not set, analyze will fail until a key is provided")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
