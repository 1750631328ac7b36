package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/lingoflow/internal"
	"codeberg.org/snonux/lingoflow/internal/backend"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lingoflow [text]",
		Short: "English/Telugu translation and audio analysis client",
		Long: `lingoflow sends text and audio to an analysis service and shows the
results: Telugu translations, part-of-speech tags, translated keywords,
and transcripts with summary and sentiment breakdown.

Examples:
  lingoflow                                   # Launch interactive GUI (default)
  lingoflow "How are you?"                    # Translate English to Telugu
  lingoflow --pos "How are you?"              # POS tag the Telugu translation
  lingoflow --keywords "Rain rain go away"    # Extract and translate keywords
  lingoflow --audio talk.mp3 --translate-results
  lingoflow --batch texts.txt --keywords      # Process one text per line`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.lingoflow.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")

	// Workflow flags
	cmd.Flags().BoolVar(&flags.POS, "pos", false, "Tag parts of speech of the Telugu translation")
	cmd.Flags().BoolVar(&flags.Keywords, "keywords", false, "Extract keywords and translate them")
	cmd.Flags().BoolVar(&flags.Analyze, "analyze", false, "Translate, summarize and score sentiment of the text")
	cmd.Flags().StringVar(&flags.AudioFile, "audio", "", "Transcribe and analyze an audio file")
	cmd.Flags().BoolVar(&flags.TranslateResults, "translate-results", false, "Translate transcript and summary after --audio")
	cmd.Flags().BoolVar(&flags.Reverse, "reverse", false, "Translate transcript and summary from Telugu to English")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Process texts from file (one per line)")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")

	// Backend flags
	cmd.Flags().StringVar(&flags.Backend, "backend", flags.Backend, "Analysis backend: http, openai or gemini")
	cmd.Flags().StringVar(&flags.ServerURL, "server", flags.ServerURL, "Base URL of the analysis service (http backend)")
	cmd.Flags().DurationVar(&flags.TextTimeout, "timeout", flags.TextTimeout, "Deadline for a single text request")
	cmd.Flags().DurationVar(&flags.AudioTimeout, "audio-timeout", flags.AudioTimeout, "Deadline for a single audio request")
	cmd.Flags().Uint32Var(&flags.BreakerMaxFailures, "breaker-failures", flags.BreakerMaxFailures, "Consecutive failures before requests fail fast (0 disables)")

	// Hosted model flags
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model (openai backend)")
	cmd.Flags().StringVar(&flags.OpenAITranscriptionModel, "openai-transcription-model", flags.OpenAITranscriptionModel, "OpenAI transcription model (openai backend)")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model (gemini backend)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("backend.provider", cmd.Flags().Lookup("backend"))
	viper.BindPFlag("server.url", cmd.Flags().Lookup("server"))
	viper.BindPFlag("timeouts.text", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("timeouts.audio", cmd.Flags().Lookup("audio-timeout"))
	viper.BindPFlag("breaker.max_failures", cmd.Flags().Lookup("breaker-failures"))
	viper.BindPFlag("openai.chat_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("openai.transcription_model", cmd.Flags().Lookup("openai-transcription-model"))
	viper.BindPFlag("gemini.model", cmd.Flags().Lookup("gemini-model"))
}

// InitConfig loads .env and initializes viper configuration
func InitConfig(cfgFile string) {
	// A missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".lingoflow" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".lingoflow")
	}

	viper.SetDefault("breaker.open_timeout", 30*time.Second)

	// Environment variables
	viper.SetEnvPrefix("LINGOFLOW")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai.key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("gemini.key")
}

// BackendConfig assembles the backend settings from viper. Flags, config
// file and environment have already been merged by viper at this point.
func BackendConfig() *backend.Config {
	config := backend.DefaultConfig()

	if v := viper.GetString("backend.provider"); v != "" {
		config.Provider = v
	}
	if v := viper.GetString("server.url"); v != "" {
		config.BaseURL = v
	}
	if v := viper.GetString("openai.chat_model"); v != "" {
		config.OpenAIChatModel = v
	}
	if v := viper.GetString("openai.transcription_model"); v != "" {
		config.OpenAITranscriptionModel = v
	}
	if v := viper.GetString("gemini.model"); v != "" {
		config.GeminiModel = v
	}
	if viper.IsSet("breaker.max_failures") {
		config.BreakerMaxFailures = viper.GetUint32("breaker.max_failures")
	}
	if v := viper.GetDuration("breaker.open_timeout"); v > 0 {
		config.BreakerOpenTimeout = v
	}

	config.OpenAIKey = GetOpenAIKey()
	config.GeminiKey = GetGeminiKey()
	return config
}

// Timeouts returns the per-call deadlines for text and audio requests.
func Timeouts() (text, audio time.Duration) {
	return viper.GetDuration("timeouts.text"), viper.GetDuration("timeouts.audio")
}
