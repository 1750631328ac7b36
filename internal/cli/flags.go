package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	BatchFile  string
	ListModels bool
	LogLevel   string

	// Workflow selection, translation is the default
	POS              bool
	Keywords         bool
	Analyze          bool
	AudioFile        string
	TranslateResults bool
	Reverse          bool

	// Backend flags
	Backend            string
	ServerURL          string
	TextTimeout        time.Duration
	AudioTimeout       time.Duration
	BreakerMaxFailures uint32

	// Hosted model flags
	OpenAIModel              string
	OpenAITranscriptionModel string
	GeminiModel              string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:                 "warn",
		Backend:                  "http",
		ServerURL:                "http://127.0.0.1:5000",
		TextTimeout:              60 * time.Second,
		AudioTimeout:             5 * time.Minute,
		BreakerMaxFailures:       3,
		OpenAIModel:              "gpt-4o-mini",
		OpenAITranscriptionModel: "whisper-1",
		GeminiModel:              "gemini-2.0-flash",
	}
}

// HasTextWorkflow reports whether a text workflow other than plain
// translation was requested.
func (f *Flags) HasTextWorkflow() bool {
	return f.POS || f.Keywords || f.Analyze
}
