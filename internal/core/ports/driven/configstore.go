package driven

// EmbeddingSettings groups the embedding.* configuration keys.
type EmbeddingSettings struct {
	// Provider selects the embedding backend: "ollama" or "openai".
	Provider string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// Model names the embedding model. Empty keeps the provider default.
	Model string

	// APIKey authenticates hosted providers.
	APIKey string

	// Dimensions overrides the model's default vector size.
	Dimensions int
}

// IndexSettings groups the index.* configuration keys.
type IndexSettings struct {
	// ChunkBudget caps chunk size in characters. Zero keeps the
	// service default.
	ChunkBudget int
}

// Settings is the typed, validated view of the configuration the
// pipeline consumes.
type Settings struct {
	Embedding EmbeddingSettings
	Index     IndexSettings
}

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Settings reads the known keys into the typed view, applying
	// defaults and rejecting values the pipeline cannot honour.
	Settings() (*Settings, error)

	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice configuration value.
	// Returns nil if key doesn't exist or isn't a slice.
	GetStringSlice(key string) []string

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}

// Lexicon carries the word and phrase lists the analyzer and codifier
// depend on. Modelling these as data rather than constants lets the
// pipeline be retargeted to other languages or domains without code
// changes.
type Lexicon struct {
	// Stopwords are excluded from all frequency counts.
	Stopwords []string

	// Buzzwords is the reference list of generic/overused terms; corpus
	// absence of a buzzword marks it as habitually avoided.
	Buzzwords []string

	// TransitionPhrases are scanned for structural metrics.
	TransitionPhrases []string

	// OpeningAntiPatterns are regular expressions matching
	// meta-referential or throat-clearing openings.
	OpeningAntiPatterns []string

	// Replacements maps a banned term to a suggested substitute.
	Replacements map[string]string
}

// LexiconProvider supplies the active lexicon.
type LexiconProvider interface {
	// Lexicon returns the word lists to analyse and codify with.
	Lexicon() (*Lexicon, error)
}
