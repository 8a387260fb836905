package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/stylo-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigFileName is the settings file inside the config directory.
const ConfigFileName = "config.toml"

// DefaultProvider is the embedding backend used when config.toml names
// none. A fresh install works against a local Ollama daemon.
const DefaultProvider = "ollama"

// ConfigStore persists stylo settings as TOML. Nested tables are
// flattened to dot-notation keys on load, so "[embedding]\nmodel = ..."
// and a literal "embedding.model" key read the same.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore opens the config store under configDir, creating the
// directory if needed. If configDir is empty, defaults to ~/.stylo.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".stylo")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, ConfigFileName),
		data:     make(map[string]any),
	}

	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Settings materialises the typed view of the keys the pipeline reads.
// The provider name and the numeric limits are validated here so a typo
// in config.toml fails loudly at startup rather than selecting no
// provider at all.
func (s *ConfigStore) Settings() (*driven.Settings, error) {
	set := &driven.Settings{
		Embedding: driven.EmbeddingSettings{
			Provider:   s.GetString("embedding.provider"),
			BaseURL:    s.GetString("embedding.base_url"),
			Model:      s.GetString("embedding.model"),
			APIKey:     s.GetString("embedding.api_key"),
			Dimensions: s.GetInt("embedding.dimensions"),
		},
		Index: driven.IndexSettings{
			ChunkBudget: s.GetInt("index.chunk_budget"),
		},
	}

	if set.Embedding.Provider == "" {
		set.Embedding.Provider = DefaultProvider
	}
	switch set.Embedding.Provider {
	case "ollama", "openai":
	default:
		return nil, fmt.Errorf("unknown embedding provider %q in %s (want ollama or openai)",
			set.Embedding.Provider, s.filePath)
	}

	if set.Embedding.Dimensions < 0 {
		return nil, fmt.Errorf("embedding.dimensions must not be negative in %s", s.filePath)
	}
	if set.Index.ChunkBudget < 0 {
		return nil, fmt.Errorf("index.chunk_budget must not be negative in %s", s.filePath)
	}

	return set, nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string value; empty when absent or mistyped.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, _ := val.(string)
	return str
}

// GetInt retrieves an integer value; zero when absent or mistyped.
func (s *ConfigStore) GetInt(key string) int {
	val, _ := s.Get(key)

	// TOML integers decode as int64
	switch n := val.(type) {
	case int64:
		return int(n)
	case int:
		return n
	}
	return 0
}

// GetBool retrieves a boolean value; false when absent or mistyped.
func (s *ConfigStore) GetBool(key string) bool {
	val, _ := s.Get(key)
	b, _ := val.(bool)
	return b
}

// GetStringSlice retrieves a string slice value; nil when absent or
// mistyped. Non-string elements are dropped.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, _ := s.Get(key)

	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	return nil
}

// Set stores a configuration value and persists immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes the TOML file (caller must hold the lock). Written 0600:
// the file may carry API keys.
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.data)
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads the TOML file, flattening nested tables into dot-notation
// keys. A missing file is an empty configuration, not an error.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	s.data = make(map[string]any)
	flattenInto(s.data, loaded, "")
	return nil
}

// flattenInto walks nested maps, writing leaves into dst under
// dot-joined keys. E.g. {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenInto(dst map[string]any, src map[string]any, prefix string) {
	for key, value := range src {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			flattenInto(dst, nested, fullKey)
			continue
		}
		dst[fullKey] = value
	}
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
