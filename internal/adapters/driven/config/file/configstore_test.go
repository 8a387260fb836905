package file

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStoreSetGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("index.chunk_budget", int64(2000)))
	require.NoError(t, store.Set("verbose", true))

	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.Equal(t, 2000, store.GetInt("index.chunk_budget"))
	assert.True(t, store.GetBool("verbose"))

	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStorePersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("embedding.model", "nomic-embed-text"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", reopened.GetString("embedding.model"))
}

func TestConfigStoreFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	toml := "[embedding]\nprovider = \"openai\"\nmodel = \"text-embedding-3-small\"\ndimensions = 1536\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store.GetString("embedding.provider"))
	assert.Equal(t, "text-embedding-3-small", store.GetString("embedding.model"))
	assert.Equal(t, 1536, store.GetInt("embedding.dimensions"))
}

func TestConfigStoreGetStringSlice(t *testing.T) {
	dir := t.TempDir()
	toml := "sources = [\"a.md\", \"b.md\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.md", "b.md"}, store.GetStringSlice("sources"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestSettingsDefaults(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	// An empty config selects the local Ollama daemon.
	settings, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, "ollama", settings.Embedding.Provider)
	assert.Zero(t, settings.Embedding.Dimensions)
	assert.Zero(t, settings.Index.ChunkBudget)
}

func TestSettingsReadsConfiguredKeys(t *testing.T) {
	dir := t.TempDir()
	toml := `[embedding]
provider = "openai"
model = "text-embedding-3-small"
api_key = "sk-test"
dimensions = 512

[index]
chunk_budget = 800
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(toml), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	settings, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, "openai", settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Equal(t, 512, settings.Embedding.Dimensions)
	assert.Equal(t, 800, settings.Index.ChunkBudget)
}

func TestSettingsRejectsUnknownProvider(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("embedding.provider", "carrier-pigeon"))

	_, err = store.Settings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestSettingsRejectsNegativeLimits(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("index.chunk_budget", int64(-1)))

	_, err = store.Settings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk_budget")
}

func TestConfigStorePath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestLexiconDefaults(t *testing.T) {
	provider, err := NewLexiconProvider(t.TempDir())
	require.NoError(t, err)

	lexicon, err := provider.Lexicon()
	require.NoError(t, err)

	assert.Contains(t, lexicon.Stopwords, "the")
	assert.Contains(t, lexicon.Buzzwords, "synergy")
	assert.Contains(t, lexicon.TransitionPhrases, "however")
	assert.NotEmpty(t, lexicon.OpeningAntiPatterns)
	assert.Equal(t, "use", lexicon.Replacements["leverage"])
}

func TestLexiconDefaultPatternsCompile(t *testing.T) {
	lexicon := DefaultLexicon()
	for _, p := range lexicon.OpeningAntiPatterns {
		_, err := regexp.Compile(p)
		assert.NoError(t, err, "pattern %q", p)
	}
}

func TestLexiconOverrides(t *testing.T) {
	dir := t.TempDir()
	override := `stopwords = ["der", "die", "das"]

[replacements]
nutzen = "verwenden"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, LexiconFileName), []byte(override), 0600))

	provider, err := NewLexiconProvider(dir)
	require.NoError(t, err)

	lexicon, err := provider.Lexicon()
	require.NoError(t, err)

	// Overridden lists replace the defaults.
	assert.Equal(t, []string{"der", "die", "das"}, lexicon.Stopwords)
	assert.Equal(t, map[string]string{"nutzen": "verwenden"}, lexicon.Replacements)

	// Lists the file omits keep the built-in defaults.
	assert.Contains(t, lexicon.Buzzwords, "synergy")
	assert.Contains(t, lexicon.TransitionPhrases, "however")
}

func TestLexiconRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LexiconFileName), []byte("not [valid toml"), 0600))

	provider, err := NewLexiconProvider(dir)
	require.NoError(t, err)

	_, err = provider.Lexicon()
	assert.Error(t, err)
}
