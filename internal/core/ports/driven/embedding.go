package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is the core's only external I/O boundary: timeout and retry
// policy belong to the adapter, not to the services that call it.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local models via inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// The result is index-aligned with the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	// Every vector in an index must match this.
	Dimensions() int

	// ModelName returns the embedding model identity. An index built
	// with one model must never be queried with another.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request before committing to a long index build.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
