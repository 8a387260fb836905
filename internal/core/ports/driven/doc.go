// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: Corpus document persistence
//   - ProfileStore: Style profile snapshot persistence
//   - IndexStore: Vector index persistence
//   - SpecStore: Style spec persistence
//   - ConfigStore: Application configuration
//   - LexiconProvider: Stopword/buzzword/transition word lists
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, index
//     builds and semantic search are disabled; the profile/codify/validate
//     chain still works.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
