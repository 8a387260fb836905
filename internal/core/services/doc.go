// Package services implements the core style-learning pipeline.
//
// Each service implements one driving port and is a single-pass,
// synchronous function over immutable inputs: ingest, analyze, codify
// and validate have no shared mutable state and are safe to invoke
// concurrently on disjoint inputs. The indexer is the only service that
// touches external I/O, through the EmbeddingService driven port.
//
// Services contain business logic only. Persistence and transport live
// in internal/adapters.
package services
