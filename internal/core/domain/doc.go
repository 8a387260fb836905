// Package domain defines the core business entities for Stylo.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A normalised corpus document
//   - StyleProfile: Aggregate style metrics over a corpus snapshot
//   - Chunk / VectorIndex: Embedded retrieval units and their index
//   - StyleRule / StyleSpec: The codified, executable style rules
//   - ValidationResult: The outcome of checking text against a spec
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
