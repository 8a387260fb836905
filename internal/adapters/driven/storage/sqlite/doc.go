// Package sqlite provides SQLite-backed persistence for documents,
// style profiles, vector indexes and style specs.
//
// A single database file holds all artifacts; the Store type exposes
// one wrapper per driven store interface. Embeddings are stored as
// little-endian float32 BLOBs.
package sqlite
