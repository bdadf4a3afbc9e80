// Package store persists named structure snapshots in a NATS key-value
// bucket.
//
// Each record couples a graph snapshot with identity and audit metadata and
// carries a version counter for optimistic concurrency: Update refuses to
// overwrite a record whose stored version differs from the one the caller
// read. The store is optional infrastructure; the service runs without it
// and keeps sessions in memory only.
package store
