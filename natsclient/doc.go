// Package natsclient manages the NATS connection and JetStream key-value
// access used for structure persistence.
//
// The Client wraps a single nats.Conn with reconnect handling and exposes
// JetStream KV buckets through KVStore, which adds timeouts, compare-and-set
// updates with retry, and normalized error detection on top of the raw
// jetstream.KeyValue interface.
package natsclient
