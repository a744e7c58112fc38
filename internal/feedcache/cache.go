// Package feedcache stores raw feed payloads keyed by date range.
package feedcache

import "context"

// Cache holds raw payload bytes. Implementations never fail a caller: a
// lookup error is reported as a miss and a failed Put is dropped.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, payload []byte)
}
