package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// NoExpiration keeps an entry until it is deleted
const NoExpiration time.Duration = -1

// Cache defines the key value operations the record stores rely on
type Cache interface {
	// Get retrieves a value from the cache
	// Returns the value and a boolean indicating whether the key was found
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set adds a value to the cache with the specified expiration
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	// Add stores the value only if the key is absent
	Add(ctx context.Context, key string, value interface{}, expiration time.Duration) bool

	// Replace stores the value only if the key is present
	Replace(ctx context.Context, key string, value interface{}, expiration time.Duration) bool

	// Delete removes a key from the cache and reports whether it was present
	Delete(ctx context.Context, key string) bool

	// Scan returns the values of all keys with the given prefix
	Scan(ctx context.Context, prefix string) []interface{}

	// Flush removes all items from the cache
	Flush(ctx context.Context)
}

// Predefined key prefixes for the stored records
const (
	PrefixCompany = "company:v1:"
	PrefixClient  = "client:v1:"
	PrefixInvoice = "invoice:v1:"
)

// GenerateKey creates a cache key from a prefix and a set of parameters
// It joins all parameters with a colon and appends them to the prefix
func GenerateKey(prefix string, params ...interface{}) string {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = fmt.Sprintf("%v", param)
	}
	return prefix + strings.Join(parts, ":")
}
