package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()

	assert.True(t, c.Add(ctx, "company:v1:a", 1, NoExpiration))
	assert.False(t, c.Add(ctx, "company:v1:a", 2, NoExpiration))
	assert.True(t, c.Replace(ctx, "company:v1:a", 3, NoExpiration))
	assert.False(t, c.Replace(ctx, "company:v1:b", 3, NoExpiration))

	v, ok := c.Get(ctx, "company:v1:a")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	c.Set(ctx, "client:v1:x", 4, NoExpiration)
	assert.ElementsMatch(t, []interface{}{3}, c.Scan(ctx, PrefixCompany))
	assert.ElementsMatch(t, []interface{}{4}, c.Scan(ctx, PrefixClient))

	assert.True(t, c.Delete(ctx, "company:v1:a"))
	assert.False(t, c.Delete(ctx, "company:v1:a"))

	c.Flush(ctx)
	assert.Empty(t, c.Scan(ctx, ""))
}

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "invoice:v1:inv_1", GenerateKey(PrefixInvoice, "inv_1"))
	assert.Equal(t, "invoice:v1:2024:7", GenerateKey(PrefixInvoice, 2024, 7))
}
