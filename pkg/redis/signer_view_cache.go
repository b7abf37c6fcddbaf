package redis

import (
	"context"
	"encoding/json"
	"time"
)

const signerViewPrefix = "signer_view:"

// SignerViewCache caches the public signer-facing contract view keyed by
// access token. Entries are invalidated whenever a lifecycle transition
// changes what the signer would see.
type SignerViewCache struct {
	ttl time.Duration
}

var (
	setCacheValue = Set
	getCacheValue = Get
	delCacheValue = Del
)

// NewSignerViewCache creates a cache with the given entry TTL
func NewSignerViewCache(ttl time.Duration) *SignerViewCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SignerViewCache{ttl: ttl}
}

// GetView loads a cached view into dest; found is false on a miss
func (c *SignerViewCache) GetView(ctx context.Context, token string, dest interface{}) (bool, error) {
	raw, err := getCacheValue(ctx, signerViewPrefix+token)
	if err != nil {
		return false, nil // treat any miss or redis failure as a cache miss
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

// PutView stores a view under the token key
func (c *SignerViewCache) PutView(ctx context.Context, token string, view interface{}) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return setCacheValue(ctx, signerViewPrefix+token, string(raw), c.ttl)
}

// Invalidate drops the cached view for the token
func (c *SignerViewCache) Invalidate(ctx context.Context, token string) error {
	return delCacheValue(ctx, signerViewPrefix+token)
}
