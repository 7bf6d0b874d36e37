package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cached remembers recognized text per image so the same screenshot is
// never run through OCR twice within the expiration window.
type Cached struct {
	next  Recognizer
	cache *cache.Cache
}

// NewCached wraps next with a cache whose entries live for ttl.
func NewCached(next Recognizer, ttl time.Duration) *Cached {
	return &Cached{next: next, cache: cache.New(ttl, 2*ttl)}
}

// Recognize returns the cached text for image or asks the wrapped
// recognizer. Failures are not cached, and unsupported media types are
// refused even when the same bytes were recognized before.
func (c *Cached) Recognize(ctx context.Context, image []byte, mediaType string) (string, error) {
	if !Supported(mediaType) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mediaType)
	}

	sum := sha256.Sum256(image)
	key := hex.EncodeToString(sum[:])

	if text, ok := c.cache.Get(key); ok {
		return text.(string), nil
	}

	text, err := c.next.Recognize(ctx, image, mediaType)
	if err != nil {
		return "", err
	}
	c.cache.Set(key, text, cache.DefaultExpiration)
	return text, nil
}
