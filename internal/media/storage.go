package media

import (
	"context"
	"errors"
	"path"
	"strings"
)

// ErrInvalidKey is returned for object keys that are empty or escape the
// storage root.
var ErrInvalidKey = errors.New("invalid storage key")

// Storage stores media objects under slash-separated keys.
type Storage interface {
	// Name identifies the backend; it is recorded on each media row.
	Name() string
	// Put writes data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Delete removes the objects. Missing objects are not an error.
	Delete(ctx context.Context, keys ...string) error
	// URL returns the public URL of key.
	URL(key string) string
}

// cleanKey normalizes key and rejects keys that are absolute or contain "..".
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	return path.Clean(key), nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
