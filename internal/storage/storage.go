// Package storage manages todo image attachments. A single ImageStore
// interface covers both backends (local disk and a remote blob service);
// which one is used is decided by configuration at startup, not by the
// handlers.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidContentType is returned when an upload's content type is not
// on the image allow-list. The check happens before any bytes are
// written.
var ErrInvalidContentType = errors.New("invalid file type: only JPEG, PNG, GIF and WebP are allowed")

// ImageStore stores and deletes image blobs. Store returns a URL under
// which the blob is reachable; Delete takes that URL back. Delete is
// idempotent: removing a blob that is already gone is not an error.
type ImageStore interface {
	Store(ctx context.Context, ownerID uint64, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// extByType maps the accepted content types to file extensions. It
// doubles as the allow-list.
var extByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// extForType returns the extension for an accepted content type, or
// ErrInvalidContentType for anything else.
func extForType(contentType string) (string, error) {
	ext, ok := extByType[contentType]
	if !ok {
		return "", ErrInvalidContentType
	}
	return ext, nil
}

// newKey builds a blob key from the owner id, the current time and a
// random suffix. The uuid part keeps keys unique across concurrent
// uploads that land in the same second.
func newKey(ownerID uint64) string {
	return fmt.Sprintf("todo_%d_%d_%s", ownerID, time.Now().UTC().Unix(), uuid.NewString())
}
