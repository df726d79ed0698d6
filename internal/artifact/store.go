package artifact

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

var ErrMalformedURL = errors.New("malformed artifact url")

// Store abstracts the object storage holding presentation files. The
// sweeper only ever deletes.
type Store interface {
	Delete(ctx context.Context, objectPath string) error
}

// ParseObjectPath extracts the storage-relative object path from a download
// URL of the form https://host/v0/b/<bucket>/o/<escaped path>?token=...
func ParseObjectPath(fileURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(fileURL))
	if err != nil {
		return "", ErrMalformedURL
	}

	_, escaped, found := strings.Cut(parsed.Path, "/o/")
	if !found || escaped == "" {
		return "", ErrMalformedURL
	}

	objectPath, err := url.PathUnescape(escaped)
	if err != nil || objectPath == "" {
		return "", ErrMalformedURL
	}
	return objectPath, nil
}
