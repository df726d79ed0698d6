package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/deckdrop/deckdrop/internal/config"
	"go.uber.org/fx"
)

type gcsStore struct {
	bucket *storage.BucketHandle
}

// NewGCSStore connects to the configured storage bucket.
func NewGCSStore(lc fx.Lifecycle, cfg config.Config) (Store, error) {
	bucket := strings.TrimSpace(cfg.Storage.Bucket)
	if bucket == "" {
		return nil, errors.New("storage bucket is not configured")
	}

	client, err := storage.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				_ = ctx
				return client.Close()
			},
		})
	}

	return &gcsStore{bucket: client.Bucket(bucket)}, nil
}

func (s *gcsStore) Delete(ctx context.Context, objectPath string) error {
	return s.bucket.Object(objectPath).Delete(ctx)
}

var Module = fx.Module("artifact",
	fx.Provide(NewGCSStore),
)
