package templates

import (
	"context"
	"fmt"

	"resume-formatter/internal/shared/config"
	"resume-formatter/internal/shared/storage/object"
	"resume-formatter/internal/shared/storage/object/local"
	"resume-formatter/internal/shared/storage/object/s3"
)

// OpenStore returns the template source selected by TEMPLATE_STORE.
func OpenStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.TemplateStore {
	case "", "embedded":
		return EmbeddedStore{}, nil
	case "local":
		return local.New(cfg.TemplateDir), nil
	case "s3":
		store, err := s3.New(ctx, cfg.AWSRegion, cfg.TemplateS3Bucket, cfg.TemplateS3Prefix)
		if err != nil {
			return nil, fmt.Errorf("s3 template store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown TEMPLATE_STORE %q", cfg.TemplateStore)
	}
}
