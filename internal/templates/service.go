package templates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"resume-formatter/internal/shared/storage/object"
)

// Service resolves template ids to LaTeX sources.
type Service struct {
	store object.Store
}

// NewService constructs a Service over store.
func NewService(store object.Store) *Service {
	return &Service{store: store}
}

// ParseID validates a template identifier.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// List returns the catalog.
func (s *Service) List() []Template {
	out := make([]Template, len(Catalog))
	copy(out, Catalog)
	return out
}

// Source returns the LaTeX source of template id.
func (s *Service) Source(ctx context.Context, id int) (string, error) {
	rc, err := s.store.Open(ctx, Key(id))
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return "", fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return "", fmt.Errorf("open template %d: %w", id, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read template %d: %w", id, err)
	}
	return string(data), nil
}

// Lookup parses raw and returns the matching source.
func (s *Service) Lookup(ctx context.Context, raw string) (int, string, error) {
	id, err := ParseID(raw)
	if err != nil {
		return 0, "", err
	}
	src, err := s.Source(ctx, id)
	if err != nil {
		return id, "", err
	}
	return id, src, nil
}

// Push copies every catalog template from src into dst and returns the keys
// written.
func Push(ctx context.Context, src, dst object.Store) ([]string, error) {
	var pushed []string
	for _, tpl := range Catalog {
		key := Key(tpl.ID)
		rc, err := src.Open(ctx, key)
		if err != nil {
			return pushed, fmt.Errorf("open %s: %w", key, err)
		}
		_, err = dst.Put(ctx, key, "application/x-tex", rc)
		rc.Close()
		if err != nil {
			return pushed, fmt.Errorf("put %s: %w", key, err)
		}
		pushed = append(pushed, key)
	}
	return pushed, nil
}
