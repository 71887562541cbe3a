package templates

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"resume-formatter/internal/shared/storage/object"
	"resume-formatter/internal/shared/util"
)

//go:embed files/*.tex
var builtin embed.FS

// EmbeddedStore serves the templates compiled into the binary. It is read-only.
type EmbeddedStore struct{}

// Open returns the embedded source for key.
func (EmbeddedStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := util.CleanKey(key)
	if err != nil {
		return nil, err
	}
	f, err := builtin.Open(path.Join("files", clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", object.ErrNotFound, key)
		}
		return nil, err
	}
	return f, nil
}

// Put always fails.
func (EmbeddedStore) Put(context.Context, string, string, io.Reader) (int64, error) {
	return 0, errors.New("embedded template store is read-only")
}

var _ object.Store = EmbeddedStore{}
