package templates

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resume-formatter/internal/shared/storage/object/local"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "1", want: 1},
		{raw: " 3 ", want: 3},
		{raw: "0", wantErr: true},
		{raw: "-2", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "../1", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.raw)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidID) {
				t.Fatalf("ParseID(%q) err = %v, want ErrInvalidID", tt.raw, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseID(%q) = %d, %v", tt.raw, got, err)
		}
	}
}

func TestEmbeddedCatalogIsComplete(t *testing.T) {
	svc := NewService(EmbeddedStore{})
	for _, tpl := range svc.List() {
		src, err := svc.Source(context.Background(), tpl.ID)
		if err != nil {
			t.Fatalf("template %d: %v", tpl.ID, err)
		}
		if !strings.Contains(src, `\documentclass`) || !strings.Contains(src, `\end{document}`) {
			t.Fatalf("template %d is not a complete document", tpl.ID)
		}
	}
}

func TestSourceUnknownID(t *testing.T) {
	svc := NewService(EmbeddedStore{})
	_, err := svc.Source(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEmbeddedStoreIsReadOnly(t *testing.T) {
	if _, err := (EmbeddedStore{}).Put(context.Background(), "1.tex", "text/plain", strings.NewReader("x")); err == nil {
		t.Fatalf("expected Put to fail")
	}
}

func TestPushCopiesCatalog(t *testing.T) {
	dir := t.TempDir()
	dst := local.New(dir)

	keys, err := Push(context.Background(), EmbeddedStore{}, dst)
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if len(keys) != len(Catalog) {
		t.Fatalf("pushed %v", keys)
	}

	svc := NewService(dst)
	src, err := svc.Source(context.Background(), 2)
	if err != nil {
		t.Fatalf("Source from pushed store: %v", err)
	}
	want, _ := NewService(EmbeddedStore{}).Source(context.Background(), 2)
	if src != want {
		t.Fatalf("pushed template differs from embedded one")
	}
}
