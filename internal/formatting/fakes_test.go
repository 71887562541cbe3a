package formatting

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"resume-formatter/internal/extract"
	"resume-formatter/internal/latex"
	"resume-formatter/internal/runs"
	"resume-formatter/internal/templates"
)

type fakeLLM struct {
	mu    sync.Mutex
	reply string
	err   error
	calls [][]string
}

func (f *fakeLLM) Generate(ctx context.Context, parts []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), parts...))
	return f.reply, f.err
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeCompiler struct {
	mu     sync.Mutex
	names  []string
	source string
	err    error
}

func (f *fakeCompiler) Compile(ctx context.Context, name, source string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
	f.source = source
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4\n%fake\n"), nil
}

type countingExtract struct {
	calls int
	text  string
	err   error
}

func (c *countingExtract) fn(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	c.calls++
	return c.text, c.err
}

var errBoom = errors.New("boom")

func newTestService(gen *fakeLLM, comp Compiler, ext ExtractFunc) (*Service, *runs.MemoryRepo) {
	repo := runs.NewMemoryRepo()
	svc := &Service{
		Compiler:  comp,
		Templates: templates.NewService(templates.EmbeddedStore{}),
		Extract:   ext,
		Runs:      runs.NewService(repo),
		Provider:  "gemini",
		Model:     "gemini-2.5-flash",
	}
	if gen != nil {
		svc.LLM = gen
	}
	return svc, repo
}

// realPipeline uses the real extractor and a compiler backed by a fake
// pdflatex script.
func realPipeline(t *testing.T, gen *fakeLLM) *Service {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	bin := filepath.Join(t.TempDir(), "pdflatex")
	script := "#!/bin/sh\nfor last; do :; done\nprintf '%%PDF-1.5\\n%%fake\\n' > \"${last%.tex}.pdf\"\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake compiler: %v", err)
	}
	svc, _ := newTestService(gen, &latex.Compiler{Bin: bin, OutputDir: t.TempDir()}, extract.ExtractTextFromBytes)
	return svc
}

func readFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "resume.pdf"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}
