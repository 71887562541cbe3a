package latex

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-formatter/internal/shared/metrics"
	"resume-formatter/internal/shared/telemetry"
	"resume-formatter/internal/shared/util"
)

// ErrCompileFailed matches every compiler failure.
var ErrCompileFailed = errors.New("PDF generation failed")

// CompileError carries the compiler diagnostics for logging.
type CompileError struct {
	Name     string
	ExitCode int
	Output   string
	Err      error
}

func (e *CompileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compile %s: exit %d: %v", e.Name, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("compile %s: exit %d", e.Name, e.ExitCode)
}

func (e *CompileError) Unwrap() error { return e.Err }

func (e *CompileError) Is(target error) bool { return target == ErrCompileFailed }

// Compiler runs a pdflatex compatible binary over a document written to
// OutputDir. Files are left in place.
type Compiler struct {
	Bin       string
	OutputDir string
	// Timeout bounds a single run; zero leaves only the caller's context.
	Timeout time.Duration
}

// Compile writes source to <OutputDir>/<name>.tex, compiles it and returns the
// produced PDF bytes.
func (c *Compiler) Compile(ctx context.Context, name, source string) ([]byte, error) {
	safeName, err := util.SanitizeFileName(name)
	if err != nil {
		return nil, fmt.Errorf("artifact name: %w", err)
	}
	outDir, err := filepath.Abs(c.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir output dir: %w", err)
	}

	texPath := filepath.Join(outDir, safeName+".tex")
	if err := os.WriteFile(texPath, []byte(source), 0o644); err != nil {
		return nil, fmt.Errorf("write tex: %w", err)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	bin := c.Bin
	if bin == "" {
		bin = "pdflatex"
	}
	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, bin,
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory", outDir,
		texPath,
	)
	cmd.Dir = outDir
	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	runErr := cmd.Run()
	metrics.ObserveCompileMs(float64(time.Since(start).Milliseconds()))

	if runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return nil, c.fail(safeName, exitCode, output.String(), runErr)
	}

	pdfPath := strings.TrimSuffix(texPath, ".tex") + ".pdf"
	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, c.fail(safeName, 0, output.String(), fmt.Errorf("read pdf: %w", err))
	}
	return pdf, nil
}

func (c *Compiler) fail(name string, exitCode int, output string, err error) error {
	telemetry.Error("latex.compile.failed", map[string]any{
		"name":      name,
		"exit_code": exitCode,
		"output":    tail(output, 4000),
		"error":     err.Error(),
	})
	return &CompileError{Name: name, ExitCode: exitCode, Output: output, Err: err}
}

// Available reports whether the compiler binary can be found.
func (c *Compiler) Available() bool {
	bin := c.Bin
	if bin == "" {
		bin = "pdflatex"
	}
	_, err := exec.LookPath(bin)
	return err == nil
}

// GenerateName returns an artifact name for a generate run.
func GenerateName() string {
	return uuid.NewString()
}

// EditName returns an artifact name for an edit run.
func EditName(now time.Time) string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("edit-%d-%08x", now.UnixMilli(), now.UnixNano()&0xffffffff)
	}
	return fmt.Sprintf("edit-%d-%s", now.UnixMilli(), hex.EncodeToString(b[:]))
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
