package runs

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-formatter/internal/shared/telemetry"
)

// Service records and reads the generation ledger.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Record stores run metadata. Failures are logged and swallowed so that the
// ledger never fails a request.
func (s *Service) Record(ctx context.Context, run Run) {
	if s == nil || s.Repo == nil {
		return
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	// Detached so a cancelled request still gets its row.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Repo.Create(writeCtx, run); err != nil {
		telemetry.Warn("runs.record_failed", map[string]any{
			"run_id": run.ID,
			"kind":   run.Kind,
			"error":  err.Error(),
		})
	}
}

// Get returns a run by ID.
func (s *Service) Get(ctx context.Context, id string) (Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Run{}, ErrInvalidInput
	}
	if _, err := uuid.Parse(id); err != nil {
		return Run{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns runs newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Run, error) {
	return s.Repo.List(ctx, limit, offset)
}
