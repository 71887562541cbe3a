package health

import (
	"context"
	"database/sql"
	"time"
)

// CompilerProbe reports whether the LaTeX compiler is installed.
type CompilerProbe interface {
	Available() bool
}

// Report is the health payload.
type Report struct {
	OK            bool   `json:"ok"`
	Compiler      bool   `json:"compiler"`
	LLMConfigured bool   `json:"llmConfigured"`
	Provider      string `json:"provider"`
	Database      string `json:"database"`
}

// Service encapsulates health-related checks.
type Service struct {
	Compiler      CompilerProbe
	LLMConfigured bool
	Provider      string
	DB            *sql.DB
}

// NewService constructs a new health service.
func NewService(compiler CompilerProbe, llmConfigured bool, provider string, db *sql.DB) *Service {
	return &Service{Compiler: compiler, LLMConfigured: llmConfigured, Provider: provider, DB: db}
}

// Status reports readiness of the pipeline dependencies. The process is OK
// while it serves requests; missing dependencies are reported, not fatal.
func (s *Service) Status(ctx context.Context) Report {
	r := Report{OK: true, LLMConfigured: s.LLMConfigured, Provider: s.Provider, Database: "memory"}
	if s.Compiler != nil {
		r.Compiler = s.Compiler.Available()
	}
	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			r.Database = "unavailable"
		} else {
			r.Database = "postgres"
		}
	}
	return r
}
