package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-formatter/internal/formatting"
	"resume-formatter/internal/latex"
	"resume-formatter/internal/llm"
	"resume-formatter/internal/llm/gemini"
	"resume-formatter/internal/llm/openai"
	"resume-formatter/internal/runs"
	"resume-formatter/internal/services/health"
	"resume-formatter/internal/shared/config"
	"resume-formatter/internal/shared/server"
	"resume-formatter/internal/shared/storage/db"
	"resume-formatter/internal/shared/storage/object"
	"resume-formatter/internal/templates"
)

// DefaultOpenAIModel is used when LLM_PROVIDER=openai and LLM_MODEL is unset.
const DefaultOpenAIModel = "gpt-4o-mini"

// App holds shared dependencies.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	TemplateStore     object.Store
	LLM               llm.Generator
	Compiler          *latex.Compiler
	RunsRepo          runs.Repo
	RunsService       *runs.Service
	TemplatesService  *templates.Service
	FormattingService *formatting.Service
	HealthService     *health.Service
	FormattingHandler *formatting.Handler
	TemplatesHandler  *templates.Handler
	RunsHandler       *runs.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := templates.OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gen, model, err := NewGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:        cfg,
		DB:            sqlDB,
		TemplateStore: store,
		LLM:           gen,
		Compiler: &latex.Compiler{
			Bin:       cfg.LatexBin,
			OutputDir: cfg.OutputDir,
			Timeout:   cfg.LatexTimeout,
		},
	}

	if err := buildServices(app, model); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		Health:            app.HealthService,
		FormattingHandler: app.FormattingHandler,
		TemplatesHandler:  app.TemplatesHandler,
		RunsHandler:       app.RunsHandler,
	})

	return app, nil
}

// NewGenerator builds the model client for the configured provider. A missing
// key yields a nil generator so the service can still start; requests then
// fail with a not-configured error.
func NewGenerator(ctx context.Context, cfg config.Config) (llm.Generator, string, error) {
	model := ResolveModel(cfg)
	if strings.TrimSpace(cfg.APIKey()) == "" {
		log.Printf("bootstrap: %s not set; resume generation disabled", cfg.APIKeyName())
		return nil, model, nil
	}

	switch cfg.LLMProvider {
	case "openai":
		client, err := openai.NewClient(cfg.OpenAIAPIKey, model, cfg.LLMTimeout)
		if err != nil {
			return nil, model, err
		}
		return client, model, nil
	default:
		client, err := gemini.NewClient(ctx, gemini.Options{
			APIKey:  cfg.GoogleAPIKey,
			Model:   model,
			Timeout: cfg.LLMTimeout,
		})
		if err != nil {
			return nil, model, err
		}
		return client, model, nil
	}
}

// ResolveModel returns LLM_MODEL or the provider default.
func ResolveModel(cfg config.Config) string {
	if m := strings.TrimSpace(cfg.LLMModel); m != "" {
		return m
	}
	if cfg.LLMProvider == "openai" {
		return DefaultOpenAIModel
	}
	return gemini.DefaultModel
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; using in-memory run ledger")
		return nil, nil
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory run ledger: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App, model string) error {
	var runsRepo runs.Repo
	if app.DB != nil {
		runsRepo = &runs.PGRepo{DB: app.DB}
	} else {
		runsRepo = runs.NewMemoryRepo()
	}

	runsSvc := runs.NewService(runsRepo)
	templatesSvc := templates.NewService(app.TemplateStore)
	formattingSvc := &formatting.Service{
		LLM:       app.LLM,
		Compiler:  app.Compiler,
		Templates: templatesSvc,
		Extract:   formatting.DefaultExtract,
		Runs:      runsSvc,
		Provider:  app.Config.LLMProvider,
		Model:     model,
	}

	app.RunsRepo = runsRepo
	app.RunsService = runsSvc
	app.TemplatesService = templatesSvc
	app.FormattingService = formattingSvc
	app.HealthService = health.NewService(app.Compiler, app.LLM != nil, app.Config.LLMProvider, app.DB)
	app.FormattingHandler = formatting.NewHandler(formattingSvc, app.Config.MaxUploadBytes, app.Config.APIKeyName())
	app.TemplatesHandler = templates.NewHandler(templatesSvc)
	app.RunsHandler = runs.NewHandler(runsSvc)

	return nil
}
