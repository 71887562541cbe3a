// Package db opens the Postgres pool that backs the run ledger.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"resume-formatter/internal/shared/telemetry"
)

// Profile selects pool defaults for a kind of process.
type Profile string

const (
	ProfileServer  Profile = "server"
	ProfileLambda  Profile = "lambda"
	ProfileMigrate Profile = "migrate"
)

// Options controls pool sizing and the connectivity check.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

var profileDefaults = map[Profile]Options{
	// One invocation at a time per sandbox; keep the footprint small.
	ProfileLambda: {
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxIdleTime: 30 * time.Second,
		ConnMaxLifetime: 15 * time.Minute,
		PingTimeout:     3 * time.Second,
	},
	ProfileServer: {
		MaxOpenConns:    8,
		MaxIdleConns:    4,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
	},
	ProfileMigrate: {
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxIdleTime: time.Minute,
		ConnMaxLifetime: 10 * time.Minute,
		PingTimeout:     10 * time.Second,
	},
}

var (
	openDB = sql.Open
	shared singleton
)

// IsLambdaRuntime reports whether the process runs inside AWS Lambda.
func IsLambdaRuntime() bool {
	return strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != ""
}

// RuntimeProfile returns the profile matching the current process.
func RuntimeProfile() Profile {
	if IsLambdaRuntime() {
		return ProfileLambda
	}
	return ProfileServer
}

// DefaultOptions returns pool defaults for p. Unknown profiles get server
// defaults.
func DefaultOptions(p Profile) Options {
	if opts, ok := profileDefaults[p]; ok {
		return opts
	}
	return profileDefaults[ProfileServer]
}

// OptionsFromEnv overrides defaults with DB_* variables when present.
func OptionsFromEnv(defaults Options) Options {
	opts := defaults
	if v, ok := envInt("DB_MAX_OPEN_CONNS"); ok {
		opts.MaxOpenConns = v
	}
	if v, ok := envInt("DB_MAX_IDLE_CONNS"); ok {
		opts.MaxIdleConns = v
	}
	if v, ok := envDuration("DB_CONN_MAX_LIFETIME"); ok {
		opts.ConnMaxLifetime = v
	}
	if v, ok := envDuration("DB_CONN_MAX_IDLE_TIME"); ok {
		opts.ConnMaxIdleTime = v
	}
	if v, ok := envDuration("DB_PING_TIMEOUT"); ok {
		opts.PingTimeout = v
	}
	return opts
}

// Open returns a pool for the current runtime. Lambda sandboxes share one
// pool across invocations; other processes get a fresh pool.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	profile := RuntimeProfile()
	opts := OptionsFromEnv(DefaultOptions(profile))
	if profile == ProfileLambda {
		return GetSingleton(ctx, databaseURL, opts)
	}
	return Connect(ctx, databaseURL, opts)
}

// Connect opens a pool for databaseURL and pings it.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	pool, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	configurePool(pool, opts)

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logPool(pool, "connect")
	return pool, nil
}

// GetSingleton returns the process-wide pool, connecting on first use.
// Concurrent callers wait for an in-flight connect; a failed connect is
// retried by the next caller.
func GetSingleton(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	return shared.get(func() (*sql.DB, error) {
		return Connect(ctx, databaseURL, opts)
	})
}

type singleton struct {
	mu         sync.Mutex
	cond       *sync.Cond
	pool       *sql.DB
	connecting bool
}

func (s *singleton) get(connect func() (*sql.DB, error)) (*sql.DB, error) {
	s.mu.Lock()
	if s.cond == nil {
		s.cond = sync.NewCond(&s.mu)
	}
	for s.connecting && s.pool == nil {
		s.cond.Wait()
	}
	if s.pool != nil {
		pool := s.pool
		s.mu.Unlock()
		telemetry.Info("db.singleton.reuse", nil)
		return pool, nil
	}
	s.connecting = true
	s.mu.Unlock()

	pool, err := connect()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.connecting = false
	s.cond.Broadcast()
	if err != nil {
		return nil, err
	}
	s.pool = pool
	telemetry.Info("db.singleton.init", nil)
	return pool, nil
}

func (s *singleton) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool = nil
	s.connecting = false
}

func configurePool(pool *sql.DB, opts Options) {
	fallback := profileDefaults[ProfileServer]
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = fallback.MaxOpenConns
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = fallback.MaxIdleConns
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = fallback.ConnMaxLifetime
	}
	pool.SetMaxOpenConns(opts.MaxOpenConns)
	pool.SetMaxIdleConns(opts.MaxIdleConns)
	pool.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		pool.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

func logPool(pool *sql.DB, stage string) {
	st := pool.Stats()
	telemetry.Info("db.pool", map[string]any{
		"stage":    stage,
		"open":     st.OpenConnections,
		"in_use":   st.InUse,
		"idle":     st.Idle,
		"max_open": st.MaxOpenConnections,
	})
}

func envInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		telemetry.Warn("db.env.invalid", map[string]any{"key": key, "value": raw})
		return 0, false
	}
	return n, true
}

func envDuration(key string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		telemetry.Warn("db.env.invalid", map[string]any{"key": key, "value": raw})
		return 0, false
	}
	return d, true
}
