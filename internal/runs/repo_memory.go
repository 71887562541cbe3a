package runs

import (
	"context"
	"sort"
	"sync"
)

// maxMemoryRuns bounds the in-memory ledger; the oldest runs are dropped.
const maxMemoryRuns = 1000

// MemoryRepo stores runs in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu    sync.RWMutex
	byID  map[string]Run
	order []string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Run)}
}

// Create stores the run.
func (r *MemoryRepo) Create(ctx context.Context, run Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[run.ID]; !exists {
		r.order = append(r.order, run.ID)
	}
	r.byID[run.ID] = run
	for len(r.order) > maxMemoryRuns {
		delete(r.byID, r.order[0])
		r.order = r.order[1:]
	}
	return nil
}

// GetByID returns a run by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.byID[id]
	if !ok {
		return Run{}, ErrNotFound
	}
	return run, nil
}

// List returns runs newest first with limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	all := make([]Run, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.byID[id])
	}
	r.mu.RUnlock()

	if offset >= len(all) {
		return []Run{}, nil
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
