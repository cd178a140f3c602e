package httpapi

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gountain/catalog/internal/catalog"
	"github.com/gountain/catalog/internal/domain"
	"github.com/gountain/catalog/internal/storage"
)

// Repository is the destination source behind the API.
type Repository interface {
	Filter(ctx context.Context, f catalog.FilterState) ([]domain.Destination, error)
	// List returns one page of the filtered destinations and the total match count.
	List(ctx context.Context, f catalog.FilterState, limit, offset int) ([]domain.Destination, int, error)
	Get(ctx context.Context, id string) (domain.Destination, error)
	Create(ctx context.Context, d domain.Destination) (domain.Destination, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MemoryRepo serves a catalog loaded from a JSON file.
type MemoryRepo struct {
	engine *catalog.Engine

	mu    sync.RWMutex
	items []domain.Destination
}

func NewMemoryRepo(engine *catalog.Engine, items []domain.Destination) *MemoryRepo {
	return &MemoryRepo{engine: engine, items: engine.Prepare(items)}
}

func (r *MemoryRepo) Filter(_ context.Context, f catalog.FilterState) ([]domain.Destination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engine.Filter(r.items, f), nil
}

func (r *MemoryRepo) List(ctx context.Context, f catalog.FilterState, limit, offset int) ([]domain.Destination, int, error) {
	matched, _ := r.Filter(ctx, f)
	total := len(matched)
	offset = min(max(offset, 0), total)
	end := min(offset+max(limit, 0), total)
	return matched[offset:end], total, nil
}

func (r *MemoryRepo) Get(_ context.Context, id string) (domain.Destination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.items {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Destination{}, storage.ErrNotFound
}

func (r *MemoryRepo) Create(_ context.Context, d domain.Destination) (domain.Destination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		d.ID = storage.Slug(d.Name)
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	maxOrder := 0
	for _, existing := range r.items {
		if existing.ID == d.ID {
			return domain.Destination{}, storage.ErrExists
		}
		maxOrder = max(maxOrder, existing.Order)
	}
	if d.Order == 0 {
		d.Order = maxOrder + 1
	}
	d = r.engine.Prepare([]domain.Destination{d})[0]
	r.items = append(r.items, d)
	return d, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.items {
		if d.ID == id {
			r.items = append(r.items[:i:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// SQLiteRepo serves the catalog from a SQLite database.
type SQLiteRepo struct {
	Store *storage.SQLiteStore
}

func (r *SQLiteRepo) Filter(ctx context.Context, f catalog.FilterState) ([]domain.Destination, error) {
	return r.Store.FilterDestinations(ctx, f)
}

func (r *SQLiteRepo) List(ctx context.Context, f catalog.FilterState, limit, offset int) ([]domain.Destination, int, error) {
	return r.Store.ListDestinationsFiltered(ctx, f, limit, offset)
}

func (r *SQLiteRepo) Get(ctx context.Context, id string) (domain.Destination, error) {
	d, err := r.Store.GetDestination(ctx, id)
	if err != nil {
		return d, err
	}
	if len(d.Seasons) == 0 {
		d.Seasons = catalog.MonthsToSeasons(d.Months)
	}
	return d, nil
}

func (r *SQLiteRepo) Create(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	if len(d.Seasons) == 0 {
		d.Seasons = catalog.MonthsToSeasons(d.Months)
	}
	return r.Store.CreateDestination(ctx, d)
}

func (r *SQLiteRepo) Delete(ctx context.Context, id string) (bool, error) {
	return r.Store.DeleteDestination(ctx, id)
}
