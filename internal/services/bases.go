package services

import (
	"fmt"
	"sync"

	"github.com/looooooty/basesweb/internal/models"
	"github.com/looooooty/basesweb/internal/store"
	"github.com/looooooty/basesweb/internal/types"
)

const defaultBaseCount = 6

// BaseRegistry owns the base-status collection.
type BaseRegistry struct {
	mu         sync.Mutex
	collection *store.Collection[models.BaseEntry]
}

// NewBaseRegistry returns a registry over base_states.json in dir.
func NewBaseRegistry(dir string) *BaseRegistry {
	return &BaseRegistry{
		collection: store.NewCollection[models.BaseEntry](dir, "base_states.json"),
	}
}

// List loads every base, normalizing each entry and re-persisting the
// collection. An empty or absent collection is seeded with the defaults.
func (r *BaseRegistry) List() ([]models.BaseEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked()
}

func (r *BaseRegistry) listLocked() ([]models.BaseEntry, error) {
	bases := r.collection.Load([]models.BaseEntry{})
	if len(bases) == 0 {
		bases = defaultBases()
	} else {
		for i := range bases {
			bases[i] = models.NormalizeBase(bases[i], i)
		}
	}
	if err := r.collection.Save(bases); err != nil {
		return nil, err
	}
	return bases, nil
}

// SetAll replaces the whole collection with the given desired state,
// normalized. Bases are mutated wholesale; there is no per-entry update.
func (r *BaseRegistry) SetAll(entries []models.BaseEntry) ([]models.BaseEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	normalized := make([]models.BaseEntry, len(entries))
	for i, b := range entries {
		normalized[i] = models.NormalizeBase(b, i)
	}
	if err := r.collection.Save(normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// Create appends a new base in the open state, deriving a unique id from
// the name.
func (r *BaseRegistry) Create(name string) (models.BaseEntry, error) {
	name = models.CleanText(name, models.MaxBaseNameLen)
	if name == "" {
		return models.BaseEntry{}, &types.ValidationError{Message: "Base name is required"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bases, err := r.listLocked()
	if err != nil {
		return models.BaseEntry{}, err
	}

	base := models.BaseEntry{
		ID:    models.MakeBaseID(name, bases),
		Name:  name,
		State: models.BaseOpen,
	}
	bases = append(bases, base)
	if err := r.collection.Save(bases); err != nil {
		return models.BaseEntry{}, err
	}
	return base, nil
}

func defaultBases() []models.BaseEntry {
	bases := make([]models.BaseEntry, 0, defaultBaseCount)
	for i := 1; i <= defaultBaseCount; i++ {
		bases = append(bases, models.BaseEntry{
			ID:    fmt.Sprintf("looooootybase_%d", i),
			Name:  fmt.Sprintf("LooooootyBase %d", i),
			State: models.BaseOpen,
		})
	}
	return bases
}
