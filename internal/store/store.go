// Package store persists named JSON document collections under the bot
// data directory. Each collection is a single JSON array file shared with
// the Discord bot; loads self-heal malformed storage by writing back a
// caller-supplied default, so higher layers never observe a corrupt state.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Collection is a JSON-array file holding records of type T.
type Collection[T any] struct {
	path string
}

// NewCollection returns a collection backed by name under dir.
func NewCollection[T any](dir, name string) *Collection[T] {
	return &Collection[T]{path: filepath.Join(dir, name)}
}

// Path returns the backing file path.
func (c *Collection[T]) Path() string {
	return c.path
}

// Load reads the backing file. A missing file, a parse failure, or a value
// that is not an array is replaced by def, which is persisted before being
// returned. Callers that need to serialize concurrent load-mutate-save
// cycles must hold their own lock around Load and Save.
func (c *Collection[T]) Load(def []T) []T {
	raw, err := os.ReadFile(c.path)
	if err == nil {
		var items []T
		if jsonErr := json.Unmarshal(raw, &items); jsonErr == nil && items != nil {
			return items
		}
	}

	if saveErr := c.Save(def); saveErr != nil {
		log.Printf("store: failed to repair %s: %v", filepath.Base(c.path), saveErr)
	}
	return def
}

// Save overwrites the backing file with the full serialized collection.
// The content is written to a temp file and renamed into place, so readers
// never see a partially-written file.
func (c *Collection[T]) Save(items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(c.path), err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := fmt.Sprintf("%s.%s.tmp", c.path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(c.path), err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", filepath.Base(c.path), err)
	}

	return nil
}

// ReadInto decodes an arbitrarily-shaped JSON file into out. The bot owns
// several object-shaped files (coupons, giveaways, carts) that the stats
// fold only reads; missing or malformed files leave out untouched and
// report false. No repair is written back.
func ReadInto(path string, out any) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}
