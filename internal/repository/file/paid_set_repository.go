package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// document is the on-disk layout: {"paid": [ref, ...]}
type document struct {
	Paid []string `json:"paid"`
}

// PaidSetRepository keeps the paid set in a single JSON document. Writes
// replace the whole file through a rename, so readers never observe a
// partial document. A missing or unreadable document is re-initialized as
// empty instead of failing the caller.
type PaidSetRepository struct {
	path string
	mu   sync.Mutex
}

func NewPaidSetRepository(path string) *PaidSetRepository {
	return &PaidSetRepository{path: path}
}

// Path returns the location of the JSON document.
func (r *PaidSetRepository) Path() string {
	return r.path
}

func (r *PaidSetRepository) MarkPaid(ctx context.Context, externalReference string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	refs, err := r.load()
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if ref == externalReference {
			return nil
		}
	}

	if err := r.save(append(refs, externalReference)); err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	return nil
}

func (r *PaidSetRepository) IsPaid(ctx context.Context, externalReference string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	refs, err := r.load()
	if err != nil {
		return false, err
	}
	for _, ref := range refs {
		if ref == externalReference {
			return true, nil
		}
	}
	return false, nil
}

// Ping makes sure the document's directory exists.
func (r *PaidSetRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("store directory unavailable: %w", err)
	}
	return nil
}

// load reads the document. Must be called with mu held.
func (r *PaidSetRepository) load() ([]string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", r.path).Msg("paid set unreadable, reinitializing")
		}
		return nil, r.reset()
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn().Err(err).Str("path", r.path).Msg("paid set corrupt, reinitializing")
		return nil, r.reset()
	}

	return dedupe(doc.Paid), nil
}

func (r *PaidSetRepository) reset() error {
	if err := r.save(nil); err != nil {
		return fmt.Errorf("reinitialize paid set: %w", err)
	}
	return nil
}

// save writes the document to a temp file in the same directory and renames
// it over the original.
func (r *PaidSetRepository) save(refs []string) error {
	if refs == nil {
		refs = []string{}
	}
	data, err := json.MarshalIndent(document{Paid: refs}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode paid set: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace paid set: %w", err)
	}
	return nil
}

func dedupe(refs []string) []string {
	seen := make(map[string]struct{}, len(refs))
	out := refs[:0]
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}
