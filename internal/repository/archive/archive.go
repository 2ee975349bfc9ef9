package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/skywatch-ops/skywatch/internal/domain/safety"
)

// Repository defines the append-only persistence operations the lifecycle
// engines hand their state changes to. Saves are best effort: the engines
// log failures and carry on, the in-memory state stays the source of truth.
type Repository interface {
	SaveAlert(ctx context.Context, alert *safety.Alert) error
	SaveIncident(ctx context.Context, incident *safety.Incident) error
}

// record is one archived line. Exactly one of Alert or Incident is set.
type record struct {
	// Kind discriminates the archived entity.
	Kind string `json:"kind"`
	// At is when the record was appended.
	At time.Time `json:"at"`
	// Alert is the archived alert snapshot.
	Alert *safety.Alert `json:"alert,omitempty"`
	// Incident is the archived incident snapshot.
	Incident *safety.Incident `json:"incident,omitempty"`
}

// FileRepository appends alert and incident snapshots as JSON lines to a
// single file on disk. Entries are never rewritten or deleted; pruning is
// left to external tooling.
type FileRepository struct {
	// path is the filesystem location of the JSONL archive.
	path string
	// mu serializes appends to keep lines intact.
	mu sync.Mutex
}

// filePermissions restricts the archive to the owning user.
const filePermissions = 0o600

// NewFileRepository creates a repository appending JSON lines at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// SaveAlert appends the alert snapshot to the archive.
func (r *FileRepository) SaveAlert(_ context.Context, alert *safety.Alert) error {
	return r.append(record{
		Kind:  "alert",
		At:    time.Now(),
		Alert: alert,
	})
}

// SaveIncident appends the incident snapshot to the archive.
func (r *FileRepository) SaveIncident(_ context.Context, incident *safety.Incident) error {
	return r.append(record{
		Kind:     "incident",
		At:       time.Now(),
		Incident: incident,
	})
}

// append encodes and writes one record line under the lock.
func (r *FileRepository) append(rec record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode archive record: %w", err)
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermissions)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	if _, err = f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write archive record: %w", err)
	}

	return nil
}
