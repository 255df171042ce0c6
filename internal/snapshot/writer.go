package snapshot

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jinxlover/daily-unbiased-news/internal/logger"
)

// WriteResult reports what the publish step did.
type WriteResult struct {
	Changed  bool
	Path     string
	Bytes    int
	Checksum string
}

// Writer publishes snapshots atomically: serialize, compare against the
// previous artifact, and only then write to a temp file and rename it
// into place. A reader never observes a partial document and an
// unchanged snapshot is a no-op.
type Writer struct {
	path string
	log  logger.Logger
}

// NewWriter builds a Writer targeting the given snapshot path.
func NewWriter(path string, log logger.Logger) (*Writer, error) {
	if path == "" {
		return nil, errors.New("snapshot path is empty")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Writer{path: path, log: log}, nil
}

// Marshal serializes a snapshot to its canonical published form:
// two-space indented JSON with a trailing newline. Map keys are sorted
// by the encoder, so the bytes are a pure function of the content.
func Marshal(snap Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Publish writes the snapshot if its bytes differ from the artifact
// currently on disk. Serialization or write failures are fatal to the
// run; the previously published snapshot stays intact either way.
func (w *Writer) Publish(snap Snapshot) (WriteResult, error) {
	data, err := Marshal(snap)
	if err != nil {
		return WriteResult{}, err
	}

	sum := sha256.Sum256(data)
	result := WriteResult{
		Path:     w.path,
		Bytes:    len(data),
		Checksum: hex.EncodeToString(sum[:8]),
	}

	prev, err := os.ReadFile(w.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return WriteResult{}, fmt.Errorf("read previous snapshot: %w", err)
	}
	if err == nil && bytes.Equal(prev, data) {
		w.log.InfoObj("snapshot unchanged", "snapshot_noop", map[string]any{
			"path":     w.path,
			"bytes":    result.Bytes,
			"checksum": result.Checksum,
		})
		return result, nil
	}

	if err := w.writeAtomic(data); err != nil {
		return WriteResult{}, err
	}

	result.Changed = true
	w.log.InfoObj("snapshot published", "snapshot_write", map[string]any{
		"path":     w.path,
		"bytes":    result.Bytes,
		"checksum": result.Checksum,
	})
	return result, nil
}

// writeAtomic writes to a temp file in the target directory and renames
// it over the destination. Rename within one directory is atomic on the
// platforms this runs on.
func (w *Writer) writeAtomic(data []byte) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
