package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/sharedrop/internal/common"
	"github.com/dmitrijs2005/sharedrop/internal/logging"
)

// DiskStore persists objects as files under a single root directory.
type DiskStore struct {
	root   string
	logger logging.Logger
}

// NewDiskStore creates the root directory if needed and returns a store
// rooted at its absolute path.
func NewDiskStore(root string, logger logging.Logger) (*DiskStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &DiskStore{root: abs, logger: logger.With("module", "disk_store")}, nil
}

// ResolveKey maps a logical key to a physical path inside the storage root.
// The key is split on both separator kinds, empty and ".." segments are
// discarded, and the remainder is joined under the root. The resolved path
// must then be the root itself or begin with root + separator; anything
// else is rejected before any I/O. Normalizing before the containment check
// defeats traversal attempts smuggled via encoding, empty segments, or
// absolute-looking fragments.
func (d *DiskStore) ResolveKey(key string) (string, error) {
	segments := strings.FieldsFunc(key, func(r rune) bool {
		return r == '/' || r == '\\'
	})

	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s == "" || s == ".." {
			continue
		}
		parts = append(parts, s)
	}

	resolved, err := filepath.Abs(filepath.Join(append([]string{d.root}, parts...)...))
	if err != nil {
		return "", fmt.Errorf("resolving key %q: %w", key, err)
	}

	if resolved != d.root && !strings.HasPrefix(resolved, d.root+string(filepath.Separator)) {
		return "", common.ErrPathTraversal
	}

	return resolved, nil
}

func (d *DiskStore) Store(ctx context.Context, key string, data []byte) error {
	path, err := d.ResolveKey(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating parent directories: %w", err)
	}

	// Write to a unique temporary file and rename so concurrent writers
	// to the same key never interleave bytes within one object.
	tmp, err := os.CreateTemp(dir, ".sharedrop-tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing object: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing object: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publishing object: %w", err)
	}

	return nil
}

func (d *DiskStore) Read(ctx context.Context, key string) ([]byte, error) {
	path, err := d.ResolveKey(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading object: %w", err)
	}
	return data, nil
}

func (d *DiskStore) Delete(ctx context.Context, key string) error {
	path, err := d.ResolveKey(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}

func (d *DiskStore) AppendPart(ctx context.Context, uploadID string, partNumber int, data []byte) error {
	return d.Store(ctx, partKey(uploadID, partNumber), data)
}

func (d *DiskStore) CompleteMultipart(ctx context.Context, uploadID, key string, partNumbers []int) (int64, error) {
	sorted := make([]int, len(partNumbers))
	copy(sorted, partNumbers)
	sort.Ints(sorted)

	var assembled []byte
	for _, n := range sorted {
		chunk, err := d.Read(ctx, partKey(uploadID, n))
		if err != nil {
			return 0, fmt.Errorf("reading part %d: %w", n, err)
		}
		if chunk == nil {
			// A listed part that never arrived is omitted rather than
			// failing the upload; the resulting truncation is at least
			// observable in the logs.
			d.logger.Warn(ctx, "multipart part missing, skipping", "upload_id", uploadID, "part_number", n)
			continue
		}
		assembled = append(assembled, chunk...)
	}

	if err := d.Store(ctx, key, assembled); err != nil {
		return 0, fmt.Errorf("storing assembled object: %w", err)
	}

	// The object is durably written; cleanup failures must not fail the
	// logical upload.
	sessionDir, err := d.ResolveKey(multipartPrefix + "/" + uploadID)
	if err == nil {
		for _, n := range sorted {
			if path, perr := d.ResolveKey(partKey(uploadID, n)); perr == nil {
				if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
					d.logger.Warn(ctx, "part cleanup failed", "upload_id", uploadID, "part_number", n, "error", rerr.Error())
				}
			}
		}
		if rerr := os.Remove(sessionDir); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			d.logger.Warn(ctx, "session dir cleanup failed", "upload_id", uploadID, "error", rerr.Error())
		}
	}

	return int64(len(assembled)), nil
}

func (d *DiskStore) ReapStale(ctx context.Context, maxAge time.Duration) error {
	multipartDir := filepath.Join(d.root, multipartPrefix)

	entries, err := os.ReadDir(multipartDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// no sessions yet
			return nil
		}
		return fmt.Errorf("listing multipart sessions: %w", err)
	}

	now := time.Now()
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dirPath := filepath.Join(multipartDir, e.Name())
		info, err := e.Info()
		if err != nil {
			d.logger.Warn(ctx, "stat of session dir failed", "dir", e.Name(), "error", err.Error())
			continue
		}
		if now.Sub(info.ModTime()) <= maxAge {
			continue
		}
		if err := os.RemoveAll(dirPath); err != nil {
			d.logger.Warn(ctx, "reaping session failed", "dir", e.Name(), "error", err.Error())
			continue
		}
		d.logger.Info(ctx, "reaped stale multipart session", "upload_id", e.Name())
	}

	return nil
}

var _ Store = (*DiskStore)(nil)
