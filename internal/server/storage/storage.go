// Package storage implements the object store behind pre-signed transfers:
// a path-safe disk backend plus an S3 backend for deployments that outgrow
// a single machine. Both speak the same multipart protocol: parts live
// under "multipart/<uploadId>/<partNumber>" until completion assembles them
// into one object.
//
// The store deliberately offers no locking or versioning. Concurrent writes
// to the same key race with last-writer-wins semantics, which is acceptable
// for a short-lived share and documented as the consistency model.
package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/sharedrop/internal/common"
)

// Store is the object-store contract consumed by the services and the
// direct-transfer HTTP handlers.
type Store interface {
	// Store writes the full content at key, overwriting any existing
	// object (idempotent overwrite, not append).
	Store(ctx context.Context, key string, data []byte) error

	// Read returns the object bytes, or (nil, nil) when the key is
	// absent. Absence is not a fault; callers translate it to a 404.
	Read(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object. Absence of the target is not an error.
	Delete(ctx context.Context, key string) error

	// AppendPart stores one chunk of a multipart session. Re-uploading
	// the same part number overwrites it, which lets clients retry a
	// failed chunk without re-initiating the session.
	AppendPart(ctx context.Context, uploadID string, partNumber int, data []byte) error

	// CompleteMultipart concatenates the listed parts in ascending
	// part-number order into a single object at key and returns its
	// size. Part files and the session directory are removed afterwards
	// on a best-effort basis; cleanup failure never fails the call.
	CompleteMultipart(ctx context.Context, uploadID, key string, partNumbers []int) (int64, error)

	// ReapStale removes multipart sessions whose last modification is
	// older than maxAge. Failures on one session do not prevent reaping
	// of the next.
	ReapStale(ctx context.Context, maxAge time.Duration) error
}

// multipartPrefix is the key namespace holding in-progress sessions.
const multipartPrefix = "multipart"

// GenerateKey builds an object key from a caller-supplied prefix and a
// server-generated random suffix (12 random bytes, hex encoded). The random
// suffix guarantees no caller-chosen segment decides the final path.
func GenerateKey(prefix string) (string, error) {
	suffix, err := common.MakeRandHexString(12)
	if err != nil {
		return "", fmt.Errorf("generating key suffix: %w", err)
	}
	return prefix + "/" + suffix, nil
}

// NewUploadID returns a multipart session id of the form
// "mp-<unix millis>-<8 random base36 chars>". Uniqueness is probabilistic:
// two sessions initiated in the same millisecond with the same suffix would
// silently merge, which the suffix entropy makes negligible.
func NewUploadID() (string, error) {
	suffix, err := common.MakeRandBase36String(8)
	if err != nil {
		return "", fmt.Errorf("generating upload id: %w", err)
	}
	return fmt.Sprintf("mp-%d-%s", time.Now().UnixMilli(), suffix), nil
}

// partKey returns the storage key of one part of a session.
func partKey(uploadID string, partNumber int) string {
	return multipartPrefix + "/" + uploadID + "/" + strconv.Itoa(partNumber)
}
