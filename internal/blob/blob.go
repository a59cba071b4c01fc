// Package blob stores opaque binary attachments by store-assigned identifier
// and packages batch downloads into a single archive.
package blob

import (
	"context"
	"fmt"

	"caseconnect/pkg/platform/sentinel"
)

// Store holds binary payloads. Identifiers are opaque and assigned on Put;
// identical content stored twice yields two distinct identifiers.
type Store interface {
	// Put stores data under a fresh identifier. name is metadata only (the
	// original upload filename); it does not address the blob.
	Put(ctx context.Context, name string, data []byte) (string, error)

	// Get returns the raw bytes for id, or sentinel.ErrNotFound when the
	// identifier is unknown.
	Get(ctx context.Context, id string) ([]byte, error)
}

// GetMany retrieves the given blobs from s. A single identifier returns the
// raw blob bytes with archived=false; two or more are packaged into one zip
// archive, each blob as one entry named by its identifier, with
// archived=true. The asymmetry is deliberate: single-file downloads should
// not force callers through archive tooling. An empty identifier list is an
// invalid argument.
func GetMany(ctx context.Context, s Store, ids []string) (data []byte, archived bool, err error) {
	if len(ids) == 0 {
		return nil, false, fmt.Errorf("no blob ids: %w", sentinel.ErrInvalidArgument)
	}
	if len(ids) == 1 {
		data, err = s.Get(ctx, ids[0])
		return data, false, err
	}
	data, err = archive(ctx, s, ids)
	return data, true, err
}
