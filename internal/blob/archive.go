package blob

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
)

// archive fetches every blob and writes it into a zip, one entry per
// identifier. Fetches are sequential; the first failure aborts the archive.
func archive(ctx context.Context, s Store, ids []string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, id := range ids {
		data, err := s.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("archive blob %s: %w", id, err)
		}
		entry, err := zw.Create(id)
		if err != nil {
			return nil, fmt.Errorf("create archive entry %s: %w", id, err)
		}
		if _, err := entry.Write(data); err != nil {
			return nil, fmt.Errorf("write archive entry %s: %w", id, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
