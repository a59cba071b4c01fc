package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"

	"caseconnect/pkg/platform/sentinel"
)

// GridFS stores blobs in a MongoDB GridFS bucket. Identifiers are the hex
// form of the ObjectID the bucket assigns on upload.
type GridFS struct {
	bucket *gridfs.Bucket
}

// NewGridFS builds a blob store over the default bucket of db.
func NewGridFS(db *mongo.Database) (*GridFS, error) {
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &GridFS{bucket: bucket}, nil
}

func (g *GridFS) Put(ctx context.Context, name string, data []byte) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := g.bucket.SetWriteDeadline(deadline); err != nil {
			return "", fmt.Errorf("set upload deadline: %w", err)
		}
	}
	id, err := g.bucket.UploadFromStream(name, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("upload blob %q: %w", name, err)
	}
	return id.Hex(), nil
}

func (g *GridFS) Get(ctx context.Context, id string) ([]byte, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("blob id %q: %w", id, sentinel.ErrInvalidArgument)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := g.bucket.SetReadDeadline(deadline); err != nil {
			return nil, fmt.Errorf("set download deadline: %w", err)
		}
	}
	var buf bytes.Buffer
	if _, err := g.bucket.DownloadToStream(objectID, &buf); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, fmt.Errorf("blob %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("download blob %s: %w", id, err)
	}
	return buf.Bytes(), nil
}
