//go:build integration

package blob_test

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"caseconnect/internal/blob"
	"caseconnect/pkg/platform/sentinel"
	"caseconnect/pkg/testutil/containers"
)

const testDatabase = "caseconnect_test"

type GridFSSuite struct {
	suite.Suite
	mongo *containers.MongoContainer
	store *blob.GridFS
}

func TestGridFSSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(GridFSSuite))
}

func (s *GridFSSuite) SetupSuite() {
	s.mongo = containers.NewMongoContainer(s.T())
}

func (s *GridFSSuite) SetupTest() {
	ctx := context.Background()
	err := s.mongo.DropDatabase(ctx, testDatabase)
	s.Require().NoError(err)

	store, err := blob.NewGridFS(s.mongo.Database(testDatabase))
	s.Require().NoError(err)
	s.store = store
}

func (s *GridFSSuite) TestPutGetRoundTrip() {
	ctx := context.Background()

	id, err := s.store.Put(ctx, "resume.pdf", []byte("cv contents"))
	s.Require().NoError(err)
	s.NotEmpty(id)

	data, err := s.store.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal([]byte("cv contents"), data)
}

func (s *GridFSSuite) TestPutNeverDeduplicates() {
	ctx := context.Background()

	first, err := s.store.Put(ctx, "a.pdf", []byte("same"))
	s.Require().NoError(err)
	second, err := s.store.Put(ctx, "a.pdf", []byte("same"))
	s.Require().NoError(err)
	s.NotEqual(first, second, "identical content still gets a distinct id")
}

func (s *GridFSSuite) TestGetErrors() {
	ctx := context.Background()

	_, err := s.store.Get(ctx, "not-a-hex-object-id")
	s.ErrorIs(err, sentinel.ErrInvalidArgument)

	_, err = s.store.Get(ctx, "ffffffffffffffffffffffff")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *GridFSSuite) TestGetManyArchivesMultiple() {
	ctx := context.Background()

	first, err := s.store.Put(ctx, "one.pdf", []byte("one"))
	s.Require().NoError(err)
	second, err := s.store.Put(ctx, "two.pdf", []byte("two"))
	s.Require().NoError(err)

	data, archived, err := blob.GetMany(ctx, s.store, []string{first, second})
	s.Require().NoError(err)
	s.True(archived)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	s.Require().NoError(err)
	s.Require().Len(zr.File, 2)
	s.Equal(first, zr.File[0].Name, "archive entries are named by blob id")
	s.Equal(second, zr.File[1].Name)
}
