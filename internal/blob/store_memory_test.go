package blob

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseconnect/pkg/platform/sentinel"
)

func TestMemoryPutGet(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	id, err := store.Put(ctx, "resume.pdf", []byte("resume bytes"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("resume bytes"), got)
}

func TestMemoryGet_UnknownID(t *testing.T) {
	store := NewMemory()

	_, err := store.Get(context.Background(), "no-such-blob")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryPut_NoDedupAcrossIdenticalContent(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	a, err := store.Put(ctx, "a.pdf", []byte("same"))
	require.NoError(t, err)
	b, err := store.Put(ctx, "b.pdf", []byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "identical content still gets distinct identifiers")
}

func TestGetMany_SingleIDReturnsRawBytes(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	id, err := store.Put(ctx, "offer.pdf", []byte("offer letter"))
	require.NoError(t, err)

	data, archived, err := GetMany(ctx, store, []string{id})
	require.NoError(t, err)
	assert.False(t, archived)
	assert.Equal(t, []byte("offer letter"), data)
}

func TestGetMany_MultipleIDsReturnArchive(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	first, err := store.Put(ctx, "offer1.pdf", []byte("first offer"))
	require.NoError(t, err)
	second, err := store.Put(ctx, "offer2.pdf", []byte("second offer"))
	require.NoError(t, err)

	data, archived, err := GetMany(ctx, store, []string{first, second})
	require.NoError(t, err)
	assert.True(t, archived)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	entries := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[f.Name] = content
	}

	assert.Equal(t, []byte("first offer"), entries[first], "entries are named by blob identifier")
	assert.Equal(t, []byte("second offer"), entries[second])
}

func TestGetMany_EmptyIDList(t *testing.T) {
	store := NewMemory()

	_, _, err := GetMany(context.Background(), store, nil)
	assert.ErrorIs(t, err, sentinel.ErrInvalidArgument)
}

func TestGetMany_UnknownIDFailsArchive(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	id, err := store.Put(ctx, "a.pdf", []byte("a"))
	require.NoError(t, err)

	_, _, err = GetMany(ctx, store, []string{id, "missing"})
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
