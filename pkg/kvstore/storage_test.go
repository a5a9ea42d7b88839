package kvstore_test

import (
	"context"
	"testing"

	"koryob-backend/pkg/kvstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    string   `json:"id"`
	Views int      `json:"views"`
	Tags  []string `json:"tags"`
}

func TestMemoryStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	in := []record{{ID: "a", Views: 3, Tags: []string{"go"}}, {ID: "b"}}
	require.NoError(t, store.Save(ctx, "records", in))

	var out []record
	found, err := store.Load(ctx, "records", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestMemoryStorageMissingKey(t *testing.T) {
	var out []record
	found, err := kvstore.NewMemory().Load(context.Background(), "nope", &out)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, out)
}

func TestMemoryStorageDecodeError(t *testing.T) {
	ctx := context.Background()
	backend := kvstore.NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, "records", []byte("{not json")))

	var out []record
	found, err := kvstore.New(backend).Load(ctx, "records", &out)
	assert.True(t, found)

	var decodeErr *kvstore.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "records", decodeErr.Key)
}

func TestMemoryStorageDelete(t *testing.T) {
	ctx := context.Background()
	backend := kvstore.NewMemoryBackend()
	store := kvstore.New(backend)

	require.NoError(t, store.Save(ctx, "session", record{ID: "x"}))
	require.NoError(t, store.Delete(ctx, "session"))
	require.NoError(t, store.Delete(ctx, "session"), "deleting a missing key is not an error")

	assert.Empty(t, backend.Keys())
}

func TestMemoryBackendCopiesValues(t *testing.T) {
	ctx := context.Background()
	backend := kvstore.NewMemoryBackend()

	value := []byte(`"abc"`)
	require.NoError(t, backend.Put(ctx, "k", value))
	value[1] = 'z'

	got, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(got))
}
