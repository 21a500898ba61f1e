// Package storetest holds the behaviour every core.DocumentStore backend
// shares, run against each backend from its own tests.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"invoice-docstore/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store and a function listing the keys
// currently held in its namespace.
type Factory func(t *testing.T) (store core.DocumentStore, keys func() []string)

func Run(t *testing.T, newStore Factory) {
	t.Run("RoundTrip", func(t *testing.T) { testRoundTrip(t, newStore) })
	t.Run("Idempotent", func(t *testing.T) { testIdempotent(t, newStore) })
	t.Run("DistinctContent", func(t *testing.T) { testDistinctContent(t, newStore) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, newStore) })
	t.Run("MalformedID", func(t *testing.T) { testMalformedID(t, newStore) })
	t.Run("ConcurrentIdenticalCreate", func(t *testing.T) { testConcurrentIdenticalCreate(t, newStore) })
	t.Run("ConcurrentDistinctCreate", func(t *testing.T) { testConcurrentDistinctCreate(t, newStore) })
}

func testRoundTrip(t *testing.T, newStore Factory) {
	ctx := context.Background()
	store, _ := newStore(t)

	inputs := [][]byte{
		[]byte("%PDF-1.3\nhello\n%%EOF\n"),
		{0x00, 0xff, 0x00, 0x10},
		[]byte(strings.Repeat("line item\n", 10000)),
		{},
	}
	for _, data := range inputs {
		id, err := store.Create(ctx, &core.Document{Data: data})
		require.NoError(t, err)
		assert.Equal(t, core.HashDocument(data), id)

		doc, err := store.FindID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, len(data), len(doc.Data))
		assert.True(t, string(data) == string(doc.Data), "stored bytes differ")
	}
}

func testIdempotent(t *testing.T, newStore Factory) {
	ctx := context.Background()
	store, keys := newStore(t)
	data := []byte("same invoice twice")

	first, err := store.Create(ctx, &core.Document{Data: data})
	require.NoError(t, err)
	assert.Equal(t, []string{first + core.DocumentExtension}, keys())

	second, err := store.Create(ctx, &core.Document{Data: append([]byte(nil), data...)})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{first + core.DocumentExtension}, keys())
}

func testDistinctContent(t *testing.T, newStore Factory) {
	ctx := context.Background()
	store, keys := newStore(t)

	a, err := store.Create(ctx, &core.Document{Data: []byte("invoice a")})
	require.NoError(t, err)
	b, err := store.Create(ctx, &core.Document{Data: []byte("invoice b")})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.ElementsMatch(t, []string{a + core.DocumentExtension, b + core.DocumentExtension}, keys())

	doc, err := store.FindID(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "invoice a", string(doc.Data))
}

func testNotFound(t *testing.T, newStore Factory) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, err := store.Create(ctx, &core.Document{Data: []byte("something else")})
	require.NoError(t, err)

	for _, id := range []string{
		strings.Repeat("0", core.HashSize),
		core.HashDocument([]byte("never stored")),
	} {
		doc, err := store.FindID(ctx, id)
		require.Error(t, err)
		assert.Nil(t, doc)
		assert.True(t, errors.Is(err, core.ErrNotFound), "want ErrNotFound, got %v", err)
	}
}

func testMalformedID(t *testing.T, newStore Factory) {
	ctx := context.Background()
	store, _ := newStore(t)

	id, err := store.Create(ctx, &core.Document{Data: []byte("stored")})
	require.NoError(t, err)

	for _, bad := range []string{"", "xyz", strings.ToUpper(id), id + core.DocumentExtension, "../" + id} {
		_, err := store.FindID(ctx, bad)
		assert.True(t, errors.Is(err, core.ErrNotFound), "id %q: want ErrNotFound, got %v", bad, err)
	}
}

func testConcurrentIdenticalCreate(t *testing.T, newStore Factory) {
	ctx := context.Background()
	store, keys := newStore(t)
	data := []byte(strings.Repeat("concurrent invoice body ", 4096))
	want := core.HashDocument(data)

	const writers = 16
	var wg sync.WaitGroup
	ids := make([]string, writers)
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = store.Create(ctx, &core.Document{Data: data})
		}(i)
	}
	wg.Wait()

	for i := 0; i < writers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, want, ids[i])
	}
	assert.Equal(t, []string{want + core.DocumentExtension}, keys())

	doc, err := store.FindID(ctx, want)
	require.NoError(t, err)
	assert.True(t, string(data) == string(doc.Data), "stored bytes differ")
}

func testConcurrentDistinctCreate(t *testing.T, newStore Factory) {
	ctx := context.Background()
	store, keys := newStore(t)

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Create(ctx, &core.Document{Data: []byte(fmt.Sprintf("invoice %d", i))})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, keys(), writers)
	for i := 0; i < writers; i++ {
		data := []byte(fmt.Sprintf("invoice %d", i))
		doc, err := store.FindID(ctx, core.HashDocument(data))
		require.NoError(t, err)
		assert.Equal(t, data, doc.Data)
	}
}
