package notes_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotter/jotter"
	"github.com/jotter/jotter/internal/backend"
	"github.com/jotter/jotter/pkg/notes"
	"github.com/jotter/jotter/pkg/session"
)

type fixture struct {
	server   *backend.Server
	provider *session.Provider
	store    *notes.Store
}

func newFixture(t *testing.T, scheme string) fixture {
	t.Helper()
	ctx := context.Background()

	srv := backend.New(backend.Options{HashCost: 4})
	hs := httptest.NewServer(srv)
	t.Cleanup(hs.Close)

	db, err := jotter.Connect(ctx, scheme+"://"+strings.TrimPrefix(hs.URL, "http://"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(ctx) })

	p := session.NewProvider(session.NewRemote(db), nil)
	s := notes.NewStore(notes.NewRemote(db))
	t.Cleanup(s.Bind(ctx, p))

	return fixture{server: srv, provider: p, store: s}
}

func TestStoreAgainstBackend(t *testing.T) {
	for _, scheme := range []string{"ws", "http"} {
		t.Run(scheme, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, scheme)
			assert.Zero(t, f.server.Calls("select"))

			require.NoError(t, f.provider.SignUp(ctx, "ada@example.com", "secret1"))
			assert.Equal(t, 1, f.server.Calls("select"))
			assert.Empty(t, f.store.Notes())

			first, err := f.store.Create(ctx, "Groceries", "milk")
			require.NoError(t, err)
			second, err := f.store.Create(ctx, "Work plan", "")
			require.NoError(t, err)
			assert.Equal(t, []string{second.ID, first.ID}, ids(f.store.Notes()))

			_, err = f.store.Update(ctx, first.ID, "Groceries", "milk, eggs")
			require.NoError(t, err)
			assert.Equal(t, []string{second.ID, first.ID}, ids(f.store.Notes()))

			require.NoError(t, f.store.Refetch(ctx))
			assert.Equal(t, []string{first.ID, second.ID}, ids(f.store.Notes()), "refetch orders by updated_at desc")

			require.NoError(t, f.store.Delete(ctx, second.ID))
			assert.Equal(t, []string{first.ID}, ids(f.store.Notes()))

			err = f.store.Delete(ctx, second.ID)
			require.Error(t, err)
			assert.Equal(t, "Record not found", f.store.Err())
			assert.Len(t, f.store.Notes(), 1)

			require.NoError(t, f.provider.SignOut(ctx))
			assert.Empty(t, f.store.Notes())
			assert.Equal(t, 2, f.server.Calls("select"))
		})
	}
}

func TestStoreSurfacesBackendFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "ws")
	require.NoError(t, f.provider.SignUp(ctx, "ada@example.com", "secret1"))
	_, err := f.store.Create(ctx, "kept", "")
	require.NoError(t, err)

	f.server.AddStub(backend.ErrorStub("select", -32000, "There was a problem with the database"))
	require.Error(t, f.store.Refetch(ctx))
	assert.Empty(t, f.store.Notes())
	assert.Equal(t, "There was a problem with the database", f.store.Err())

	f.server.ClearStubs()
	require.NoError(t, f.store.Refetch(ctx))
	assert.Len(t, f.store.Notes(), 1)
	assert.Empty(t, f.store.Err())
}

func ids(ns []notes.Note) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.ID
	}
	return out
}
