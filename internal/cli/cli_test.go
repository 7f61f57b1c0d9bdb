package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotter/jotter/internal/backend"
	"github.com/jotter/jotter/pkg/authform"
	"github.com/jotter/jotter/pkg/connection"
	"github.com/jotter/jotter/pkg/notes"
	"github.com/jotter/jotter/pkg/session"
)

type result struct {
	out    string
	errOut string
	err    error
}

type harness struct {
	t        *testing.T
	server   *backend.Server
	endpoint string
	tokens   *session.MemoryTokenStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(PasswordEnv, "")

	srv := backend.New(backend.Options{HashCost: 4})
	hs := httptest.NewServer(srv)
	t.Cleanup(hs.Close)

	return &harness{
		t:        t,
		server:   srv,
		endpoint: "ws://" + strings.TrimPrefix(hs.URL, "http://"),
		tokens:   &session.MemoryTokenStore{},
	}
}

func (h *harness) run(stdin string, args ...string) result {
	h.t.Helper()
	var out, errOut bytes.Buffer
	c := &CLI{
		In:     strings.NewReader(stdin),
		Out:    &out,
		Err:    &errOut,
		Tokens: h.tokens,
	}
	cmd := c.Command()
	cmd.SetArgs(append([]string{"--endpoint", h.endpoint}, args...))
	err := cmd.ExecuteContext(context.Background())
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func (h *harness) listJSON() []notes.Note {
	h.t.Helper()
	res := h.run("", "list", "--json")
	require.NoError(h.t, res.err)
	var got []notes.Note
	require.NoError(h.t, json.Unmarshal([]byte(res.out), &got))
	return got
}

func TestReadTimeCommand(t *testing.T) {
	h := newHarness(t)

	res := h.run("one two three", "readtime")
	require.NoError(t, res.err)
	assert.Equal(t, "1 min read (3 words)\n", res.out)

	res = h.run("one two three four five", "readtime", "--wpm", "2")
	require.NoError(t, res.err)
	assert.Equal(t, "3 min read (5 words)\n", res.out)

	res = h.run("   ", "readtime")
	require.NoError(t, res.err)
	assert.Equal(t, "Less than a minute (0 words)\n", res.out)
}

func TestSignUpValidatesBeforeCallingBackend(t *testing.T) {
	h := newHarness(t)
	h.endpoint = "ws://127.0.0.1:1"

	res := h.run("", "signup", "--email", "not-an-email", "--password", "123")
	require.Error(t, res.err)

	var fe authform.FieldErrors
	require.ErrorAs(t, res.err, &fe)
	assert.Equal(t, authform.InvalidEmail, fe.Email)
	assert.Equal(t, authform.PasswordTooShort, fe.Password)

	res = h.run("", "signup", "--email", "ada@example.com", "--password", "secret1", "--confirm-password", "secret2")
	require.ErrorAs(t, res.err, &fe)
	assert.Equal(t, authform.PasswordMismatch, fe.ConfirmPassword)
}

func TestSignInMessages(t *testing.T) {
	h := newHarness(t)

	res := h.run("", "signup", "--email", "ada@example.com", "--password", "secret1")
	require.NoError(t, res.err)
	assert.Equal(t, "Signed in as ada@example.com\n", res.out)

	res = h.run("", "signup", "--email", "ada@example.com", "--password", "secret1")
	require.Error(t, res.err)
	assert.Equal(t, authform.AlreadyRegistered, res.err.Error())

	res = h.run("", "signin", "--email", "ada@example.com", "--password", "wrong-password")
	require.Error(t, res.err)
	assert.Equal(t, authform.InvalidCredentials, res.err.Error())

	// The password is read from stdin when no flag or env var gives it.
	res = h.run("secret1\n", "signin", "--email", "ada@example.com")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "ada@example.com")
}

func TestSignedOutCommands(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{{"list"}, {"profile"}, {"new", "--title", "x"}, {"rm", "id", "--yes"}} {
		res := h.run("", args...)
		assert.ErrorIs(t, res.err, errNotSignedIn, args)
	}

	res := h.run("", "signout")
	require.NoError(t, res.err)
	assert.Equal(t, "Not signed in.\n", res.out)
}

func TestNotesCommands(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("", "signup", "--email", "ada@example.com", "--password", "secret1").err)

	res := h.run("", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "No notes yet")

	res = h.run("", "new", "--title", "Groceries", "--content", "milk eggs")
	require.NoError(t, res.err)
	assert.Contains(t, res.errOut, NoteCreated)
	groceries := strings.TrimSpace(res.out)
	require.NotEmpty(t, groceries)

	res = h.run("Plan the quarter", "new")
	require.NoError(t, res.err)
	plan := strings.TrimSpace(res.out)

	res = h.run("", "new", "--title", "  ", "--content", "")
	require.NoError(t, res.err)
	assert.Equal(t, "Nothing to save.\n", res.out)

	got := h.listJSON()
	require.Len(t, got, 2)
	assert.Equal(t, plan, got[0].ID)
	assert.Equal(t, notes.UntitledTitle, got[0].Title)
	assert.Equal(t, groceries, got[1].ID)

	res = h.run("", "list", "--search", "GROC")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Groceries")
	assert.NotContains(t, res.out, notes.UntitledTitle)
	assert.Contains(t, res.out, "1 min read")

	res = h.run("", "list", "--search", "nothing")
	require.NoError(t, res.err)
	assert.Equal(t, "No notes match \"nothing\".\n", res.out)

	res = h.run("", "edit", groceries, "--title", "Groceries list")
	require.NoError(t, res.err)
	assert.Contains(t, res.errOut, NoteSaved)

	res = h.run("", "show", groceries)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Groceries list")
	assert.Contains(t, res.out, "milk eggs")

	res = h.run("", "show", "missing")
	assert.EqualError(t, res.err, "note missing not found")

	res = h.run("", "rm", plan)
	assert.EqualError(t, res.err, "refusing to delete without --yes")

	res = h.run("", "rm", plan, "--yes")
	require.NoError(t, res.err)
	assert.Contains(t, res.errOut, NoteDeleted)

	got = h.listJSON()
	require.Len(t, got, 1)
	assert.Equal(t, "Groceries list", got[0].Title)

	res = h.run("", "profile")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "ada@example.com")
	assert.Contains(t, res.out, "Joined ")
	assert.Contains(t, res.out, "1 notes")

	res = h.run("", "signout")
	require.NoError(t, res.err)
	assert.Equal(t, "Signed out.\n", res.out)

	res = h.run("", "list")
	assert.ErrorIs(t, res.err, errNotSignedIn)
}

func TestNotesAreScopedToTheSignedInUser(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("", "signup", "--email", "ada@example.com", "--password", "secret1").err)
	require.NoError(t, h.run("", "new", "--title", "Ada's note").err)

	require.NoError(t, h.run("", "signup", "--email", "grace@example.com", "--password", "secret1").err)
	assert.Empty(t, h.listJSON())

	require.NoError(t, h.run("", "signin", "--email", "ada@example.com", "--password", "secret1").err)
	got := h.listJSON()
	require.Len(t, got, 1)
	assert.Equal(t, "Ada's note", got[0].Title)
}

func TestListRetriesFailedFetchOnce(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("", "signup", "--email", "ada@example.com", "--password", "secret1").err)

	stub := backend.ErrorStub("select", connection.CodeBackend, "There was a problem with the database")
	stub.Times = 1
	h.server.AddStub(stub)
	h.server.ResetCalls()

	res := h.run("", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "No notes yet")
	assert.Equal(t, 2, h.server.Calls("select"))
}

func TestListReportsFetchFailureAfterRetry(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("", "signup", "--email", "ada@example.com", "--password", "secret1").err)

	h.server.AddStub(backend.ErrorStub("select", connection.CodeBackend, "There was a problem with the database"))
	h.server.ResetCalls()

	res := h.run("", "list")
	assert.EqualError(t, res.err, "There was a problem with the database (run the command again to retry)")
	assert.Empty(t, res.out)
	assert.Equal(t, 2, h.server.Calls("select"))
}
