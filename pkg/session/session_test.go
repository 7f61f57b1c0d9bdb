package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// fakeAuth accepts any password equal to "secret1" and hands out the email
// as token.
type fakeAuth struct {
	current       string
	users         map[string]*User
	invalidateErr error
	infoErr       error
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{users: map[string]*User{
		"ada@example.com": {ID: "u-ada", Email: "ada@example.com"},
		"bob@example.com": {ID: "u-bob", Email: "bob@example.com"},
	}}
}

func (f *fakeAuth) SignUp(_ context.Context, email, password string) (string, error) {
	if _, ok := f.users[email]; ok {
		return "", errors.New("User already registered")
	}
	f.users[email] = &User{ID: "u-" + email, Email: email}
	f.current = email
	return email, nil
}

func (f *fakeAuth) SignIn(_ context.Context, email, password string) (string, error) {
	if _, ok := f.users[email]; !ok || password != "secret1" {
		return "", errors.New("Invalid login credentials")
	}
	f.current = email
	return email, nil
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) error {
	if _, ok := f.users[token]; !ok {
		return errors.New("Invalid token")
	}
	f.current = token
	return nil
}

func (f *fakeAuth) Invalidate(context.Context) error {
	f.current = ""
	return f.invalidateErr
}

func (f *fakeAuth) Info(context.Context) (*User, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	u, ok := f.users[f.current]
	if !ok {
		return nil, errors.New("Not signed in")
	}
	return u, nil
}

type ProviderTestSuite struct {
	suite.Suite
	auth     *fakeAuth
	tokens   *MemoryTokenStore
	provider *Provider
	changes  []string
}

func TestProviderTestSuite(t *testing.T) {
	suite.Run(t, new(ProviderTestSuite))
}

func (s *ProviderTestSuite) SetupTest() {
	s.auth = newFakeAuth()
	s.tokens = &MemoryTokenStore{}
	s.provider = NewProvider(s.auth, s.tokens)
	s.changes = nil
	s.provider.Subscribe(func(_ context.Context, u *User) {
		s.changes = append(s.changes, userID(u))
	})
}

func (s *ProviderTestSuite) TestStartsLoading() {
	st := s.provider.State()
	s.True(st.Loading)
	s.False(st.Authenticated())
}

func (s *ProviderTestSuite) TestRestoreWithoutToken() {
	s.Require().NoError(s.provider.Restore(context.Background()))

	st := s.provider.State()
	s.False(st.Loading)
	s.Nil(st.User)
	s.Empty(s.changes)
}

func (s *ProviderTestSuite) TestRestoreWithToken() {
	s.Require().NoError(s.tokens.Save("ada@example.com"))
	s.Require().NoError(s.provider.Restore(context.Background()))

	st := s.provider.State()
	s.False(st.Loading)
	s.Require().NotNil(st.User)
	s.Equal("u-ada", st.User.ID)
	s.Equal([]string{"u-ada"}, s.changes)
}

func (s *ProviderTestSuite) TestRestoreDropsRejectedToken() {
	s.Require().NoError(s.tokens.Save("stale"))
	s.Require().NoError(s.provider.Restore(context.Background()))

	s.Nil(s.provider.State().User)
	token, _ := s.tokens.Load()
	s.Empty(token)
}

func (s *ProviderTestSuite) TestSignInPersistsToken() {
	ctx := context.Background()
	s.Require().NoError(s.provider.SignIn(ctx, "ada@example.com", "secret1"))

	st := s.provider.State()
	s.False(st.Loading)
	s.Equal("ada@example.com", st.User.Email)

	token, _ := s.tokens.Load()
	s.Equal("ada@example.com", token)
}

func (s *ProviderTestSuite) TestSignInErrorIsReturnedUnchanged() {
	err := s.provider.SignIn(context.Background(), "ada@example.com", "nope")
	s.Require().Error(err)
	s.Equal("Invalid login credentials", err.Error())
	s.Nil(s.provider.State().User)
	s.False(s.provider.State().Loading)
	s.Empty(s.changes)
}

func (s *ProviderTestSuite) TestSignUp() {
	s.Require().NoError(s.provider.SignUp(context.Background(), "new@example.com", "secret1"))
	s.Equal([]string{"u-new@example.com"}, s.changes)

	err := s.provider.SignUp(context.Background(), "ada@example.com", "secret1")
	s.Require().Error(err)
	s.Contains(err.Error(), "already registered")
}

func (s *ProviderTestSuite) TestIdentityChangesNotifyOnce() {
	ctx := context.Background()
	s.Require().NoError(s.provider.SignIn(ctx, "ada@example.com", "secret1"))
	s.Require().NoError(s.provider.SignIn(ctx, "ada@example.com", "secret1"))
	s.Require().NoError(s.provider.SignIn(ctx, "bob@example.com", "secret1"))
	s.Require().NoError(s.provider.SignOut(ctx))

	s.Equal([]string{"u-ada", "u-bob", ""}, s.changes)
}

func (s *ProviderTestSuite) TestSignOutClearsEvenWhenBackendFails() {
	ctx := context.Background()
	s.Require().NoError(s.provider.SignIn(ctx, "ada@example.com", "secret1"))

	s.auth.invalidateErr = errors.New("connection refused")
	err := s.provider.SignOut(ctx)
	s.Require().Error(err)
	s.Contains(err.Error(), "connection refused")

	s.Nil(s.provider.State().User)
	token, _ := s.tokens.Load()
	s.Empty(token)
}

func (s *ProviderTestSuite) TestUnsubscribe() {
	var calls int
	unsubscribe := s.provider.Subscribe(func(context.Context, *User) { calls++ })

	ctx := context.Background()
	s.Require().NoError(s.provider.SignIn(ctx, "ada@example.com", "secret1"))
	unsubscribe()
	unsubscribe()
	s.Require().NoError(s.provider.SignOut(ctx))

	s.Equal(1, calls)
}

func TestFileTokenStore(t *testing.T) {
	store := FileTokenStore{Path: filepath.Join(t.TempDir(), "nested", "session.yaml")}

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("abc.def.ghi"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}
