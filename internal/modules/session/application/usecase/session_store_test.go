package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pratoJaEdge/internal/modules/session/domain"
	"pratoJaEdge/internal/modules/session/port"
	"pratoJaEdge/internal/shared/apiresult"
)

type fakeAuthAPI struct {
	loginOutcome *port.LoginOutcome
	loginErr     error
	profileUp    *apiresult.Upstream
	profileErr   error
	valid        bool
	validateErr  error
	logoutUp     *apiresult.Upstream
	logoutErr    error

	validateCalls int
	lastCred      string
}

func (f *fakeAuthAPI) Login(_ context.Context, _ port.Credentials) (*port.LoginOutcome, error) {
	return f.loginOutcome, f.loginErr
}

func (f *fakeAuthAPI) Logout(_ context.Context, cred string) (*apiresult.Upstream, error) {
	f.lastCred = cred
	return f.logoutUp, f.logoutErr
}

func (f *fakeAuthAPI) Profile(_ context.Context, cred string) (*apiresult.Upstream, error) {
	f.lastCred = cred
	return f.profileUp, f.profileErr
}

func (f *fakeAuthAPI) ValidateToken(_ context.Context, cred string) (bool, error) {
	f.validateCalls++
	f.lastCred = cred
	return f.valid, f.validateErr
}

func (f *fakeAuthAPI) Register(_ context.Context, _ port.Registration) (*apiresult.Upstream, error) {
	return &apiresult.Upstream{Status: 201}, nil
}

func (f *fakeAuthAPI) ForgotPassword(_ context.Context, _ string) (*apiresult.Upstream, error) {
	return &apiresult.Upstream{Status: 200}, nil
}

func (f *fakeAuthAPI) ValidateResetToken(_ context.Context, _ string) (*apiresult.Upstream, error) {
	return &apiresult.Upstream{Status: 200}, nil
}

func (f *fakeAuthAPI) ResetPassword(_ context.Context, _, _ string) (*apiresult.Upstream, error) {
	return &apiresult.Upstream{Status: 200}, nil
}

func TestLoginStoresCredentialWithoutIdentity(t *testing.T) {
	api := &fakeAuthAPI{loginOutcome: &port.LoginOutcome{
		Upstream:   &apiresult.Upstream{Status: 200, Body: map[string]any{"user": map[string]any{"id": "u1"}}},
		Credential: "JSESSIONID=abc",
	}}
	store := NewStore(api)
	sess := store.Begin()

	res := store.Login(context.Background(), sess, port.Credentials{Email: "ana@prato.ja", Password: "pw"})

	require.True(t, res.Success)
	assert.Equal(t, "JSESSIONID=abc", sess.Credential())
	assert.False(t, sess.Authenticated(), "login must not assume identity")
}

func TestLoginValidatesPayload(t *testing.T) {
	store := NewStore(&fakeAuthAPI{})
	sess := store.Begin()

	res := store.Login(context.Background(), sess, port.Credentials{Email: "not-an-email"})

	require.False(t, res.Success)
	assert.Equal(t, 400, res.Status)
}

func TestLoginFailureNormalizes(t *testing.T) {
	api := &fakeAuthAPI{loginErr: apiresult.NewUpstreamError(401, map[string]any{"message": "Credenciais inválidas."})}
	store := NewStore(api)
	sess := store.Begin()

	res := store.Login(context.Background(), sess, port.Credentials{Email: "ana@prato.ja", Password: "bad"})

	require.False(t, res.Success)
	assert.Equal(t, 401, res.Status)
	assert.Equal(t, "Credenciais inválidas.", res.Message)
}

func TestFetchUserCommitsIdentity(t *testing.T) {
	api := &fakeAuthAPI{profileUp: &apiresult.Upstream{Status: 200, Body: map[string]any{
		"user": map[string]any{"id": "u1", "name": "Ana", "role": "CLIENTE"},
	}}}
	store := NewStore(api)
	sess := store.Begin()
	sess.SetCredential("JSESSIONID=abc")

	res := store.FetchUser(context.Background(), sess)

	require.True(t, res.Success)
	require.True(t, sess.Authenticated())
	assert.Equal(t, "Ana", sess.Snapshot().Name)
	assert.Equal(t, domain.RoleCustomer, sess.Role())
	assert.Equal(t, "JSESSIONID=abc", api.lastCred)
}

func TestFetchUserUnauthorizedClearsSession(t *testing.T) {
	api := &fakeAuthAPI{profileErr: apiresult.NewUpstreamError(401, nil)}
	store := NewStore(api)
	sess := store.Begin()
	sess.SetCredential("JSESSIONID=stale")
	sess.Apply(&domain.User{ID: "u1", Name: "Ana", Role: domain.RoleCustomer})

	res := store.FetchUser(context.Background(), sess)

	require.False(t, res.Success)
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Credential())
}

func TestCheckTokenValidity(t *testing.T) {
	api := &fakeAuthAPI{valid: true}
	store := NewStore(api)
	sess := store.Begin()
	sess.SetCredential("JSESSIONID=abc")

	valid, err := store.CheckTokenValidity(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, 1, api.validateCalls)
}

func TestCheckTokenValidityAnonymousShortCircuits(t *testing.T) {
	api := &fakeAuthAPI{valid: true}
	store := NewStore(api)

	valid, err := store.CheckTokenValidity(context.Background(), store.Begin())
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Zero(t, api.validateCalls, "no upstream call without a credential")
}

func TestCheckTokenValidityRejectionClears(t *testing.T) {
	api := &fakeAuthAPI{validateErr: apiresult.NewUpstreamError(403, nil)}
	store := NewStore(api)
	sess := store.Begin()
	sess.SetCredential("JSESSIONID=abc")
	sess.Apply(&domain.User{ID: "u1", Role: domain.RoleAdmin})

	valid, err := store.CheckTokenValidity(context.Background(), sess)
	require.NoError(t, err, "an explicit rejection is not an error")
	assert.False(t, valid)
	assert.False(t, sess.Authenticated())
}

func TestCheckTokenValidityTransportFaultSurfaces(t *testing.T) {
	api := &fakeAuthAPI{validateErr: apiresult.NewTransportError(nil)}
	store := NewStore(api)
	sess := store.Begin()
	sess.SetCredential("JSESSIONID=abc")
	sess.Apply(&domain.User{ID: "u1"})

	valid, err := store.CheckTokenValidity(context.Background(), sess)
	require.Error(t, err)
	assert.False(t, valid)
	assert.True(t, sess.Authenticated(), "a dead upstream must not tear the session down")
}

func TestLogoutClearsAndForgets(t *testing.T) {
	api := &fakeAuthAPI{logoutUp: &apiresult.Upstream{Status: 200}}
	store := NewStore(api)
	sess := store.Begin()
	sess.SetCredential("JSESSIONID=abc")
	sess.Apply(&domain.User{ID: "u1"})

	res := store.Logout(context.Background(), sess)

	require.True(t, res.Success)
	assert.Nil(t, store.Lookup(sess.ID))
	assert.False(t, sess.Authenticated())
}

func TestFindByUserID(t *testing.T) {
	store := NewStore(&fakeAuthAPI{})
	sess := store.Begin()
	sess.Apply(&domain.User{ID: "u7", Name: "Rui"})
	other := store.Begin()
	other.Apply(&domain.User{ID: "u8"})

	matches := store.FindByUserID("u7")
	require.Len(t, matches, 1)
	assert.Equal(t, sess.ID, matches[0].ID)
	assert.Empty(t, store.FindByUserID(""))
}

// A profile commit on one request must not race a page render or an event
// handler reading the same registry session; run with -race.
func TestConcurrentCommitAndRead(t *testing.T) {
	store := NewStore(&fakeAuthAPI{})
	sess := store.Begin()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			sess.SetCredential("JSESSIONID=abc")
			sess.Apply(&domain.User{ID: "u7", Name: "Rui", Role: domain.RoleCustomer})
			sess.Clear()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			sess.Snapshot()
			store.FindByUserID("u7")
		}
	}()
	wg.Wait()
}

func TestResetPasswordFlow(t *testing.T) {
	store := NewStore(&fakeAuthAPI{})

	res := store.ResetPassword(context.Background(), "ana@prato.ja")
	require.True(t, res.Success)

	res = store.ResetPassword(context.Background(), "nope")
	require.False(t, res.Success)

	res = store.ValidateResetToken(context.Background(), "tok")
	require.True(t, res.Success)

	res = store.SubmitNewPassword(context.Background(), "tok", "")
	require.False(t, res.Success)

	res = store.SubmitNewPassword(context.Background(), "tok", "new-password")
	require.True(t, res.Success)
}
