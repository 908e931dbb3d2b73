package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessiondomain "pratoJaEdge/internal/modules/session/domain"
	"pratoJaEdge/internal/shared/apiresult"
	"pratoJaEdge/internal/shared/auth"
)

// fakeChecker scripts the guard's two session questions.
type fakeChecker struct {
	session *sessiondomain.Session
	valid   bool
	err     error
	checks  int
}

func (f *fakeChecker) Resolve(r *http.Request, codec *auth.CookieCodec) *sessiondomain.Session {
	return f.session
}

func (f *fakeChecker) CheckTokenValidity(ctx context.Context, sess *sessiondomain.Session) (bool, error) {
	f.checks++
	if sess == nil {
		return false, nil
	}
	return f.valid, f.err
}

func newGuardApp(checker *fakeChecker) *echo.Echo {
	e := echo.New()
	codec := auth.NewCookieCodec("test-secret", time.Hour)
	NewPageHandler(checker, codec, NewTable()).Register(e)
	return e
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func customerSession() *sessiondomain.Session {
	sess := &sessiondomain.Session{ID: "sess"}
	sess.Apply(&sessiondomain.User{ID: "7", Name: "Ana", Role: sessiondomain.RoleCustomer})
	return sess
}

func adminSession() *sessiondomain.Session {
	sess := &sessiondomain.Session{ID: "sess"}
	sess.Apply(&sessiondomain.User{ID: "1", Name: "Rui", Role: sessiondomain.RoleAdmin})
	return sess
}

func TestPublicPageNeedsNoValidation(t *testing.T) {
	checker := &fakeChecker{}
	rec := get(newGuardApp(checker), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, checker.checks, "public pages skip the round trip")
}

func TestProtectedPageRedirectsAnonymousToLogin(t *testing.T) {
	rec := get(newGuardApp(&fakeChecker{}), "/demands")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?to=%2Fdemands", rec.Header().Get("Location"))
}

func TestProtectedPageRedirectsInvalidSessionToLogin(t *testing.T) {
	checker := &fakeChecker{session: customerSession(), valid: false}
	rec := get(newGuardApp(checker), "/account")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?to=%2Faccount", rec.Header().Get("Location"))
	assert.Equal(t, 1, checker.checks, "exactly one round trip per navigation")
}

func TestProtectedPageServesValidSession(t *testing.T) {
	checker := &fakeChecker{session: customerSession(), valid: true}
	rec := get(newGuardApp(checker), "/demands")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoleMismatchRedirectsToNotAuthorized(t *testing.T) {
	checker := &fakeChecker{session: customerSession(), valid: true}
	rec := get(newGuardApp(checker), "/home")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/not-authorized", rec.Header().Get("Location"))
}

func TestAdminReachesAdminHome(t *testing.T) {
	checker := &fakeChecker{session: adminSession(), valid: true}
	rec := get(newGuardApp(checker), "/home")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticatedLoginRedirectsToRoleHome(t *testing.T) {
	admin := &fakeChecker{session: adminSession(), valid: true}
	rec := get(newGuardApp(admin), "/login")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))

	customer := &fakeChecker{session: customerSession(), valid: true}
	rec = get(newGuardApp(customer), "/login")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestAnonymousLoginProceeds(t *testing.T) {
	rec := get(newGuardApp(&fakeChecker{}), "/login")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerFaultDuringValidationLandsOnServerError(t *testing.T) {
	checker := &fakeChecker{
		session: customerSession(),
		err:     apiresult.NewUpstreamError(http.StatusInternalServerError, nil),
	}
	rec := get(newGuardApp(checker), "/demands")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/server-error", rec.Header().Get("Location"))
}

func TestTransportFailureDuringValidationLandsOnNetworkError(t *testing.T) {
	checker := &fakeChecker{
		session: customerSession(),
		err:     apiresult.NewTransportError(context.DeadlineExceeded),
	}
	rec := get(newGuardApp(checker), "/demands")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/network-error", rec.Header().Get("Location"))
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	rec := get(newGuardApp(&fakeChecker{}), "/nada-por-aqui")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMatchNormalizesTrailingSlash(t *testing.T) {
	table := NewTable()
	route, ok := table.Match("/demands/")
	require.True(t, ok)
	assert.Equal(t, "demands", route.Name)
}
