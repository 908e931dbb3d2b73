package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pratoJaEdge/internal/modules/catalog/application/store"
	catalogdomain "pratoJaEdge/internal/modules/catalog/domain"
	"pratoJaEdge/internal/modules/session/application/usecase"
	sessiondomain "pratoJaEdge/internal/modules/session/domain"
	"pratoJaEdge/internal/shared/apiresult"
	"pratoJaEdge/internal/shared/auth"
)

type scriptedGateway struct {
	mu          sync.Mutex
	err         error
	credentials []string
	filters     []string
}

func (g *scriptedGateway) record(credential string) {
	g.mu.Lock()
	g.credentials = append(g.credentials, credential)
	g.mu.Unlock()
}

func (g *scriptedGateway) answer() (*apiresult.Upstream, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &apiresult.Upstream{Status: http.StatusOK, Body: map[string]any{"data": []any{map[string]any{"id": 1}}}}, nil
}

func (g *scriptedGateway) List(ctx context.Context, credential, entity string, page catalogdomain.PageRequest) (*apiresult.Upstream, error) {
	g.record(credential)
	return g.answer()
}

func (g *scriptedGateway) Detail(ctx context.Context, credential, entity, id string) (*apiresult.Upstream, error) {
	g.record(credential)
	return g.answer()
}

func (g *scriptedGateway) Create(ctx context.Context, credential, entity string, payload any) (*apiresult.Upstream, error) {
	g.record(credential)
	if g.err != nil {
		return nil, g.err
	}
	return &apiresult.Upstream{Status: http.StatusCreated, Body: map[string]any{"data": payload}}, nil
}

func (g *scriptedGateway) Update(ctx context.Context, credential, entity, id string, payload any) (*apiresult.Upstream, error) {
	g.record(credential)
	return g.answer()
}

func (g *scriptedGateway) Delete(ctx context.Context, credential, entity, id string) (*apiresult.Upstream, error) {
	g.record(credential)
	return g.answer()
}

func (g *scriptedGateway) ListByParent(ctx context.Context, credential, entity, parent, parentID string, page catalogdomain.PageRequest) (*apiresult.Upstream, error) {
	g.record(credential)
	return g.answer()
}

func (g *scriptedGateway) Search(ctx context.Context, credential, entity, filter string, page catalogdomain.PageRequest) (*apiresult.Upstream, error) {
	g.record(credential)
	g.mu.Lock()
	g.filters = append(g.filters, filter)
	g.mu.Unlock()
	return g.answer()
}

type recordingNotifier struct {
	mu      sync.Mutex
	results []apiresult.Result
}

func (n *recordingNotifier) NotifyResult(sessionID string, res apiresult.Result) {
	n.mu.Lock()
	n.results = append(n.results, res)
	n.mu.Unlock()
}

type catalogFixture struct {
	echo     *echo.Echo
	sessions *usecase.Store
	codec    *auth.CookieCodec
	gateway  *scriptedGateway
	notifier *recordingNotifier
	session  *sessiondomain.Session
	cookie   string
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	gw := &scriptedGateway{}
	sessions := usecase.NewStore(nil)
	codec := auth.NewCookieCodec("test-secret", time.Hour)
	notifier := &recordingNotifier{}

	sess := sessions.Begin()
	sess.Apply(&sessiondomain.User{ID: "7", Name: "Ana", Role: sessiondomain.RoleCustomer})
	sess.SetCredential("SESSION=upstream")

	cookie, err := codec.Mint(sess.ID)
	require.NoError(t, err)

	stores := Stores{
		Dishes:    store.NewDishStore(gw),
		Demands:   store.NewDemandStore(gw),
		Items:     store.NewItemStore(gw),
		Users:     store.NewUserStore(gw),
		Addresses: store.NewAddressStore(gw),
		Cards:     store.NewCardStore(gw),
		CEP:       store.NewCEPStore(&fixtureCEPLookup{}),
	}

	e := echo.New()
	NewCatalogHandler(sessions, codec, stores, notifier).Register(e.Group("/api"))

	return &catalogFixture{echo: e, sessions: sessions, codec: codec, gateway: gw, notifier: notifier, session: sess, cookie: cookie}
}

type fixtureCEPLookup struct{}

func (f *fixtureCEPLookup) AddressByCEP(ctx context.Context, cep string) (*apiresult.Upstream, error) {
	return &apiresult.Upstream{Status: http.StatusOK, Body: map[string]any{"localidade": "Recife"}}, nil
}

func (f *catalogFixture) do(t *testing.T, method, target, body string, authenticated bool) (*httptest.ResponseRecorder, apiresult.Result) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authenticated {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: f.cookie})
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)

	var res apiresult.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("response is not a result envelope: %s", rec.Body.String())
	}
	return rec, res
}

func TestListRequiresSession(t *testing.T) {
	f := newCatalogFixture(t)
	rec, res := f.do(t, http.MethodGet, "/api/dishes", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, res.Success)
	assert.Empty(t, f.gateway.credentials, "anonymous requests never reach the upstream")
}

func TestListForwardsSessionCredential(t *testing.T) {
	f := newCatalogFixture(t)
	rec, res := f.do(t, http.MethodGet, "/api/dishes?page=2", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)
	require.Len(t, f.gateway.credentials, 1)
	assert.Equal(t, "SESSION=upstream", f.gateway.credentials[0])
}

func TestMutationRaisesNotification(t *testing.T) {
	f := newCatalogFixture(t)
	rec, res := f.do(t, http.MethodPost, "/api/dishes", `{"name":"Feijoada"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, res.Success)
	require.Len(t, f.notifier.results, 1)
	assert.True(t, f.notifier.results[0].Success)
}

func TestReadDoesNotNotify(t *testing.T) {
	f := newCatalogFixture(t)
	f.do(t, http.MethodGet, "/api/dishes", "", true)
	assert.Empty(t, f.notifier.results)
}

func TestUpstreamUnauthorizedEndsSession(t *testing.T) {
	f := newCatalogFixture(t)
	f.gateway.err = apiresult.NewUpstreamError(http.StatusUnauthorized, map[string]any{"message": "expirado"})

	rec, res := f.do(t, http.MethodGet, "/api/demands", "", true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, res.Success)
	assert.Nil(t, f.sessions.Lookup(f.session.ID), "the edge session is forgotten")

	expired := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == auth.SessionCookieName && cookie.MaxAge < 0 {
			expired = true
		}
	}
	assert.True(t, expired, "the browser cookie is expired")
}

func TestSearchAddressesBuildsFilter(t *testing.T) {
	f := newCatalogFixture(t)
	rec, res := f.do(t, http.MethodPost, "/api/addresses/search", `{"city":"Recife","userId":"7"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)
	require.Len(t, f.gateway.filters, 1)
	assert.Equal(t, "userId=like=7;city=like=Recife", f.gateway.filters[0])
}

func TestDemandsByUserRoute(t *testing.T) {
	f := newCatalogFixture(t)
	rec, res := f.do(t, http.MethodGet, "/api/demands/user/7?page=1", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)
}

func TestResolveCEPIsPublic(t *testing.T) {
	f := newCatalogFixture(t)
	rec, res := f.do(t, http.MethodGet, "/api/cep/50030230", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)
}
