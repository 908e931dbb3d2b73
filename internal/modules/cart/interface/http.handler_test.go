package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pratoJaEdge/internal/modules/cart/application/usecase"
	sessionusecase "pratoJaEdge/internal/modules/session/application/usecase"
	"pratoJaEdge/internal/shared/apiresult"
	"pratoJaEdge/internal/shared/auth"
)

func newCartApp(t *testing.T) (*echo.Echo, string) {
	t.Helper()
	sessions := sessionusecase.NewStore(nil)
	codec := auth.NewCookieCodec("test-secret", time.Hour)
	carts := usecase.NewCartStore(usecase.NewCodec("segredo-do-carrinho"))

	sess := sessions.Begin()
	cookie, err := codec.Mint(sess.ID)
	require.NoError(t, err)

	e := echo.New()
	NewCartHandler(sessions, codec, carts).Register(e.Group("/api"))
	return e, cookie
}

func cartRequest(e *echo.Echo, method, body, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/cart", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCartRoundTripThroughHandler(t *testing.T) {
	e, cookie := newCartApp(t)

	body := `{"items":[{"dishId":"1","name":"Feijoada","quantity":2,"unitPrice":35.5}]}`
	rec := cartRequest(e, http.MethodPut, body, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = cartRequest(e, http.MethodGet, "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var res apiresult.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	data, ok := res.Data.(map[string]any)
	require.True(t, ok)
	items, ok := data["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestAnonymousGetsEmptyCart(t *testing.T) {
	e, _ := newCartApp(t)
	rec := cartRequest(e, http.MethodGet, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":null`)
}

func TestAnonymousCannotSaveCart(t *testing.T) {
	e, _ := newCartApp(t)
	rec := cartRequest(e, http.MethodPut, `{"items":[]}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClearEmptiesCart(t *testing.T) {
	e, cookie := newCartApp(t)
	cartRequest(e, http.MethodPut, `{"items":[{"dishId":"1","name":"Feijoada","quantity":1,"unitPrice":35.5}]}`, cookie)

	rec := cartRequest(e, http.MethodDelete, "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = cartRequest(e, http.MethodGet, "", cookie)
	assert.Contains(t, rec.Body.String(), `"items":null`)
}
