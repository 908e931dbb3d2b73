package transport

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pratoJaEdge/internal/modules/session/application/usecase"
	"pratoJaEdge/internal/modules/session/domain"
	"pratoJaEdge/internal/modules/session/port"
	"pratoJaEdge/internal/shared/apiresult"
	"pratoJaEdge/internal/shared/auth"
)

// SessionHandler exposes the session store over /api/session.
type SessionHandler struct {
	store *usecase.Store
	codec *auth.CookieCodec
	ttl   time.Duration
}

func NewSessionHandler(store *usecase.Store, codec *auth.CookieCodec, ttl time.Duration) *SessionHandler {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionHandler{store: store, codec: codec, ttl: ttl}
}

func (h *SessionHandler) Register(g *echo.Group) {
	g.POST("/session/login", h.Login)
	g.POST("/session/logout", h.Logout)
	g.GET("/session", h.Current)
	g.GET("/session/profile", h.Profile)
	g.GET("/session/validate", h.Validate)
	g.POST("/session/register", h.SignUp)
	g.POST("/session/forgot-password", h.ForgotPassword)
	g.POST("/session/validate-reset-token", h.ValidateResetToken)
	g.POST("/session/reset-password", h.ResetPassword)
}

func (h *SessionHandler) Login(c echo.Context) error {
	var creds port.Credentials
	if err := c.Bind(&creds); err != nil {
		return c.JSON(http.StatusBadRequest, apiresult.Result{
			Success: false, Message: "Requisição inválida.", Status: http.StatusBadRequest,
		})
	}

	sess := h.store.Resolve(c.Request(), h.codec)
	if sess == nil {
		sess = h.store.Begin()
	}

	res := h.store.Login(c.Request().Context(), sess, creds)
	if !res.Success {
		return c.JSON(res.Status, res)
	}

	value, err := h.codec.Mint(sess.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, apiresult.Result{
			Success: false, Message: "Erro ao iniciar a sessão.", Status: http.StatusInternalServerError,
		})
	}
	c.SetCookie(h.sessionCookie(value, h.ttl))
	return c.JSON(res.Status, res)
}

func (h *SessionHandler) Logout(c echo.Context) error {
	sess := h.store.Resolve(c.Request(), h.codec)
	if sess == nil {
		c.SetCookie(h.sessionCookie("", -time.Hour))
		return c.JSON(http.StatusOK, apiresult.Result{Success: true, Message: "Sessão encerrada.", Status: http.StatusOK})
	}

	res := h.store.Logout(c.Request().Context(), sess)
	c.SetCookie(h.sessionCookie("", -time.Hour))
	return c.JSON(res.Status, res)
}

// Current returns the browser-safe session snapshot without an upstream call.
func (h *SessionHandler) Current(c echo.Context) error {
	sess := h.store.Resolve(c.Request(), h.codec)
	if sess == nil {
		return c.JSON(http.StatusOK, domain.Snapshot{})
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// Profile refreshes identity from the upstream and returns the result.
func (h *SessionHandler) Profile(c echo.Context) error {
	sess := h.store.Resolve(c.Request(), h.codec)
	if sess == nil {
		return c.JSON(http.StatusUnauthorized, apiresult.Result{
			Success: false, Message: "Sessão não encontrada.", Status: http.StatusUnauthorized,
		})
	}

	res := h.store.FetchUser(c.Request().Context(), sess)
	if res.Status == http.StatusUnauthorized || res.Status == http.StatusForbidden {
		h.store.Invalidate(sess.ID)
		c.SetCookie(h.sessionCookie("", -time.Hour))
	}
	return c.JSON(res.Status, res)
}

func (h *SessionHandler) Validate(c echo.Context) error {
	sess := h.store.Resolve(c.Request(), h.codec)
	valid, err := h.store.CheckTokenValidity(c.Request().Context(), sess)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]bool{"valid": false})
	}
	return c.JSON(http.StatusOK, map[string]bool{"valid": valid})
}

func (h *SessionHandler) SignUp(c echo.Context) error {
	var reg port.Registration
	if err := c.Bind(&reg); err != nil {
		return c.JSON(http.StatusBadRequest, apiresult.Result{
			Success: false, Message: "Requisição inválida.", Status: http.StatusBadRequest,
		})
	}
	res := h.store.Register(c.Request().Context(), reg)
	return c.JSON(res.Status, res)
}

func (h *SessionHandler) ForgotPassword(c echo.Context) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, apiresult.Result{
			Success: false, Message: "Requisição inválida.", Status: http.StatusBadRequest,
		})
	}
	res := h.store.ResetPassword(c.Request().Context(), body.Email)
	return c.JSON(res.Status, res)
}

func (h *SessionHandler) ValidateResetToken(c echo.Context) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, apiresult.Result{
			Success: false, Message: "Requisição inválida.", Status: http.StatusBadRequest,
		})
	}
	res := h.store.ValidateResetToken(c.Request().Context(), body.Token)
	return c.JSON(res.Status, res)
}

func (h *SessionHandler) ResetPassword(c echo.Context) error {
	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, apiresult.Result{
			Success: false, Message: "Requisição inválida.", Status: http.StatusBadRequest,
		})
	}
	res := h.store.SubmitNewPassword(c.Request().Context(), body.Token, body.Password)
	return c.JSON(res.Status, res)
}

func (h *SessionHandler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
	} else {
		cookie.MaxAge = -1
	}
	return cookie
}
