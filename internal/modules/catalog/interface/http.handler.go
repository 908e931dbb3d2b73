package transport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"pratoJaEdge/internal/modules/catalog/application/store"
	catalogdomain "pratoJaEdge/internal/modules/catalog/domain"
	"pratoJaEdge/internal/modules/session/application/usecase"
	sessiondomain "pratoJaEdge/internal/modules/session/domain"
	"pratoJaEdge/internal/shared/apiresult"
	"pratoJaEdge/internal/shared/auth"
)

// Notifier receives the outcome of catalog mutations so the active session can
// be shown a transient message.
type Notifier interface {
	NotifyResult(sessionID string, res apiresult.Result)
}

// Stores bundles the per-entity stores the catalog handler serves.
type Stores struct {
	Dishes    *store.DishStore
	Demands   *store.DemandStore
	Items     *store.ItemStore
	Users     *store.UserStore
	Addresses *store.AddressStore
	Cards     *store.CardStore
	CEP       *store.CEPStore
}

// CatalogHandler exposes the domain stores over /api. Every response is the
// uniform Result envelope; an upstream 401/403 additionally ends the edge
// session and expires the browser cookie.
type CatalogHandler struct {
	sessions *usecase.Store
	codec    *auth.CookieCodec
	stores   Stores
	notifier Notifier
}

func NewCatalogHandler(sessions *usecase.Store, codec *auth.CookieCodec, stores Stores, notifier Notifier) *CatalogHandler {
	return &CatalogHandler{sessions: sessions, codec: codec, stores: stores, notifier: notifier}
}

func (h *CatalogHandler) Register(g *echo.Group) {
	h.registerCRUD(g, "/dishes", h.stores.Dishes.Store)
	h.registerCRUD(g, "/demands", h.stores.Demands.Store)
	h.registerCRUD(g, "/items", h.stores.Items.Store)
	h.registerCRUD(g, "/addresses", h.stores.Addresses.Store)
	h.registerCRUD(g, "/cards", h.stores.Cards.Store)

	g.GET("/demands/user/:userID", h.DemandsByUser)
	g.GET("/demands/:id/items", h.ItemsByDemand)

	g.GET("/users/:id", h.UserByID)
	g.PUT("/users/:id", h.UpdateUser)
	g.DELETE("/users/:id", h.DeleteUser)
	g.GET("/users/cpf/:cpf", h.UserByCPF)

	g.POST("/addresses/search", h.SearchAddresses)
	g.POST("/cards/search", h.SearchCards)

	g.GET("/cep/:cep", h.ResolveCEP)
}

func (h *CatalogHandler) registerCRUD(g *echo.Group, prefix string, s *store.Store) {
	g.GET(prefix, func(c echo.Context) error {
		sess, fail := h.authenticated(c)
		if fail != nil {
			return c.JSON(fail.Status, fail)
		}
		return h.reply(c, sess, s.List(c.Request().Context(), sess.Credential(), pageRequest(c)), false)
	})
	g.GET(prefix+"/:id", func(c echo.Context) error {
		sess, fail := h.authenticated(c)
		if fail != nil {
			return c.JSON(fail.Status, fail)
		}
		return h.reply(c, sess, s.GetByID(c.Request().Context(), sess.Credential(), c.Param("id")), false)
	})
	g.POST(prefix, func(c echo.Context) error {
		sess, fail := h.authenticated(c)
		if fail != nil {
			return c.JSON(fail.Status, fail)
		}
		payload, err := bindPayload(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, badRequest())
		}
		return h.reply(c, sess, s.Create(c.Request().Context(), sess.Credential(), payload), true)
	})
	g.PUT(prefix+"/:id", func(c echo.Context) error {
		sess, fail := h.authenticated(c)
		if fail != nil {
			return c.JSON(fail.Status, fail)
		}
		payload, err := bindPayload(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, badRequest())
		}
		return h.reply(c, sess, s.Update(c.Request().Context(), sess.Credential(), c.Param("id"), payload), true)
	})
	g.DELETE(prefix+"/:id", func(c echo.Context) error {
		sess, fail := h.authenticated(c)
		if fail != nil {
			return c.JSON(fail.Status, fail)
		}
		return h.reply(c, sess, s.Delete(c.Request().Context(), sess.Credential(), c.Param("id")), true)
	})
}

func (h *CatalogHandler) DemandsByUser(c echo.Context) error {
	sess, fail := h.authenticated(c)
	if fail != nil {
		return c.JSON(fail.Status, fail)
	}
	res := h.stores.Demands.DemandsByUser(c.Request().Context(), sess.Credential(), c.Param("userID"), pageRequest(c))
	return h.reply(c, sess, res, false)
}

func (h *CatalogHandler) ItemsByDemand(c echo.Context) error {
	sess, fail := h.authenticated(c)
	if fail != nil {
		return c.JSON(fail.Status, fail)
	}
	res := h.stores.Items.ItemsByDemand(c.Request().Context(), sess.Credential(), c.Param("id"))
	return h.reply(c, sess, res, false)
}

func (h *CatalogHandler) UserByID(c echo.Context) error {
	sess, fail := h.authenticated(c)
	if fail != nil {
		return c.JSON(fail.Status, fail)
	}
	res := h.stores.Users.GetByID(c.Request().Context(), sess.Credential(), c.Param("id"))
	return h.reply(c, sess, res, false)
}

func (h *CatalogHandler) UpdateUser(c echo.Context) error {
	sess, fail := h.authenticated(c)
	if fail != nil {
		return c.JSON(fail.Status, fail)
	}
	payload, err := bindPayload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, badRequest())
	}
	res := h.stores.Users.Update(c.Request().Context(), sess.Credential(), c.Param("id"), payload)
	return h.reply(c, sess, res, true)
}

func (h *CatalogHandler) DeleteUser(c echo.Context) error {
	sess, fail := h.authenticated(c)
	if fail != nil {
		return c.JSON(fail.Status, fail)
	}
	res := h.stores.Users.Delete(c.Request().Context(), sess.Credential(), c.Param("id"))
	return h.reply(c, sess, res, true)
}

func (h *CatalogHandler) UserByCPF(c echo.Context) error {
	sess, fail := h.authenticated(c)
	if fail != nil {
		return c.JSON(fail.Status, fail)
	}
	res := h.stores.Users.ByCPF(c.Request().Context(), sess.Credential(), c.Param("cpf"))
	return h.reply(c, sess, res, false)
}

func (h *CatalogHandler) SearchAddresses(c echo.Context) error {
	sess, fail := h.authenticated(c)
	if fail != nil {
		return c.JSON(fail.Status, fail)
	}
	var filter store.AddressFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest())
	}
	res := h.stores.Addresses.Search(c.Request().Context(), sess.Credential(), filter, pageRequest(c))
	return h.reply(c, sess, res, false)
}

func (h *CatalogHandler) SearchCards(c echo.Context) error {
	sess, fail := h.authenticated(c)
	if fail != nil {
		return c.JSON(fail.Status, fail)
	}
	var filter store.CardFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest())
	}
	res := h.stores.Cards.Search(c.Request().Context(), sess.Credential(), filter, pageRequest(c))
	return h.reply(c, sess, res, false)
}

// ResolveCEP needs no upstream credential; the postal service is public.
func (h *CatalogHandler) ResolveCEP(c echo.Context) error {
	res := h.stores.CEP.Resolve(c.Request().Context(), c.Param("cep"))
	return c.JSON(res.Status, res)
}

// reply applies the global interceptor rule before writing the envelope: an
// upstream 401/403 ends the edge session so the browser is forced back through
// login. Mutations additionally raise a notification for the session.
func (h *CatalogHandler) reply(c echo.Context, sess *sessiondomain.Session, res apiresult.Result, notify bool) error {
	if res.Status == http.StatusUnauthorized || res.Status == http.StatusForbidden {
		h.sessions.Invalidate(sess.ID)
		c.SetCookie(expiredSessionCookie())
	} else if notify && h.notifier != nil {
		h.notifier.NotifyResult(sess.ID, res)
	}
	return c.JSON(res.Status, res)
}

func (h *CatalogHandler) authenticated(c echo.Context) (*sessiondomain.Session, *apiresult.Result) {
	sess := h.sessions.Resolve(c.Request(), h.codec)
	if !sess.Authenticated() {
		return nil, &apiresult.Result{
			Success: false,
			Message: "Sessão não encontrada.",
			Status:  http.StatusUnauthorized,
		}
	}
	return sess, nil
}

func bindPayload(c echo.Context) (map[string]any, error) {
	payload := map[string]any{}
	if err := c.Bind(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func badRequest() apiresult.Result {
	return apiresult.Result{Success: false, Message: "Requisição inválida.", Status: http.StatusBadRequest}
}

func pageRequest(c echo.Context) catalogdomain.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("pageSize"))
	return catalogdomain.PageRequest{
		Page:      page,
		PageSize:  size,
		Sort:      c.QueryParam("sort"),
		SortOrder: c.QueryParam("sortOrder"),
	}
}

func expiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	}
}
