package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pratoJaEdge/internal/modules/cart/application/usecase"
	"pratoJaEdge/internal/modules/cart/domain"
	sessionusecase "pratoJaEdge/internal/modules/session/application/usecase"
	"pratoJaEdge/internal/shared/apiresult"
	"pratoJaEdge/internal/shared/auth"
)

// CartHandler exposes the per-session cart over /api/cart.
type CartHandler struct {
	sessions *sessionusecase.Store
	codec    *auth.CookieCodec
	carts    *usecase.CartStore
}

func NewCartHandler(sessions *sessionusecase.Store, codec *auth.CookieCodec, carts *usecase.CartStore) *CartHandler {
	return &CartHandler{sessions: sessions, codec: codec, carts: carts}
}

func (h *CartHandler) Register(g *echo.Group) {
	g.GET("/cart", h.Current)
	g.PUT("/cart", h.Replace)
	g.DELETE("/cart", h.Clear)
}

// Current returns the session's cart; anonymous visitors get the empty cart
// instead of an error so the storefront can render before login.
func (h *CartHandler) Current(c echo.Context) error {
	sess := h.sessions.Resolve(c.Request(), h.codec)
	if sess == nil {
		return c.JSON(http.StatusOK, apiresult.Result{Success: true, Status: http.StatusOK, Data: domain.Cart{}})
	}
	return c.JSON(http.StatusOK, apiresult.Result{Success: true, Status: http.StatusOK, Data: h.carts.Load(sess.ID)})
}

func (h *CartHandler) Replace(c echo.Context) error {
	sess := h.sessions.Resolve(c.Request(), h.codec)
	if sess == nil {
		return c.JSON(http.StatusUnauthorized, apiresult.Result{
			Success: false, Message: "Sessão não encontrada.", Status: http.StatusUnauthorized,
		})
	}

	var cart domain.Cart
	if err := c.Bind(&cart); err != nil {
		return c.JSON(http.StatusBadRequest, apiresult.Result{
			Success: false, Message: "Requisição inválida.", Status: http.StatusBadRequest,
		})
	}
	if err := h.carts.Save(sess.ID, cart); err != nil {
		return c.JSON(http.StatusInternalServerError, apiresult.Result{
			Success: false, Message: "Erro ao salvar o carrinho!", Status: http.StatusInternalServerError,
		})
	}
	return c.JSON(http.StatusOK, apiresult.Result{
		Success: true, Message: "Carrinho atualizado!", Status: http.StatusOK, Data: cart,
	})
}

func (h *CartHandler) Clear(c echo.Context) error {
	sess := h.sessions.Resolve(c.Request(), h.codec)
	if sess != nil {
		h.carts.Clear(sess.ID)
	}
	return c.JSON(http.StatusOK, apiresult.Result{
		Success: true, Message: "Carrinho esvaziado!", Status: http.StatusOK, Data: domain.Cart{},
	})
}
