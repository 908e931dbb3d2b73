package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"pratoJaEdge/internal/modules/payments/port"
	"pratoJaEdge/internal/modules/session/application/usecase"
	"pratoJaEdge/internal/shared/apiresult"
	"pratoJaEdge/internal/shared/auth"
)

// PaymentsHandler streams upstream payment documents to the browser.
type PaymentsHandler struct {
	sessions *usecase.Store
	codec    *auth.CookieCodec
	api      port.BoletoAPI
	validate *validator.Validate
}

func NewPaymentsHandler(sessions *usecase.Store, codec *auth.CookieCodec, api port.BoletoAPI) *PaymentsHandler {
	return &PaymentsHandler{sessions: sessions, codec: codec, api: api, validate: validator.New()}
}

func (h *PaymentsHandler) Register(g *echo.Group) {
	g.POST("/payments/boleto-pdf", h.BoletoPDF)
}

// BoletoPDF requests the slip and answers with the document itself on success
// or the uniform Result envelope on failure.
func (h *PaymentsHandler) BoletoPDF(c echo.Context) error {
	sess := h.sessions.Resolve(c.Request(), h.codec)
	if !sess.Authenticated() {
		return c.JSON(http.StatusUnauthorized, apiresult.Result{
			Success: false, Message: "Sessão não encontrada.", Status: http.StatusUnauthorized,
		})
	}

	var order port.BoletoOrder
	if err := c.Bind(&order); err != nil {
		return c.JSON(http.StatusBadRequest, apiresult.Result{
			Success: false, Message: "Requisição inválida.", Status: http.StatusBadRequest,
		})
	}
	if err := h.validate.Struct(order); err != nil {
		return c.JSON(http.StatusBadRequest, apiresult.Result{
			Success: false, Message: "Informe o pedido e o valor do boleto.", Status: http.StatusBadRequest,
		})
	}

	document, err := h.api.GeneratePDF(c.Request().Context(), sess.Credential(), order)
	if err != nil {
		res := apiresult.NormalizeError(err, "Erro ao gerar o boleto!")
		if res.Status == http.StatusUnauthorized || res.Status == http.StatusForbidden {
			h.sessions.Invalidate(sess.ID)
			c.SetCookie(&http.Cookie{
				Name: auth.SessionCookieName, Value: "", Path: "/",
				HttpOnly: true, SameSite: http.SameSiteLaxMode,
				MaxAge: -1, Expires: time.Unix(0, 0),
			})
		}
		return c.JSON(res.Status, res)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="boleto-%s.pdf"`, order.DemandID))
	return c.Blob(http.StatusOK, "application/pdf", document)
}
