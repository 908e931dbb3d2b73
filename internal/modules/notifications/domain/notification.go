package domain

import (
	"strings"

	"pratoJaEdge/internal/shared/apiresult"
)

// Color selects how the storefront renders a notification.
type Color string

const (
	ColorSuccess Color = "success"
	ColorError   Color = "error"
)

const (
	DefaultSuccessText = "Operação realizada com sucesso!"
	DefaultErrorText   = "Erro ao realizar operação!"
)

// Notification is the single transient message a session can hold.
type Notification struct {
	Text  string `json:"text"`
	Color Color  `json:"color"`
}

// FromResult maps an action outcome onto a notification: the result message
// when present, the color-matching default otherwise.
func FromResult(res apiresult.Result) Notification {
	text := strings.TrimSpace(res.Message)
	if res.Success {
		if text == "" {
			text = DefaultSuccessText
		}
		return Notification{Text: text, Color: ColorSuccess}
	}
	if text == "" {
		text = DefaultErrorText
	}
	return Notification{Text: text, Color: ColorError}
}
