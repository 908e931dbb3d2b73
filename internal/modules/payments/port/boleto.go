package port

import "context"

// BoletoAPI produces payment slips for a demand. The document comes back as
// raw PDF bytes ready to stream to the browser.
type BoletoAPI interface {
	GeneratePDF(ctx context.Context, credential string, order BoletoOrder) ([]byte, error)
}

// BoletoOrder is the payload forwarded to the payment service.
type BoletoOrder struct {
	DemandID string  `json:"demandId" validate:"required"`
	Amount   float64 `json:"amount" validate:"gt=0"`
	DueDate  string  `json:"dueDate,omitempty"`
}
