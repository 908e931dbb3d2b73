package domain

import "strings"

// DemandStatus is the fixed lifecycle of a customer order as the platform
// reports it. Wire values are the upstream's own.
type DemandStatus string

const (
	DemandStatusUnknown        DemandStatus = ""
	DemandStatusPending        DemandStatus = "PENDENTE"
	DemandStatusReceived       DemandStatus = "RECEBIDO"
	DemandStatusInPreparation  DemandStatus = "EM_PREPARACAO"
	DemandStatusReadyForPickup DemandStatus = "PRONTO_PARA_RETIRADA"
	DemandStatusReadyToDeliver DemandStatus = "PRONTO_PARA_ENTREGA"
	DemandStatusDelivered      DemandStatus = "ENTREGUE"
	DemandStatusCancelled      DemandStatus = "CANCELADO"
)

var demandStatusLabels = map[DemandStatus]string{
	DemandStatusPending:        "Pendente",
	DemandStatusReceived:       "Recebido",
	DemandStatusInPreparation:  "Em Preparação",
	DemandStatusReadyForPickup: "Pronto para retirada",
	DemandStatusReadyToDeliver: "Pronto para entrega",
	DemandStatusDelivered:      "Entregue",
	DemandStatusCancelled:      "Cancelado",
}

// NormalizeDemandStatus returns the canonical status for the given input.
// Unknown statuses are uppercased and returned as-is to avoid data loss.
func NormalizeDemandStatus(value any) DemandStatus {
	s, ok := value.(string)
	if !ok {
		return DemandStatusUnknown
	}
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return DemandStatusUnknown
	}
	if _, known := demandStatusLabels[DemandStatus(trimmed)]; known {
		return DemandStatus(trimmed)
	}
	return DemandStatus(trimmed)
}

// Label is the user-facing text for a status; unknown statuses fall back to
// the wire value.
func (s DemandStatus) Label() string {
	if label, ok := demandStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Known reports whether the status belongs to the fixed lifecycle.
func (s DemandStatus) Known() bool {
	_, ok := demandStatusLabels[s]
	return ok
}

// DeliveryMethod says how a demand reaches the customer.
type DeliveryMethod string

const (
	DeliveryMethodPickup   DeliveryMethod = "RETIRADA"
	DeliveryMethodDelivery DeliveryMethod = "ENTREGA"
)
