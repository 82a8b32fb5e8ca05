package ports

import "shipment-savings-service/internal/domain"

// Consumes computed rows in input order.
type ResultSink interface {
	WriteResult(result domain.SavingsResult) error
}
