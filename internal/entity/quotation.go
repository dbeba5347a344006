package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/quotation-engine/constants"
)

// Quotation is one issued (or failed) quotation for a proposal document.
type Quotation struct {
	ID            uuid.UUID
	DocumentPath  string
	Cedant        string
	Broker        string
	PeriodOfCover string
	GrossFees     string
	Amount        decimal.Decimal
	Status        constants.QuotationStatus
	ErrorMessage  *string
	CreatedAt     time.Time
}
