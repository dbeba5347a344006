package constants

// QuotationStatus is the canonical status for rows in quotations.
type QuotationStatus string

// Stable values (store these exact strings in DB).
const (
	QuotationStatusIssued QuotationStatus = "ISSUED" // amount predicted and returned
	QuotationStatusFailed QuotationStatus = "FAILED" // extraction or prediction failed
)
