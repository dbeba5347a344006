package constants

// Proposal field names, in extraction order.
const (
	FieldCedant        = "cedant"
	FieldBroker        = "broker"
	FieldPeriodOfCover = "period_of_cover"
	FieldGrossFees     = "gross_fees"
)

// NotFound is stored for a field whose label does not appear in the document.
const NotFound = "N/A"

// ProposalFieldNames lists every recognized proposal field.
var ProposalFieldNames = []string{FieldCedant, FieldBroker, FieldPeriodOfCover, FieldGrossFees}

// CurrencyLabel prefixes quotation amounts in user-facing output.
const CurrencyLabel = "KSh."
