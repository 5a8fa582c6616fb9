package trade

// PaymentType represents how a sale or purchase is settled
type PaymentType string

const (
	// PaymentTypeCash settles the full amount immediately
	PaymentTypeCash PaymentType = "CASH"
	// PaymentTypeCredit defers part or all of the amount to the counterparty balance
	PaymentTypeCredit PaymentType = "CREDIT"
)

// IsValid returns true if the payment type is valid
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeCash || t == PaymentTypeCredit
}

// PaymentMethod represents the channel of a standalone payment
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "CASH"
	PaymentMethodMomo PaymentMethod = "MOMO"
	PaymentMethodBank PaymentMethod = "BANK"
)

// IsValid returns true if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMomo, PaymentMethodBank:
		return true
	}
	return false
}

// ReturnType represents the disposition of a return
type ReturnType string

const (
	// ReturnTypeCash refunds cash immediately; no balance effect
	ReturnTypeCash ReturnType = "CASH"
	// ReturnTypeCredit issues a credit note against the counterparty balance
	ReturnTypeCredit ReturnType = "CREDIT"
	// ReturnTypeExchange swaps the item; the replacement outflow is recorded
	// as a separate ordinary sale line by the caller
	ReturnTypeExchange ReturnType = "EXCHANGE"
)

// IsValid returns true if the return type is valid
func (t ReturnType) IsValid() bool {
	switch t {
	case ReturnTypeCash, ReturnTypeCredit, ReturnTypeExchange:
		return true
	}
	return false
}
