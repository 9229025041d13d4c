package enums

// CheckoutState names the phases of the cashier's checkout flow.
type CheckoutState string

const (
	CheckoutStateBuilding         CheckoutState = "building"
	CheckoutStateAwaitingCustomer CheckoutState = "awaiting_customer"
	CheckoutStateAwaitingPayment  CheckoutState = "awaiting_payment"
	CheckoutStateSubmitting       CheckoutState = "submitting"
	CheckoutStateCompleted        CheckoutState = "completed"
)

// String implements fmt.Stringer.
func (s CheckoutState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CheckoutState.
func (s CheckoutState) IsValid() bool {
	switch s {
	case CheckoutStateBuilding,
		CheckoutStateAwaitingCustomer,
		CheckoutStateAwaitingPayment,
		CheckoutStateSubmitting,
		CheckoutStateCompleted:
		return true
	}
	return false
}
