package enums

import "testing"

func TestParsePaymentMethod(t *testing.T) {
	for _, value := range []string{"cash", "debit", "credit", "qris", "transfer"} {
		method, err := ParsePaymentMethod(value)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", value, err)
		}
		if !method.IsValid() {
			t.Fatalf("%q should be valid", value)
		}
	}
	if _, err := ParsePaymentMethod("cheque"); err == nil {
		t.Fatalf("expected error for unknown method")
	}
}

func TestPaymentMethodLabels(t *testing.T) {
	tests := map[PaymentMethod]string{
		PaymentMethodCash:     "TUNAI",
		PaymentMethodDebit:    "DEBIT",
		PaymentMethodCredit:   "KREDIT",
		PaymentMethodQRIS:     "QRIS",
		PaymentMethodTransfer: "TRANSFER",
	}
	for method, label := range tests {
		if got := method.Label(); got != label {
			t.Fatalf("method %s expected label %q got %q", method, label, got)
		}
	}
}

func TestParseRole(t *testing.T) {
	if role, err := ParseRole("kasir"); err != nil || role != RoleCashier {
		t.Fatalf("expected cashier role, got %v (%v)", role, err)
	}
	if role, err := ParseRole("admin"); err != nil || role != RoleAdmin {
		t.Fatalf("expected admin role, got %v (%v)", role, err)
	}
	if _, err := ParseRole("manager"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestCheckoutStateValidity(t *testing.T) {
	valid := []CheckoutState{
		CheckoutStateBuilding,
		CheckoutStateAwaitingCustomer,
		CheckoutStateAwaitingPayment,
		CheckoutStateSubmitting,
		CheckoutStateCompleted,
	}
	for _, state := range valid {
		if !state.IsValid() {
			t.Fatalf("state %s should be valid", state)
		}
	}
	if CheckoutState("paying").IsValid() {
		t.Fatalf("unknown state should not be valid")
	}
}

func TestParseTransactionStatus(t *testing.T) {
	if status, err := ParseTransactionStatus("completed"); err != nil || status != TransactionStatusCompleted {
		t.Fatalf("expected completed, got %v (%v)", status, err)
	}
	if _, err := ParseTransactionStatus("pending"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}
