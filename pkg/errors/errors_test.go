package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code        Code
		status      int
		publicMsg   string
		recoverable bool
		detailsOK   bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", recoverable: true, detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found", recoverable: true},
		{code: CodeOutOfStock, status: http.StatusUnprocessableEntity, publicMsg: "product is out of stock", recoverable: true, detailsOK: true},
		{code: CodeInsufficientStock, status: http.StatusUnprocessableEntity, publicMsg: "requested quantity exceeds available stock", recoverable: true, detailsOK: true},
		{code: CodeInvalidDiscount, status: http.StatusUnprocessableEntity, publicMsg: "discount is not valid for this line", recoverable: true, detailsOK: true},
		{code: CodeEmptyCart, status: http.StatusUnprocessableEntity, publicMsg: "cart is empty", recoverable: true},
		{code: CodeInsufficientPayment, status: http.StatusUnprocessableEntity, publicMsg: "tendered amount is below the amount due", recoverable: true, detailsOK: true},
		{code: CodeAlreadySubmitting, status: http.StatusConflict, publicMsg: "a submission is already in flight", recoverable: true},
		{code: CodeRemoteRejected, status: http.StatusBadGateway, publicMsg: "backend rejected the request", recoverable: true, detailsOK: true},
		{code: CodeRemoteUnreachable, status: http.StatusServiceUnavailable, publicMsg: "backend is unreachable", recoverable: true, detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal error"},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Recoverable != tt.recoverable {
			t.Fatalf("code %s expected recoverable %v got %v", tt.code, tt.recoverable, meta.Recoverable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeInvalidDiscount, "discount exceeds line value")
	if base.Code() != CodeInvalidDiscount {
		t.Fatalf("expected invalid discount code, got %s", base.Code())
	}
	if base.Message() != "discount exceeds line value" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"product_id": "p-1"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeRemoteUnreachable, cause, "submit transaction")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeRemoteUnreachable {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsAndIs(t *testing.T) {
	err := New(CodeEmptyCart, "no lines")
	if got := As(err); got == nil || got.Code() != CodeEmptyCart {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
	if !Is(err, CodeEmptyCart) {
		t.Fatalf("Is should match the carried code")
	}
	if Is(err, CodeOutOfStock) {
		t.Fatalf("Is matched a foreign code")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeRemoteUnreachable, cause, "post /transactions")

	d := Dump(err)
	if d.Code != CodeRemoteUnreachable {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(d.Chain))
	}
}
