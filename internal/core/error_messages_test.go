package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JonMunkholm/crm/internal/browser"
	"github.com/JonMunkholm/crm/internal/cep"
	"github.com/JonMunkholm/crm/internal/customer"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"nil error returns empty", nil, "", 0},
		{"customer not found", fmt.Errorf("update: %w", customer.ErrNotFound), "CUS001", http.StatusNotFound},
		{"validation errors", customer.ValidationErrors{"email": "required field"}, "CUS002", http.StatusUnprocessableEntity},
		{"page size", &browser.ConfigurationError{Field: "pageSize", Reason: "must be positive"}, "BRW001", http.StatusBadRequest},
		{"unknown column", fmt.Errorf("%w: %q", browser.ErrUnknownColumn, "x"), "BRW002", http.StatusBadRequest},
		{"not sortable", browser.ErrNotSortable, "BRW003", http.StatusBadRequest},
		{"not hideable", browser.ErrNotHideable, "BRW004", http.StatusBadRequest},
		{"invalid cep", cep.ErrInvalidCEP, "CEP001", http.StatusBadRequest},
		{"cep not found", fmt.Errorf("%w: 99999999", cep.ErrNotFound), "CEP002", http.StatusNotFound},
		{"cep unavailable", cep.ErrUnavailable, "CEP003", http.StatusBadGateway},
		{"invalid sort direction", fmt.Errorf("%w: %q", browser.ErrInvalidDirection, "up"), "REQ003", http.StatusBadRequest},
		{"bad request", fmt.Errorf("decode body: %w: %w", ErrBadRequest, errors.New("unexpected EOF")), "REQ003", http.StatusBadRequest},
		{"cancelled", context.Canceled, "REQ001", 499},
		{"deadline", fmt.Errorf("lookup: %w", context.DeadlineExceeded), "REQ002", http.StatusGatewayTimeout},
		{"rate limit text", errors.New("Rate limit exceeded"), "RATE001", http.StatusTooManyRequests},
		{"timeout text", errors.New("i/o timeout"), "REQ002", http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), "ERR000", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError().Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("MapError().Status = %d, want %d", got.Status, tt.wantStatus)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
	want := "CEP not found (Code: CEP002). Check the postal code or fill in the address manually"
	if got := FormatUserError(cep.ErrNotFound); got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
	if !IsUserFacing(customer.ErrNotFound) {
		t.Error("ErrNotFound should be user facing")
	}
	if IsUserFacing(errors.New("segfault")) {
		t.Error("unknown errors should not be user facing")
	}
}
