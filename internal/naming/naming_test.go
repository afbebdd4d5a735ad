package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"user_profile", "UserProfile"},
		{"payment-runs", "PaymentRuns"},
		{"invoices", "Invoices"},
		{"credit.memos", "CreditMemos"},
		{"payment runs", "PaymentRuns"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToPascalCase(tt.in), "input %q", tt.in)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"UserProfile", "user_profile"},
		{"getPaymentRun", "get_payment_run"},
		{"Payment Runs", "payment_runs"},
		{"already_snake", "already_snake"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToSnakeCase(tt.in), "input %q", tt.in)
	}
}

func TestToKebabCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"getPaymentRun", "get-payment-run"},
		{"Invoices", "invoices"},
		{"Payment Runs", "payment-runs"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToKebabCase(tt.in), "input %q", tt.in)
	}
}
