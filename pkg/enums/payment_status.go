package enums

import "fmt"

// PaymentStatus tracks the payment lifecycle of an order.
// The Spanish values mirror the storefront's historical data set and must not
// be renamed without a data migration.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusCompletado PaymentStatus = "completado"
	PaymentStatusFallido    PaymentStatus = "fallido"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusCompletado,
	PaymentStatusFallido,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the payment reached a final state.
func (p PaymentStatus) IsTerminal() bool {
	return p == PaymentStatusCompletado || p == PaymentStatusFallido
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
