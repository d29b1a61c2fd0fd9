package enums

import "fmt"

// OrderStatus tracks order fulfillment. Values stay in Spanish to match the
// historical order rows.
type OrderStatus string

const (
	OrderStatusPendiente  OrderStatus = "pendiente"
	OrderStatusProcesando OrderStatus = "procesando"
	OrderStatusEnviado    OrderStatus = "enviado"
	OrderStatusEntregado  OrderStatus = "entregado"
	OrderStatusCancelado  OrderStatus = "cancelado"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPendiente,
	OrderStatusProcesando,
	OrderStatusEnviado,
	OrderStatusEntregado,
	OrderStatusCancelado,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
