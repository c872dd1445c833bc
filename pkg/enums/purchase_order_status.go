package enums

import "fmt"

// PurchaseOrderStatus tracks the lifecycle of a purchase order. The set is
// open-ended upstream; these are the states the service acts on.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "pending"
	PurchaseOrderStatusCompleted PurchaseOrderStatus = "completed"
	PurchaseOrderStatusCanceled  PurchaseOrderStatus = "canceled"
)

var validPurchaseOrderStatuses = []PurchaseOrderStatus{
	PurchaseOrderStatusPending,
	PurchaseOrderStatusCompleted,
	PurchaseOrderStatusCanceled,
}

// String implements fmt.Stringer.
func (p PurchaseOrderStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PurchaseOrderStatus.
func (p PurchaseOrderStatus) IsValid() bool {
	for _, candidate := range validPurchaseOrderStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// Parse converts raw input into a PurchaseOrderStatus or errors.
func ParsePurchaseOrderStatus(raw string) (PurchaseOrderStatus, error) {
	status := PurchaseOrderStatus(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid purchase order status %q", raw)
	}
	return status, nil
}
