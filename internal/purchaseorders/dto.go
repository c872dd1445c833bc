package purchaseorders

import (
	"time"

	"github.com/Yashjain18111/VMS/pkg/db/models"
	"github.com/Yashjain18111/VMS/pkg/enums"
	"github.com/Yashjain18111/VMS/pkg/pagination"
	"github.com/Yashjain18111/VMS/pkg/types"
	"github.com/google/uuid"
)

// CreatePurchaseOrderRequest is the payload for issuing a new purchase order.
// issue_date defaults to the current time when omitted.
type CreatePurchaseOrderRequest struct {
	PONumber      string        `json:"po_number" validate:"required,min=1,max=128"`
	VendorID      uuid.UUID     `json:"vendor_id" validate:"required"`
	OrderDate     time.Time     `json:"order_date" validate:"required"`
	IssueDate     *time.Time    `json:"issue_date"`
	DeliveryDate  time.Time     `json:"delivery_date" validate:"required"`
	Items         types.JSONMap `json:"items"`
	Quantity      int           `json:"quantity" validate:"required,gt=0"`
	Status        string        `json:"status" validate:"omitempty,max=64"`
	QualityRating *float64      `json:"quality_rating" validate:"omitempty,gte=0,lte=5"`
}

// UpdatePurchaseOrderRequest carries a partial update. Nil fields are left
// unchanged. The owning vendor cannot be reassigned.
type UpdatePurchaseOrderRequest struct {
	PONumber      *string        `json:"po_number" validate:"omitempty,min=1,max=128"`
	OrderDate     *time.Time     `json:"order_date"`
	DeliveryDate  *time.Time     `json:"delivery_date"`
	Items         *types.JSONMap `json:"items"`
	Quantity      *int           `json:"quantity" validate:"omitempty,gt=0"`
	Status        *string        `json:"status" validate:"omitempty,max=64"`
	QualityRating *float64       `json:"quality_rating" validate:"omitempty,gte=0,lte=5"`
}

// ListFilters narrows purchase order listings.
type ListFilters struct {
	VendorID *uuid.UUID
	Status   *enums.PurchaseOrderStatus
}

// PurchaseOrderList is one page of purchase orders plus the cursor for the
// next page.
type PurchaseOrderList struct {
	Orders     []models.PurchaseOrder `json:"purchase_orders"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// ListParams bundles pagination and filters for List.
type ListParams struct {
	Page    pagination.Params
	Filters ListFilters
}
