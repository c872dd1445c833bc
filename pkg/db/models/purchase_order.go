package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Yashjain18111/VMS/pkg/enums"
	"github.com/Yashjain18111/VMS/pkg/types"
)

// PurchaseOrder is an order issued to a vendor. Every successful mutation of
// a purchase order triggers a full recalculation of the owning vendor's
// performance metrics.
type PurchaseOrder struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PONumber string    `gorm:"column:po_number;uniqueIndex;not null" json:"po_number"`
	VendorID uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;index" json:"vendor_id"`
	Vendor   *Vendor   `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`

	OrderDate          time.Time  `gorm:"column:order_date;not null" json:"order_date"`
	IssueDate          time.Time  `gorm:"column:issue_date;not null" json:"issue_date"`
	DeliveryDate       time.Time  `gorm:"column:delivery_date;not null" json:"delivery_date"`
	AcknowledgmentDate *time.Time `gorm:"column:acknowledgment_date" json:"acknowledgment_date,omitempty"`

	Items         types.JSONMap             `gorm:"column:items;type:jsonb;serializer:json" json:"items"`
	Quantity      int                       `gorm:"column:quantity;not null" json:"quantity"`
	Status        enums.PurchaseOrderStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	QualityRating *float64                  `gorm:"column:quality_rating" json:"quality_rating,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
