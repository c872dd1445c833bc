package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a supplier tracked with identity, contact data, and derived
// performance metrics. The four metric columns are owned by the performance
// engine; nothing else writes them.
type Vendor struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VendorCode     string    `gorm:"column:vendor_code;uniqueIndex;not null" json:"vendor_code"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	ContactDetails string    `gorm:"column:contact_details" json:"contact_details"`
	Address        string    `gorm:"column:address" json:"address"`

	OnTimeDeliveryRate  float64 `gorm:"column:on_time_delivery_rate;not null;default:0" json:"on_time_delivery_rate"`
	QualityRatingAvg    float64 `gorm:"column:quality_rating_avg;not null;default:0" json:"quality_rating_avg"`
	AverageResponseTime float64 `gorm:"column:average_response_time;not null;default:0" json:"average_response_time"`
	FulfillmentRate     float64 `gorm:"column:fulfillment_rate;not null;default:0" json:"fulfillment_rate"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
