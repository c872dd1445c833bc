package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoricalPerformance is a point-in-time snapshot of a vendor's four
// metrics, appended on every recalculation.
type HistoricalPerformance struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VendorID uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;index" json:"vendor_id"`
	Vendor   *Vendor   `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`
	Date     time.Time `gorm:"column:date;not null" json:"date"`

	OnTimeDeliveryRate  float64 `gorm:"column:on_time_delivery_rate;not null" json:"on_time_delivery_rate"`
	QualityRatingAvg    float64 `gorm:"column:quality_rating_avg;not null" json:"quality_rating_avg"`
	AverageResponseTime float64 `gorm:"column:average_response_time;not null" json:"average_response_time"`
	FulfillmentRate     float64 `gorm:"column:fulfillment_rate;not null" json:"fulfillment_rate"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
