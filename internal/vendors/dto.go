package vendors

import (
	"time"

	"github.com/Yashjain18111/VMS/pkg/db/models"
	"github.com/google/uuid"
)

// CreateVendorRequest is the payload for registering a new vendor. Metric
// columns are never accepted from clients.
type CreateVendorRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=255"`
	ContactDetails string `json:"contact_details" validate:"required"`
	Address        string `json:"address" validate:"required"`
	VendorCode     string `json:"vendor_code" validate:"required,min=1,max=64"`
}

// UpdateVendorRequest carries a partial update. Nil fields are left unchanged.
type UpdateVendorRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=255"`
	ContactDetails *string `json:"contact_details"`
	Address        *string `json:"address"`
	VendorCode     *string `json:"vendor_code" validate:"omitempty,min=1,max=64"`
}

// VendorList is one page of vendors plus the cursor for the next page.
type VendorList struct {
	Vendors    []models.Vendor `json:"vendors"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// PerformanceResponse exposes the vendor's current derived metrics.
type PerformanceResponse struct {
	VendorID            uuid.UUID `json:"vendor_id"`
	VendorCode          string    `json:"vendor_code"`
	OnTimeDeliveryRate  float64   `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64   `json:"quality_rating_avg"`
	AverageResponseTime float64   `json:"average_response_time"`
	FulfillmentRate     float64   `json:"fulfillment_rate"`
	AsOf                time.Time `json:"as_of"`
}

// HistoryList is one page of performance snapshots, newest first.
type HistoryList struct {
	Snapshots  []models.HistoricalPerformance `json:"snapshots"`
	NextCursor string                         `json:"next_cursor,omitempty"`
}

func performanceFromModel(v *models.Vendor) *PerformanceResponse {
	return &PerformanceResponse{
		VendorID:            v.ID,
		VendorCode:          v.VendorCode,
		OnTimeDeliveryRate:  v.OnTimeDeliveryRate,
		QualityRatingAvg:    v.QualityRatingAvg,
		AverageResponseTime: v.AverageResponseTime,
		FulfillmentRate:     v.FulfillmentRate,
		AsOf:                v.UpdatedAt,
	}
}
