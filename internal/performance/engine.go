package performance

import (
	"context"
	"errors"
	"time"

	"github.com/Yashjain18111/VMS/pkg/db/models"
	"github.com/Yashjain18111/VMS/pkg/enums"
	pkgerrors "github.com/Yashjain18111/VMS/pkg/errors"
	"github.com/Yashjain18111/VMS/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Trigger names the purchase order mutation that caused a recalculation. It
// only feeds observability labels; the computation is identical for all of
// them.
type Trigger string

const (
	TriggerCreate      Trigger = "create"
	TriggerUpdate      Trigger = "update"
	TriggerAcknowledge Trigger = "acknowledge"
	TriggerDelete      Trigger = "delete"
)

// Snapshot holds the four derived vendor metrics produced by one
// recalculation.
type Snapshot struct {
	OnTimeDeliveryRate  float64
	QualityRatingAvg    float64
	AverageResponseTime float64
	FulfillmentRate     float64
}

// Engine recomputes vendor performance metrics from the vendor's completed
// purchase orders. It always runs inside the caller's transaction so a failed
// recalculation rolls back the order mutation that triggered it.
type Engine struct {
	metrics *metrics.RecalcMetrics
	now     func() time.Time
}

// NewEngine builds an engine. A nil metrics set disables instrumentation.
func NewEngine(m *metrics.RecalcMetrics) *Engine {
	return &Engine{metrics: m, now: time.Now}
}

// Recalculate derives the vendor's metrics from its completed purchase orders
// and persists them, appending a history snapshot. The trigger order supplies
// the delivery-date baseline for the on-time rate; for deletions it is the
// order that was just removed.
func (e *Engine) Recalculate(ctx context.Context, tx *gorm.DB, trigger *models.PurchaseOrder, kind Trigger) error {
	started := e.now()
	err := e.recalculate(ctx, tx, trigger)
	e.metrics.ObserveDuration(string(kind), e.now().Sub(started))
	if err != nil {
		e.metrics.IncFailure(string(kind))
		return err
	}
	e.metrics.IncSuccess(string(kind))
	return nil
}

func (e *Engine) recalculate(ctx context.Context, tx *gorm.DB, trigger *models.PurchaseOrder) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "recalculation requires a transaction")
	}
	if trigger == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "recalculation requires a triggering order")
	}

	// Serialize concurrent recalculations per vendor. SQLite (used in tests)
	// has no row locks; its single-writer model covers the same ground.
	vendorQuery := tx.WithContext(ctx)
	if tx.Dialector.Name() == "postgres" {
		vendorQuery = vendorQuery.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var vendor models.Vendor
	if err := vendorQuery.First(&vendor, "id = ?", trigger.VendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock vendor row")
	}

	var completed []models.PurchaseOrder
	err := tx.WithContext(ctx).
		Where("vendor_id = ? AND status = ?", vendor.ID, enums.PurchaseOrderStatusCompleted).
		Find(&completed).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load completed orders")
	}

	snap := compute(completed, trigger.DeliveryDate)

	err = tx.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("id = ?", vendor.ID).
		Updates(map[string]any{
			"on_time_delivery_rate": snap.OnTimeDeliveryRate,
			"quality_rating_avg":    snap.QualityRatingAvg,
			"average_response_time": snap.AverageResponseTime,
			"fulfillment_rate":      snap.FulfillmentRate,
		}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor metrics")
	}

	history := models.HistoricalPerformance{
		ID:                  uuid.New(),
		VendorID:            vendor.ID,
		Date:                e.now().UTC(),
		OnTimeDeliveryRate:  snap.OnTimeDeliveryRate,
		QualityRatingAvg:    snap.QualityRatingAvg,
		AverageResponseTime: snap.AverageResponseTime,
		FulfillmentRate:     snap.FulfillmentRate,
	}
	if err := tx.WithContext(ctx).Create(&history).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append history snapshot")
	}

	return nil
}

// compute derives the metric snapshot from the vendor's completed orders.
// baseline is the triggering order's delivery date: the on-time rate counts
// completed orders delivered no later than it. All metrics are 0 while the
// vendor has no completed orders.
func compute(completed []models.PurchaseOrder, baseline time.Time) Snapshot {
	total := len(completed)
	if total == 0 {
		return Snapshot{}
	}

	onTime := 0
	notCanceled := 0
	qualitySum := 0.0
	qualityCount := 0
	responseSum := 0.0
	responseCount := 0

	for _, po := range completed {
		if !po.DeliveryDate.After(baseline) {
			onTime++
		}
		if po.Status != enums.PurchaseOrderStatusCanceled {
			notCanceled++
		}
		if po.QualityRating != nil {
			qualitySum += *po.QualityRating
			qualityCount++
		}
		if po.AcknowledgmentDate != nil {
			responseSum += po.AcknowledgmentDate.Sub(po.IssueDate).Hours()
			responseCount++
		}
	}

	snap := Snapshot{
		OnTimeDeliveryRate: 100 * float64(onTime) / float64(total),
		FulfillmentRate:    100 * float64(notCanceled) / float64(total),
	}
	if qualityCount > 0 {
		snap.QualityRatingAvg = qualitySum / float64(qualityCount)
	}
	if responseCount > 0 {
		snap.AverageResponseTime = responseSum / float64(responseCount)
	}
	return snap
}
