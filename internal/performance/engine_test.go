package performance

import (
	"context"
	"testing"
	"time"

	"github.com/Yashjain18111/VMS/pkg/db/models"
	"github.com/Yashjain18111/VMS/pkg/enums"
	pkgerrors "github.com/Yashjain18111/VMS/pkg/errors"
	"github.com/Yashjain18111/VMS/pkg/metrics"
	"github.com/google/uuid"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPerformanceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	vendors := `
CREATE TABLE IF NOT EXISTS vendors (
  id TEXT PRIMARY KEY,
  vendor_code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  contact_details TEXT,
  address TEXT,
  on_time_delivery_rate REAL NOT NULL DEFAULT 0,
  quality_rating_avg REAL NOT NULL DEFAULT 0,
  average_response_time REAL NOT NULL DEFAULT 0,
  fulfillment_rate REAL NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	purchaseOrders := `
CREATE TABLE IF NOT EXISTS purchase_orders (
  id TEXT PRIMARY KEY,
  po_number TEXT NOT NULL UNIQUE,
  vendor_id TEXT NOT NULL,
  order_date DATETIME NOT NULL,
  issue_date DATETIME NOT NULL,
  delivery_date DATETIME NOT NULL,
  acknowledgment_date DATETIME,
  items TEXT,
  quantity INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  quality_rating REAL,
  created_at DATETIME,
  updated_at DATETIME
);`
	history := `
CREATE TABLE IF NOT EXISTS historical_performances (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  date DATETIME NOT NULL,
  on_time_delivery_rate REAL NOT NULL,
  quality_rating_avg REAL NOT NULL,
  average_response_time REAL NOT NULL,
  fulfillment_rate REAL NOT NULL,
  created_at DATETIME
);`

	for _, stmt := range []string{vendors, purchaseOrders, history} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedVendor(t *testing.T, db *gorm.DB, code string) *models.Vendor {
	t.Helper()
	vendor := &models.Vendor{
		ID:         uuid.New(),
		VendorCode: code,
		Name:       "Vendor " + code,
	}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

type poOpts struct {
	status       enums.PurchaseOrderStatus
	issue        time.Time
	delivery     time.Time
	acknowledged *time.Time
	quality      *float64
}

func seedPO(t *testing.T, db *gorm.DB, vendorID uuid.UUID, opts poOpts) *models.PurchaseOrder {
	t.Helper()
	status := opts.status
	if status == "" {
		status = enums.PurchaseOrderStatusPending
	}
	po := &models.PurchaseOrder{
		ID:                 uuid.New(),
		PONumber:           "PO-" + uuid.NewString(),
		VendorID:           vendorID,
		OrderDate:          opts.issue,
		IssueDate:          opts.issue,
		DeliveryDate:       opts.delivery,
		AcknowledgmentDate: opts.acknowledged,
		Quantity:           10,
		Status:             status,
		QualityRating:      opts.quality,
	}
	require.NoError(t, db.Create(po).Error)
	return po
}

func recalc(t *testing.T, db *gorm.DB, engine *Engine, trigger *models.PurchaseOrder, kind Trigger) error {
	t.Helper()
	return db.Transaction(func(tx *gorm.DB) error {
		return engine.Recalculate(context.Background(), tx, trigger, kind)
	})
}

func loadVendor(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Vendor {
	t.Helper()
	var vendor models.Vendor
	require.NoError(t, db.First(&vendor, "id = ?", id).Error)
	return &vendor
}

func floatPtr(f float64) *float64 { return &f }

func timePtr(ts time.Time) *time.Time { return &ts }

var baseTime = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func TestComputeEmptyCompletedSetIsAllZeros(t *testing.T) {
	snap := compute(nil, baseTime)
	assert.Equal(t, Snapshot{}, snap)
}

func TestComputeOnTimeRateAgainstTriggerBaseline(t *testing.T) {
	completed := []models.PurchaseOrder{
		{Status: enums.PurchaseOrderStatusCompleted, DeliveryDate: baseTime},
		{Status: enums.PurchaseOrderStatusCompleted, DeliveryDate: baseTime.Add(240 * time.Hour)},
	}

	snap := compute(completed, baseTime)
	assert.InDelta(t, 50.0, snap.OnTimeDeliveryRate, 1e-9)

	// A later baseline counts both orders as on time.
	snap = compute(completed, baseTime.Add(241*time.Hour))
	assert.InDelta(t, 100.0, snap.OnTimeDeliveryRate, 1e-9)
}

func TestComputeQualityAverageSkipsUnrated(t *testing.T) {
	completed := []models.PurchaseOrder{
		{Status: enums.PurchaseOrderStatusCompleted, DeliveryDate: baseTime, QualityRating: floatPtr(4.5)},
		{Status: enums.PurchaseOrderStatusCompleted, DeliveryDate: baseTime, QualityRating: floatPtr(3.5)},
		{Status: enums.PurchaseOrderStatusCompleted, DeliveryDate: baseTime},
	}

	snap := compute(completed, baseTime)
	assert.InDelta(t, 4.0, snap.QualityRatingAvg, 1e-9)
}

func TestComputeAverageResponseTimeInHours(t *testing.T) {
	completed := []models.PurchaseOrder{
		{
			Status:             enums.PurchaseOrderStatusCompleted,
			IssueDate:          baseTime,
			DeliveryDate:       baseTime,
			AcknowledgmentDate: timePtr(baseTime.Add(5 * time.Hour)),
		},
		{
			Status:       enums.PurchaseOrderStatusCompleted,
			IssueDate:    baseTime,
			DeliveryDate: baseTime,
		},
	}

	snap := compute(completed, baseTime)
	assert.InDelta(t, 5.0, snap.AverageResponseTime, 1e-9)
}

func TestComputeFulfillmentRateOverCompletedSet(t *testing.T) {
	completed := []models.PurchaseOrder{
		{Status: enums.PurchaseOrderStatusCompleted, DeliveryDate: baseTime},
		{Status: enums.PurchaseOrderStatusCompleted, DeliveryDate: baseTime},
	}

	snap := compute(completed, baseTime)
	assert.InDelta(t, 100.0, snap.FulfillmentRate, 1e-9)
}

func TestRecalculatePersistsMetricsAndHistory(t *testing.T) {
	db := setupPerformanceTestDB(t)
	vendor := seedVendor(t, db, "V-100")
	engine := NewEngine(nil)

	seedPO(t, db, vendor.ID, poOpts{
		status:       enums.PurchaseOrderStatusCompleted,
		issue:        baseTime,
		delivery:     baseTime,
		acknowledged: timePtr(baseTime.Add(5 * time.Hour)),
		quality:      floatPtr(4.5),
	})
	trigger := seedPO(t, db, vendor.ID, poOpts{
		status:   enums.PurchaseOrderStatusCompleted,
		issue:    baseTime,
		delivery: baseTime.Add(240 * time.Hour),
		quality:  floatPtr(3.5),
	})

	// Baseline is the earlier delivery, so the late order misses it.
	trigger.DeliveryDate = baseTime
	require.NoError(t, recalc(t, db, engine, trigger, TriggerUpdate))

	got := loadVendor(t, db, vendor.ID)
	assert.InDelta(t, 50.0, got.OnTimeDeliveryRate, 1e-9)
	assert.InDelta(t, 4.0, got.QualityRatingAvg, 1e-9)
	assert.InDelta(t, 5.0, got.AverageResponseTime, 1e-9)
	assert.InDelta(t, 100.0, got.FulfillmentRate, 1e-9)

	var history []models.HistoricalPerformance
	require.NoError(t, db.Where("vendor_id = ?", vendor.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.InDelta(t, 50.0, history[0].OnTimeDeliveryRate, 1e-9)
	assert.InDelta(t, 4.0, history[0].QualityRatingAvg, 1e-9)
}

func TestRecalculateWithNoCompletedOrdersZeroesMetrics(t *testing.T) {
	db := setupPerformanceTestDB(t)
	vendor := seedVendor(t, db, "V-101")
	require.NoError(t, db.Model(vendor).Updates(map[string]any{
		"on_time_delivery_rate": 80.0,
		"quality_rating_avg":    4.2,
	}).Error)
	engine := NewEngine(nil)

	trigger := seedPO(t, db, vendor.ID, poOpts{
		status:   enums.PurchaseOrderStatusPending,
		issue:    baseTime,
		delivery: baseTime,
	})

	require.NoError(t, recalc(t, db, engine, trigger, TriggerCreate))

	got := loadVendor(t, db, vendor.ID)
	assert.Zero(t, got.OnTimeDeliveryRate)
	assert.Zero(t, got.QualityRatingAvg)
	assert.Zero(t, got.AverageResponseTime)
	assert.Zero(t, got.FulfillmentRate)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	db := setupPerformanceTestDB(t)
	vendor := seedVendor(t, db, "V-102")
	engine := NewEngine(nil)

	trigger := seedPO(t, db, vendor.ID, poOpts{
		status:   enums.PurchaseOrderStatusCompleted,
		issue:    baseTime,
		delivery: baseTime,
		quality:  floatPtr(4.0),
	})

	require.NoError(t, recalc(t, db, engine, trigger, TriggerUpdate))
	first := loadVendor(t, db, vendor.ID)

	require.NoError(t, recalc(t, db, engine, trigger, TriggerUpdate))
	second := loadVendor(t, db, vendor.ID)

	assert.Equal(t, first.OnTimeDeliveryRate, second.OnTimeDeliveryRate)
	assert.Equal(t, first.QualityRatingAvg, second.QualityRatingAvg)
	assert.Equal(t, first.AverageResponseTime, second.AverageResponseTime)
	assert.Equal(t, first.FulfillmentRate, second.FulfillmentRate)

	// Every run appends its own snapshot.
	var count int64
	require.NoError(t, db.Model(&models.HistoricalPerformance{}).Where("vendor_id = ?", vendor.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestRecalculateLeavesOtherVendorsUntouched(t *testing.T) {
	db := setupPerformanceTestDB(t)
	vendor := seedVendor(t, db, "V-103")
	other := seedVendor(t, db, "V-104")
	engine := NewEngine(nil)

	seedPO(t, db, other.ID, poOpts{
		status:   enums.PurchaseOrderStatusCompleted,
		issue:    baseTime,
		delivery: baseTime,
		quality:  floatPtr(2.0),
	})
	trigger := seedPO(t, db, vendor.ID, poOpts{
		status:   enums.PurchaseOrderStatusCompleted,
		issue:    baseTime,
		delivery: baseTime,
		quality:  floatPtr(5.0),
	})

	require.NoError(t, recalc(t, db, engine, trigger, TriggerCreate))

	assert.InDelta(t, 5.0, loadVendor(t, db, vendor.ID).QualityRatingAvg, 1e-9)
	assert.Zero(t, loadVendor(t, db, other.ID).QualityRatingAvg)
}

func TestRecalculateUnknownVendorIsNotFound(t *testing.T) {
	db := setupPerformanceTestDB(t)
	engine := NewEngine(nil)

	trigger := &models.PurchaseOrder{
		ID:           uuid.New(),
		VendorID:     uuid.New(),
		DeliveryDate: baseTime,
	}

	err := recalc(t, db, engine, trigger, TriggerDelete)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestRecalculateRecordsObservability(t *testing.T) {
	db := setupPerformanceTestDB(t)
	vendor := seedVendor(t, db, "V-105")

	reg := prometheus.NewRegistry()
	engine := NewEngine(metrics.NewRecalcMetrics(reg))

	trigger := seedPO(t, db, vendor.ID, poOpts{
		status:   enums.PurchaseOrderStatusCompleted,
		issue:    baseTime,
		delivery: baseTime,
	})
	require.NoError(t, recalc(t, db, engine, trigger, TriggerCreate))

	err := recalc(t, db, engine, &models.PurchaseOrder{VendorID: uuid.New(), DeliveryDate: baseTime}, TriggerDelete)
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	counters := map[string]float64{}
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "trigger" {
					counters[mf.GetName()+"/"+label.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}

	assert.Equal(t, 1.0, counters["vendor_recalc_success/create"])
	assert.Equal(t, 1.0, counters["vendor_recalc_failure/delete"])
}
