package purchaseorders

import (
	"context"
	"testing"
	"time"

	"github.com/Yashjain18111/VMS/internal/performance"
	"github.com/Yashjain18111/VMS/pkg/db/models"
	"github.com/Yashjain18111/VMS/pkg/enums"
	pkgerrors "github.com/Yashjain18111/VMS/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type spyEngine struct {
	inner *performance.Engine
	calls []performance.Trigger
}

func (s *spyEngine) Recalculate(ctx context.Context, tx *gorm.DB, trigger *models.PurchaseOrder, kind performance.Trigger) error {
	s.calls = append(s.calls, kind)
	return s.inner.Recalculate(ctx, tx, trigger, kind)
}

func newServiceUnderTest(t *testing.T) (Service, *gorm.DB, *spyEngine) {
	t.Helper()
	db := setupPurchaseOrdersTestDB(t)
	engine := &spyEngine{inner: performance.NewEngine(nil)}
	svc, err := NewService(NewRepository(db), testTxRunner{db: db}, engine)
	require.NoError(t, err)
	return svc, db, engine
}

func assertErrCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected typed error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func vendorMetrics(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Vendor {
	t.Helper()
	var vendor models.Vendor
	require.NoError(t, db.First(&vendor, "id = ?", id).Error)
	return &vendor
}

func createRequest(vendorID uuid.UUID, poNumber string) CreatePurchaseOrderRequest {
	return CreatePurchaseOrderRequest{
		PONumber:     poNumber,
		VendorID:     vendorID,
		OrderDate:    testBase,
		DeliveryDate: testBase.Add(72 * time.Hour),
		Quantity:     10,
	}
}

func TestServiceCreateTriggersRecalculation(t *testing.T) {
	svc, db, engine := newServiceUnderTest(t)
	vendor := seedTestVendor(t, db, "V-1")

	req := createRequest(vendor.ID, "PO-1")
	req.Status = "completed"
	rating := 4.0
	req.QualityRating = &rating

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, []performance.Trigger{performance.TriggerCreate}, engine.calls)

	got := vendorMetrics(t, db, vendor.ID)
	assert.InDelta(t, 100.0, got.OnTimeDeliveryRate, 1e-9)
	assert.InDelta(t, 4.0, got.QualityRatingAvg, 1e-9)
	assert.InDelta(t, 100.0, got.FulfillmentRate, 1e-9)
}

func TestServiceCreatePendingOrderLeavesMetricsZero(t *testing.T) {
	svc, db, engine := newServiceUnderTest(t)
	vendor := seedTestVendor(t, db, "V-1")

	_, err := svc.Create(context.Background(), createRequest(vendor.ID, "PO-1"))
	require.NoError(t, err)
	assert.Len(t, engine.calls, 1)

	got := vendorMetrics(t, db, vendor.ID)
	assert.Zero(t, got.OnTimeDeliveryRate)
	assert.Zero(t, got.FulfillmentRate)
}

func TestServiceCreateUnknownVendorRollsBack(t *testing.T) {
	svc, db, engine := newServiceUnderTest(t)

	_, err := svc.Create(context.Background(), createRequest(uuid.New(), "PO-1"))
	assertErrCode(t, err, pkgerrors.CodeNotFound)
	assert.Empty(t, engine.calls)

	var count int64
	require.NoError(t, db.Model(&models.PurchaseOrder{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestServiceCreateDuplicatePONumberConflicts(t *testing.T) {
	svc, db, engine := newServiceUnderTest(t)
	vendor := seedTestVendor(t, db, "V-1")

	_, err := svc.Create(context.Background(), createRequest(vendor.ID, "PO-1"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), createRequest(vendor.ID, "PO-1"))
	assertErrCode(t, err, pkgerrors.CodeConflict)
	assert.Len(t, engine.calls, 1)
}

func TestServiceCreateRejectsInvalidStatus(t *testing.T) {
	svc, db, _ := newServiceUnderTest(t)
	vendor := seedTestVendor(t, db, "V-1")

	req := createRequest(vendor.ID, "PO-1")
	req.Status = "shipped"

	_, err := svc.Create(context.Background(), req)
	assertErrCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceUpdateStatusRecalculates(t *testing.T) {
	svc, db, engine := newServiceUnderTest(t)
	vendor := seedTestVendor(t, db, "V-1")

	created, err := svc.Create(context.Background(), createRequest(vendor.ID, "PO-1"))
	require.NoError(t, err)

	status := "completed"
	rating := 3.5
	updated, err := svc.Update(context.Background(), created.ID, UpdatePurchaseOrderRequest{
		Status:        &status,
		QualityRating: &rating,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.PurchaseOrderStatusCompleted, updated.Status)
	assert.Equal(t, []performance.Trigger{performance.TriggerCreate, performance.TriggerUpdate}, engine.calls)

	got := vendorMetrics(t, db, vendor.ID)
	assert.InDelta(t, 100.0, got.OnTimeDeliveryRate, 1e-9)
	assert.InDelta(t, 3.5, got.QualityRatingAvg, 1e-9)
}

func TestServiceUpdateUnknownOrder(t *testing.T) {
	svc, _, engine := newServiceUnderTest(t)

	qty := 5
	_, err := svc.Update(context.Background(), uuid.New(), UpdatePurchaseOrderRequest{Quantity: &qty})
	assertErrCode(t, err, pkgerrors.CodeNotFound)
	assert.Empty(t, engine.calls)
}

func TestServiceAcknowledgeStampsAndRecalculates(t *testing.T) {
	svc, db, engine := newServiceUnderTest(t)
	vendor := seedTestVendor(t, db, "V-1")

	req := createRequest(vendor.ID, "PO-1")
	req.Status = "completed"
	issue := testBase
	req.IssueDate = &issue

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	impl := svc.(*service)
	impl.now = func() time.Time { return testBase.Add(5 * time.Hour) }

	acked, err := svc.Acknowledge(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, acked.AcknowledgmentDate)
	assert.Equal(t, testBase.Add(5*time.Hour), acked.AcknowledgmentDate.UTC())
	assert.Equal(t, performance.TriggerAcknowledge, engine.calls[len(engine.calls)-1])

	got := vendorMetrics(t, db, vendor.ID)
	assert.InDelta(t, 5.0, got.AverageResponseTime, 1e-9)
}

func TestServiceReacknowledgeOverwrites(t *testing.T) {
	svc, db, _ := newServiceUnderTest(t)
	vendor := seedTestVendor(t, db, "V-1")

	req := createRequest(vendor.ID, "PO-1")
	req.Status = "completed"
	issue := testBase
	req.IssueDate = &issue

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	impl := svc.(*service)
	impl.now = func() time.Time { return testBase.Add(2 * time.Hour) }
	_, err = svc.Acknowledge(context.Background(), created.ID)
	require.NoError(t, err)

	impl.now = func() time.Time { return testBase.Add(8 * time.Hour) }
	acked, err := svc.Acknowledge(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, testBase.Add(8*time.Hour), acked.AcknowledgmentDate.UTC())

	got := vendorMetrics(t, db, vendor.ID)
	assert.InDelta(t, 8.0, got.AverageResponseTime, 1e-9)
}

func TestServiceDeleteRecalculatesWithoutOrder(t *testing.T) {
	svc, db, engine := newServiceUnderTest(t)
	vendor := seedTestVendor(t, db, "V-1")

	first := createRequest(vendor.ID, "PO-1")
	first.Status = "completed"
	rating1 := 5.0
	first.QualityRating = &rating1
	kept, err := svc.Create(context.Background(), first)
	require.NoError(t, err)
	_ = kept

	second := createRequest(vendor.ID, "PO-2")
	second.Status = "completed"
	rating2 := 1.0
	second.QualityRating = &rating2
	doomed, err := svc.Create(context.Background(), second)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), doomed.ID))
	assert.Equal(t, performance.TriggerDelete, engine.calls[len(engine.calls)-1])

	got := vendorMetrics(t, db, vendor.ID)
	assert.InDelta(t, 5.0, got.QualityRatingAvg, 1e-9)

	_, err = svc.Get(context.Background(), doomed.ID)
	assertErrCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceDeleteUnknownOrder(t *testing.T) {
	svc, _, engine := newServiceUnderTest(t)

	err := svc.Delete(context.Background(), uuid.New())
	assertErrCode(t, err, pkgerrors.CodeNotFound)
	assert.Empty(t, engine.calls)
}

func TestServiceEveryMutationAppendsHistory(t *testing.T) {
	svc, db, _ := newServiceUnderTest(t)
	vendor := seedTestVendor(t, db, "V-1")

	created, err := svc.Create(context.Background(), createRequest(vendor.ID, "PO-1"))
	require.NoError(t, err)

	status := "completed"
	_, err = svc.Update(context.Background(), created.ID, UpdatePurchaseOrderRequest{Status: &status})
	require.NoError(t, err)

	_, err = svc.Acknowledge(context.Background(), created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	var count int64
	require.NoError(t, db.Model(&models.HistoricalPerformance{}).Where("vendor_id = ?", vendor.ID).Count(&count).Error)
	assert.EqualValues(t, 4, count)
}
