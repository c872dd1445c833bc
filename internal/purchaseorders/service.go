package purchaseorders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Yashjain18111/VMS/internal/performance"
	"github.com/Yashjain18111/VMS/pkg/db"
	"github.com/Yashjain18111/VMS/pkg/db/models"
	"github.com/Yashjain18111/VMS/pkg/enums"
	pkgerrors "github.com/Yashjain18111/VMS/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type recalculator interface {
	Recalculate(ctx context.Context, tx *gorm.DB, trigger *models.PurchaseOrder, kind performance.Trigger) error
}

// Service defines purchase order operations. Every successful mutation runs
// the performance recalculation for the owning vendor inside the same
// transaction; a recalculation failure rolls the mutation back.
type Service interface {
	Create(ctx context.Context, req CreatePurchaseOrderRequest) (*models.PurchaseOrder, error)
	Get(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	List(ctx context.Context, params ListParams) (*PurchaseOrderList, error)
	Update(ctx context.Context, id uuid.UUID, req UpdatePurchaseOrderRequest) (*models.PurchaseOrder, error)
	Acknowledge(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	tx     txRunner
	engine recalculator
	now    func() time.Time
}

// NewService builds a purchase orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, engine recalculator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchase orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if engine == nil {
		return nil, fmt.Errorf("performance engine required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		engine: engine,
		now:    time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	poNumber := strings.TrimSpace(req.PONumber)
	if poNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "po number is required")
	}
	if req.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if err := validateRating(req.QualityRating); err != nil {
		return nil, err
	}

	status := enums.PurchaseOrderStatusPending
	if req.Status != "" {
		parsed, err := enums.ParsePurchaseOrderStatus(req.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		status = parsed
	}

	issueDate := s.now().UTC()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	po := &models.PurchaseOrder{
		PONumber:      poNumber,
		VendorID:      req.VendorID,
		OrderDate:     req.OrderDate,
		IssueDate:     issueDate,
		DeliveryDate:  req.DeliveryDate,
		Items:         req.Items,
		Quantity:      req.Quantity,
		Status:        status,
		QualityRating: req.QualityRating,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.Create(ctx, po)
		if err != nil {
			if db.IsUniqueViolation(err, "po_number") {
				return pkgerrors.New(pkgerrors.CodeConflict, "po number already exists")
			}
			if db.IsForeignKeyViolation(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase order")
		}
		return s.engine.Recalculate(ctx, tx, created, performance.TriggerCreate)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase order id required")
	}
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase order")
	}
	return po, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*PurchaseOrderList, error) {
	list, err := s.repo.List(ctx, params)
	if err != nil {
		if strings.Contains(err.Error(), "cursor") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pagination cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchase orders")
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdatePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase order id required")
	}
	if err := validateRating(req.QualityRating); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.PONumber != nil {
		poNumber := strings.TrimSpace(*req.PONumber)
		if poNumber == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "po number cannot be empty")
		}
		updates["po_number"] = poNumber
	}
	if req.OrderDate != nil {
		updates["order_date"] = *req.OrderDate
	}
	if req.DeliveryDate != nil {
		updates["delivery_date"] = *req.DeliveryDate
	}
	if req.Items != nil {
		updates["items"] = *req.Items
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		updates["quantity"] = *req.Quantity
	}
	if req.Status != nil {
		status, err := enums.ParsePurchaseOrderStatus(*req.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		updates["status"] = status
	}
	if req.QualityRating != nil {
		updates["quality_rating"] = *req.QualityRating
	}

	var updated *models.PurchaseOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.findForWrite(ctx, repo, id); err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := repo.Update(ctx, id, updates); err != nil {
				if db.IsUniqueViolation(err, "po_number") {
					return pkgerrors.New(pkgerrors.CodeConflict, "po number already exists")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchase order")
			}
		}

		reloaded, err := s.findForWrite(ctx, repo, id)
		if err != nil {
			return err
		}
		updated = reloaded
		return s.engine.Recalculate(ctx, tx, reloaded, performance.TriggerUpdate)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Acknowledge stamps acknowledgment_date with the current time. Acknowledging
// an already acknowledged order overwrites the previous timestamp.
func (s *service) Acknowledge(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase order id required")
	}

	ackAt := s.now().UTC()
	var acknowledged *models.PurchaseOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.findForWrite(ctx, repo, id); err != nil {
			return err
		}
		if err := repo.Update(ctx, id, map[string]any{"acknowledgment_date": ackAt}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acknowledge purchase order")
		}

		reloaded, err := s.findForWrite(ctx, repo, id)
		if err != nil {
			return err
		}
		acknowledged = reloaded
		return s.engine.Recalculate(ctx, tx, reloaded, performance.TriggerAcknowledge)
	})
	if err != nil {
		return nil, err
	}
	return acknowledged, nil
}

// Delete removes the order and recalculates the vendor's metrics without it.
// The deleted order still provides the delivery-date baseline for that run.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "purchase order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		po, err := s.findForWrite(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete purchase order")
		}
		return s.engine.Recalculate(ctx, tx, po, performance.TriggerDelete)
	})
}

func (s *service) findForWrite(ctx context.Context, repo Repository, id uuid.UUID) (*models.PurchaseOrder, error) {
	po, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase order")
	}
	return po, nil
}

func validateRating(rating *float64) error {
	if rating == nil {
		return nil
	}
	if *rating < 0 || *rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quality rating must be between 0 and 5")
	}
	return nil
}
