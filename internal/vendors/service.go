package vendors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Yashjain18111/VMS/pkg/db"
	"github.com/Yashjain18111/VMS/pkg/db/models"
	pkgerrors "github.com/Yashjain18111/VMS/pkg/errors"
	"github.com/Yashjain18111/VMS/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines vendor-level operations. Vendor metric columns are read
// through Performance and PerformanceHistory only; updates never touch them.
type Service interface {
	Create(ctx context.Context, req CreateVendorRequest) (*models.Vendor, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	List(ctx context.Context, params pagination.Params) (*VendorList, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateVendorRequest) (*models.Vendor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Performance(ctx context.Context, id uuid.UUID) (*PerformanceResponse, error)
	PerformanceHistory(ctx context.Context, id uuid.UUID, params pagination.Params) (*HistoryList, error)
}

type service struct {
	repo Repository
}

// NewService builds a vendors service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendors repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, req CreateVendorRequest) (*models.Vendor, error) {
	vendor := &models.Vendor{
		VendorCode:     strings.TrimSpace(req.VendorCode),
		Name:           strings.TrimSpace(req.Name),
		ContactDetails: req.ContactDetails,
		Address:        req.Address,
	}
	if vendor.VendorCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor code is required")
	}
	if vendor.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor name is required")
	}

	created, err := s.repo.Create(ctx, vendor)
	if err != nil {
		if db.IsUniqueViolation(err, "vendor_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "vendor code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*VendorList, error) {
	list, err := s.repo.List(ctx, params)
	if err != nil {
		if strings.Contains(err.Error(), "cursor") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pagination cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateVendorRequest) (*models.Vendor, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor name cannot be empty")
		}
		updates["name"] = name
	}
	if req.ContactDetails != nil {
		updates["contact_details"] = *req.ContactDetails
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.VendorCode != nil {
		code := strings.TrimSpace(*req.VendorCode)
		if code == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor code cannot be empty")
		}
		updates["vendor_code"] = code
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
			}
			if db.IsUniqueViolation(err, "vendor_code") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "vendor code already exists")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor")
		}
	}

	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vendor")
	}
	return nil
}

func (s *service) Performance(ctx context.Context, id uuid.UUID) (*PerformanceResponse, error) {
	vendor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return performanceFromModel(vendor), nil
}

func (s *service) PerformanceHistory(ctx context.Context, id uuid.UUID, params pagination.Params) (*HistoryList, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	list, err := s.repo.ListHistory(ctx, id, params)
	if err != nil {
		if strings.Contains(err.Error(), "cursor") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pagination cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list performance history")
	}
	return list, nil
}
