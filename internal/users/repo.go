package users

import (
	"context"
	"errors"

	"github.com/Yashjain18111/VMS/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUsername retrieves the user matching the provided username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreateByUsername returns the user with the given username, creating it
// on first sight. A concurrent insert losing the unique-index race falls back
// to a re-read.
func (r *Repository) GetOrCreateByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := r.FindByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &models.User{ID: uuid.New(), Username: username}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		if existing, findErr := r.FindByUsername(ctx, username); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return created, nil
}
