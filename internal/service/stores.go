package service

import (
	"context"
	"time"

	"bouncecure/internal/models"
)

// UserStore is the subset of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

// PaymentStore is the subset of the payment repository the directory needs.
type PaymentStore interface {
	List(ctx context.Context) ([]models.Payment, error)
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	Update(ctx context.Context, id uint, fields map[string]any) (*models.Payment, error)
	Delete(ctx context.Context, id uint) error
}

// Publisher receives change events after a write has been committed.
type Publisher interface {
	Publish(eventType string, id uint, data interface{})
}
