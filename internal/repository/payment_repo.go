package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bouncecure/internal/apperror"
	"bouncecure/internal/models"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return storeErr("create payment", r.db.WithContext(ctx).Create(p).Error)
}

// List returns every payment in insertion order.
func (r *PaymentRepository) List(ctx context.Context) ([]models.Payment, error) {
	var list []models.Payment
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, storeErr("list payments", err)
	}
	return list, nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("payment %d not found", id)
		}
		return nil, storeErr("get payment", err)
	}
	return &p, nil
}

// Update applies column updates to one payment and returns the stored result.
// The primary key is never part of the update set.
func (r *PaymentRepository) Update(ctx context.Context, id uint, fields map[string]any) (*models.Payment, error) {
	delete(fields, "id")
	var out *models.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Payment
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("payment %d not found", id)
			}
			return storeErr("load payment", err)
		}
		if len(fields) > 0 {
			if err := tx.Model(&p).Updates(fields).Error; err != nil {
				return storeErr("update payment", err)
			}
		}
		if err := tx.First(&p, id).Error; err != nil {
			return storeErr("reload payment", err)
		}
		out = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a payment. Deleting a missing id returns NotFound.
func (r *PaymentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Payment{}, id)
	if res.Error != nil {
		return storeErr("delete payment", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("payment %d not found", id)
	}
	return nil
}
