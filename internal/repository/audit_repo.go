package repository

import (
	"context"

	"gorm.io/gorm"

	"bouncecure/internal/models"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, l *models.AuditLog) error {
	return storeErr("create audit log", r.db.WithContext(ctx).Create(l).Error)
}

func (r *AuditLogRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.AuditLog, error) {
	var list []models.AuditLog
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Limit(limit).Find(&list).Error
	return list, storeErr("list audit logs", err)
}
