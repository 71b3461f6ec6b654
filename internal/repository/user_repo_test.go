package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bouncecure/internal/apperror"
	"bouncecure/internal/domain"
	"bouncecure/internal/models"
	"bouncecure/internal/testutil"
)

func TestUserRepository_GetByEmail(t *testing.T) {
	db := testutil.NewDB(t)
	seeded := testutil.SeedUser(t, db, "ops@bouncecure.io", "s3cret-pass")
	repo := NewUserRepository(db)
	ctx := context.Background()

	u, err := repo.GetByEmail(ctx, "ops@bouncecure.io")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, u.ID)

	_, err = repo.GetByEmail(ctx, "nobody@bouncecure.io")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUserRepository_CreateAndTouch(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.User{Email: "viewer@bouncecure.io", PasswordHash: "x", Role: domain.RoleViewer}
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.TouchLastLogin(ctx, u.ID, now))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, got.LastLoginAt.Equal(now))
}

func TestAuditLogRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAuditLogRepository(db)
	ctx := context.Background()
	uid := uint(3)

	require.NoError(t, repo.Create(ctx, &models.AuditLog{UserID: &uid, Action: domain.AuditActionLogin, Resource: "auth"}))
	require.NoError(t, repo.Create(ctx, &models.AuditLog{UserID: &uid, Action: domain.AuditActionPaymentDelete, Resource: "payment", ResourceID: "9"}))

	list, err := repo.ListByUser(ctx, uid, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.AuditActionPaymentDelete, list[0].Action)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, "ops@bouncecure.io", "s3cret-pass")
	repo := NewUserRepository(db)

	err := repo.Create(context.Background(), &models.User{Email: "ops@bouncecure.io", PasswordHash: "x", Role: domain.RoleAdmin})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidationFailed)
	assert.False(t, apperror.Retryable(err))
}
