// Package testutil provides a migrated in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bouncecure/config"
	"bouncecure/internal/database"
	"bouncecure/internal/domain"
	"bouncecure/internal/models"
)

var dbSeq atomic.Int64

// NewDB returns an isolated, migrated SQLite database closed at test cleanup.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.DatabaseConfig{
		Driver:         "sqlite",
		DSN:            fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1)),
		MaxIdleConns:   1,
		MaxOpenConns:   1,
		ConnectTimeout: 5 * time.Second,
	}
	db, err := database.NewDB(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// Payments returns three records in a fixed order: an INR success, a USD
// pending and a USD failure.
func Payments() []models.Payment {
	return []models.Payment{
		{UserID: 42, Name: "Asha Rao", Email: "asha@example.com", Amount: decimal.NewFromInt(750), Currency: "INR",
			PlanName: "Growth", PlanType: "monthly", PlanPrice: decimal.NewFromInt(1500), Discount: decimal.NewFromInt(50),
			Status: "Succeeded", Provider: "razorpay", TransactionID: "pay_001", CustomInvoiceID: "INV-001",
			EmailSendCredits: 5000, SMSCredits: 100, WhatsappCredits: 50, EmailVerificationCredits: 1000},
		{UserID: 7, Name: "Ben Ortiz", Email: "ben@corp.io", Amount: decimal.NewFromInt(19), Currency: "USD",
			PlanName: "Starter", PlanType: "monthly", PlanPrice: decimal.NewFromInt(19),
			Status: "pending", Provider: "stripe", TransactionID: "pi_002", CustomInvoiceID: "INV-002",
			EmailSendCredits: 1000},
		{UserID: 101, Name: "Carla Diaz", Email: "carla@shop.dev", Amount: decimal.NewFromInt(499), Currency: "USD",
			PlanName: "Enterprise", PlanType: "yearly", PlanPrice: decimal.NewFromInt(499),
			Status: "FAILED", Provider: "stripe", TransactionID: "pi_003", CustomInvoiceID: "INV-003"},
	}
}

// SeedPayments inserts Payments() and returns them with ids assigned.
func SeedPayments(t *testing.T, db *gorm.DB) []models.Payment {
	t.Helper()
	ps := Payments()
	for i := range ps {
		if err := db.Create(&ps[i]).Error; err != nil {
			t.Fatalf("seed payment: %v", err)
		}
	}
	return ps
}

// SeedUser creates an operator with the given password.
func SeedUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{Email: email, Name: "Test Operator", PasswordHash: string(hash), Role: domain.RoleAdmin}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}
