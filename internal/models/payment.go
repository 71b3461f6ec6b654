package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Monetary fields are JSON numbers on the wire. Quoted input is still accepted.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Payment is a payment record created by the product's checkout flow. Name and
// Email are a snapshot of the payer at payment time. Amount and PlanPrice are
// both denominated in Currency.
type Payment struct {
	ID                       uint            `gorm:"primaryKey" json:"id"`
	UserID                   uint            `gorm:"not null;index" json:"userId"`
	Name                     string          `gorm:"size:255" json:"name"`
	Email                    string          `gorm:"size:255;index" json:"email"`
	Amount                   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Currency                 string          `gorm:"size:8;not null;default:'USD'" json:"currency"`
	PlanName                 string          `gorm:"size:120" json:"planName"`
	PlanType                 string          `gorm:"size:60" json:"planType"`
	PlanPrice                decimal.Decimal `gorm:"type:numeric(14,2)" json:"planPrice"`
	Discount                 decimal.Decimal `gorm:"type:numeric(5,2)" json:"discount"`
	Status                   string          `gorm:"size:32;index" json:"status"`
	Provider                 string          `gorm:"size:50" json:"provider"`
	TransactionID            string          `gorm:"size:255;index" json:"transactionId"`
	CustomInvoiceID          string          `gorm:"size:255" json:"customInvoiceId"`
	EmailSendCredits         int64           `gorm:"not null;default:0" json:"emailSendCredits"`
	SMSCredits               int64           `gorm:"column:sms_credits;not null;default:0" json:"smsCredits"`
	WhatsappCredits          int64           `gorm:"not null;default:0" json:"whatsappCredits"`
	EmailVerificationCredits int64           `gorm:"not null;default:0" json:"emailVerificationCredits"`
	CreatedAt                time.Time       `json:"createdAt"`
	UpdatedAt                time.Time       `json:"updatedAt"`
}

func (Payment) TableName() string {
	return "payments"
}
