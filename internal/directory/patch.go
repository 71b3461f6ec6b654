package directory

import (
	"strings"

	"github.com/shopspring/decimal"

	"bouncecure/internal/apperror"
)

var hundred = decimal.NewFromInt(100)

// Patch is a partial update of a payment record. Nil fields are left alone.
// ID is accepted only so that an attempt to change it can be rejected.
type Patch struct {
	ID                       *uint            `json:"id,omitempty"`
	UserID                   *uint            `json:"userId,omitempty"`
	Name                     *string          `json:"name,omitempty"`
	Email                    *string          `json:"email,omitempty"`
	Amount                   *decimal.Decimal `json:"amount,omitempty"`
	Currency                 *string          `json:"currency,omitempty"`
	PlanName                 *string          `json:"planName,omitempty"`
	PlanType                 *string          `json:"planType,omitempty"`
	PlanPrice                *decimal.Decimal `json:"planPrice,omitempty"`
	Discount                 *decimal.Decimal `json:"discount,omitempty"`
	Status                   *string          `json:"status,omitempty"`
	Provider                 *string          `json:"provider,omitempty"`
	TransactionID            *string          `json:"transactionId,omitempty"`
	CustomInvoiceID          *string          `json:"customInvoiceId,omitempty"`
	EmailSendCredits         *int64           `json:"emailSendCredits,omitempty"`
	SMSCredits               *int64           `json:"smsCredits,omitempty"`
	WhatsappCredits          *int64           `json:"whatsappCredits,omitempty"`
	EmailVerificationCredits *int64           `json:"emailVerificationCredits,omitempty"`
}

// Validate checks the patch against the record it targets.
func (p *Patch) Validate(targetID uint) error {
	if p.ID != nil && *p.ID != targetID {
		return apperror.Validation("id cannot be changed")
	}
	if p.Amount != nil && p.Amount.IsNegative() {
		return apperror.Validation("amount must not be negative")
	}
	if p.PlanPrice != nil && p.PlanPrice.IsNegative() {
		return apperror.Validation("planPrice must not be negative")
	}
	if p.Discount != nil && (p.Discount.IsNegative() || p.Discount.GreaterThan(hundred)) {
		return apperror.Validation("discount must be between 0 and 100")
	}
	if p.Currency != nil && strings.TrimSpace(*p.Currency) == "" {
		return apperror.Validation("currency must not be empty")
	}
	for name, v := range map[string]*int64{
		"emailSendCredits":         p.EmailSendCredits,
		"smsCredits":               p.SMSCredits,
		"whatsappCredits":          p.WhatsappCredits,
		"emailVerificationCredits": p.EmailVerificationCredits,
	} {
		if v != nil && *v < 0 {
			return apperror.Validation("%s must not be negative", name)
		}
	}
	return nil
}

// Fields returns the column updates the patch describes. ID is never included.
func (p *Patch) Fields() map[string]any {
	f := make(map[string]any)
	setIf(f, "user_id", p.UserID)
	setIf(f, "name", p.Name)
	setIf(f, "email", p.Email)
	setIf(f, "amount", p.Amount)
	if p.Currency != nil {
		f["currency"] = strings.ToUpper(strings.TrimSpace(*p.Currency))
	}
	setIf(f, "plan_name", p.PlanName)
	setIf(f, "plan_type", p.PlanType)
	setIf(f, "plan_price", p.PlanPrice)
	setIf(f, "discount", p.Discount)
	setIf(f, "status", p.Status)
	setIf(f, "provider", p.Provider)
	setIf(f, "transaction_id", p.TransactionID)
	setIf(f, "custom_invoice_id", p.CustomInvoiceID)
	setIf(f, "email_send_credits", p.EmailSendCredits)
	setIf(f, "sms_credits", p.SMSCredits)
	setIf(f, "whatsapp_credits", p.WhatsappCredits)
	setIf(f, "email_verification_credits", p.EmailVerificationCredits)
	return f
}

func setIf[T any](f map[string]any, column string, v *T) {
	if v != nil {
		f[column] = *v
	}
}
