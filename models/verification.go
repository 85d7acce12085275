package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationCode is a one-time email verification code. Codes are
// single-use and expire; both conditions are checked at redemption time.
type VerificationCode struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Code      string    `json:"-" db:"code"`
	Used      bool      `json:"used" db:"used"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the VerificationCode model
func (VerificationCode) TableName() string {
	return "email_verifications"
}

// NewVerificationCode creates a verification code valid until expiresAt
func NewVerificationCode(email, code string, expiresAt time.Time) *VerificationCode {
	return &VerificationCode{
		ID:        uuid.New(),
		Email:     email,
		Code:      code,
		Used:      false,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

// Usable reports whether the code can still be redeemed at the given time
func (v *VerificationCode) Usable(now time.Time) bool {
	return !v.Used && now.Before(v.ExpiresAt)
}
