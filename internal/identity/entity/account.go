package entity

import "time"

// RoleCustomer is the authorization role granted to every verified account.
const RoleCustomer = "customer"

// Account is an identity record keyed by normalized email.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	IsVerified   bool
	// OTP is the pending verification code; nil once verified or never issued.
	OTP       *PendingOTP
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PendingOTP is the stored half of a verification code. Digest is the keyed
// hash of the code, never the code itself.
type PendingOTP struct {
	Digest    string
	ExpiresAt time.Time
}

// Expired reports whether now is strictly after the expiry instant.
func (p PendingOTP) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// State returns the verification state of the account.
func (a Account) State() AccountState {
	switch {
	case a.IsVerified:
		return AccountStateVerified
	case a.OTP != nil:
		return AccountStatePending
	default:
		return AccountStateNoPendingOTP
	}
}

// AccountState is the position of an account in the verification flow.
type AccountState uint8

const (
	AccountStateNoPendingOTP AccountState = iota
	AccountStatePending
	AccountStateVerified
)

func (s AccountState) String() string {
	switch s {
	case AccountStatePending:
		return "pending_verification"
	case AccountStateVerified:
		return "verified"
	default:
		return "no_pending_otp"
	}
}
