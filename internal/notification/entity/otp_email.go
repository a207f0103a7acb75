package entity

import (
	"strconv"
	"time"
)

// OTPEmail is a verification code waiting to be mailed.
type OTPEmail struct {
	AccountID int64
	Email     string
	Code      string
	ExpiresAt time.Time
	Reason    string
}

// Expired reports whether the code can no longer be used at now.
func (o OTPEmail) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// Remaining is the code lifetime left at now, rounded to whole minutes.
func (o OTPEmail) Remaining(now time.Time) time.Duration {
	return max(o.ExpiresAt.Sub(now), 0).Round(time.Minute)
}

// DeliveryKey identifies one issued code; redelivered messages share it.
func (o OTPEmail) DeliveryKey() string {
	return "otp_mail:" + strconv.FormatInt(o.AccountID, 10) + ":" + strconv.FormatInt(o.ExpiresAt.UnixNano(), 10)
}
