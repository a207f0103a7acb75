// Package event holds broker message contracts shared by publishers and
// consumers in different modules.
package event

import "time"

const (
	// AccountOTPDestination is the topic carrying OTP delivery requests.
	AccountOTPDestination string = "account_otp"
	// AccountOTPConsumerNotification is the consumer group of the notification module.
	AccountOTPConsumerNotification string = "account_otp_notification"
)

// AccountOTPReason tells the mailer why the code was issued.
type AccountOTPReason string

const (
	AccountOTPReasonRegister AccountOTPReason = "register"
	AccountOTPReasonResend   AccountOTPReason = "resend"
)

// AccountOTPMessage asks the notification module to mail a verification code.
// The code is plaintext; topics carrying it must not be retained longer than
// the code lifetime.
type AccountOTPMessage struct {
	AccountID int64            `json:"account_id,string"`
	Email     string           `json:"email"`
	Code      string           `json:"code"`
	ExpiresAt time.Time        `json:"expires_at"`
	Reason    AccountOTPReason `json:"reason"`
}
