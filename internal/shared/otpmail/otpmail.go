// Package otpmail renders the verification code email shared by the direct
// mail sender and the notification consumer.
package otpmail

import (
	"fmt"
	"time"

	"github.com/shandysiswandi/quickcart/internal/pkg/mail"
)

// Subject is the subject line of every OTP email.
const Subject = "Your QuickCart OTP Verification Code"

// Message builds the email carrying code for the recipient. ttl is rendered in
// whole minutes.
func Message(to, code string, ttl time.Duration) mail.Message {
	return mail.Message{
		To:       []string{to},
		Subject:  Subject,
		TextBody: fmt.Sprintf("Your OTP code is: %s\n\nIt expires in %d minutes.", code, int(ttl.Minutes())),
	}
}
