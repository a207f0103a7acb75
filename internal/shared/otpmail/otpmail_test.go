package otpmail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	msg := Message("u@x.com", "012345", 10*time.Minute)

	assert.Equal(t, []string{"u@x.com"}, msg.To)
	assert.Equal(t, "Your QuickCart OTP Verification Code", msg.Subject)
	assert.Equal(t, "Your OTP code is: 012345\n\nIt expires in 10 minutes.", msg.TextBody)
	assert.Empty(t, msg.HTMLBody)
}
