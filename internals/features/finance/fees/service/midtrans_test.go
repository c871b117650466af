package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/finance/fees/dto"
)

func TestNotificationSignature(t *testing.T) {
	sig := NotificationSignature("FEE-1", "200", "400.00", "server-key")
	assert.Len(t, sig, 128)

	assert.True(t, VerifyNotificationSignature("FEE-1", "200", "400.00", "server-key", sig))
	assert.True(t, VerifyNotificationSignature("FEE-1", "200", "400.00", "server-key", strings.ToUpper(sig)))
	assert.False(t, VerifyNotificationSignature("FEE-1", "200", "400.01", "server-key", sig))
	assert.False(t, VerifyNotificationSignature("FEE-1", "200", "400.00", "other-key", sig))
	assert.False(t, VerifyNotificationSignature("FEE-1", "200", "400.00", "", sig))
}

func TestNotificationOutcome(t *testing.T) {
	cases := map[string]dto.MidtransNotification{
		constants.PaymentSettled: {TransactionStatus: "settlement"},
		constants.PaymentFailed:  {TransactionStatus: "expire"},
		"":                       {TransactionStatus: "pending"},
	}
	for want, n := range cases {
		assert.Equal(t, want, notificationOutcome(n), n.TransactionStatus)
	}
	assert.Equal(t, constants.PaymentSettled, notificationOutcome(dto.MidtransNotification{TransactionStatus: "capture", FraudStatus: "accept"}))
	assert.Equal(t, "", notificationOutcome(dto.MidtransNotification{TransactionStatus: "capture", FraudStatus: "challenge"}))
	assert.Equal(t, constants.PaymentFailed, notificationOutcome(dto.MidtransNotification{TransactionStatus: "deny"}))
}

func TestNewOrderID(t *testing.T) {
	a, b := NewOrderID(), NewOrderID()
	assert.True(t, strings.HasPrefix(a, "FEE-"))
	assert.Len(t, a, 24)
	assert.NotEqual(t, a, b)
}
