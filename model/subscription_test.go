package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionIgnores(t *testing.T) {
	s := &Subscription{IgnoreWarn: true}

	assert.True(t, s.Ignores(AlertTypeWarn))
	assert.False(t, s.Ignores(AlertTypeError))
	assert.False(t, s.Ignores(AlertTypeOK))
	assert.False(t, s.Ignores(AlertTypeUnknown))
}

func TestParseSubscriptionType(t *testing.T) {
	assert.Equal(t, SubscriptionTypeHipChat, ParseSubscriptionType(" hipchat "))
	assert.Equal(t, SubscriptionType("CARRIER_PIGEON"), ParseSubscriptionType("carrier_pigeon"))
}

func TestNotificationValidate(t *testing.T) {
	assert.Error(t, (&Notification{}).Validate())
	assert.Error(t, (&Notification{Check: &Check{}}).Validate())
	assert.NoError(t, (&Notification{Check: &Check{}, Subscription: &Subscription{}}).Validate())

	err := (&Notification{Check: &Check{}, Subscription: &Subscription{}, Alerts: []*Alert{{}, nil}}).Validate()
	assert.EqualError(t, err, "alert 1 required")
}
