package model

import "strings"

// SubscriptionType is the delivery channel a subscription asks for.
type SubscriptionType string

const (
	SubscriptionTypeEmail     SubscriptionType = "EMAIL"
	SubscriptionTypeHipChat   SubscriptionType = "HIPCHAT"
	SubscriptionTypeSlack     SubscriptionType = "SLACK"
	SubscriptionTypePagerDuty SubscriptionType = "PAGERDUTY"
	SubscriptionTypeHTTP      SubscriptionType = "HTTP"
	SubscriptionTypeWebitel   SubscriptionType = "WEBITEL"
	SubscriptionTypeLog       SubscriptionType = "LOG"
)

// ParseSubscriptionType is case-insensitive and never fails: unknown kinds are
// kept as is so that no notifier claims them.
func ParseSubscriptionType(s string) SubscriptionType {
	return SubscriptionType(strings.ToUpper(strings.TrimSpace(s)))
}

type Subscription struct {
	ID          string           `json:"id,omitempty" yaml:"id,omitempty"`
	Target      string           `json:"target" yaml:"target"`
	Type        SubscriptionType `json:"type" yaml:"type"`
	Enabled     bool             `json:"enabled" yaml:"enabled"`
	IgnoreOk    bool             `json:"ignoreOk,omitempty" yaml:"ignore_ok,omitempty"`
	IgnoreWarn  bool             `json:"ignoreWarn,omitempty" yaml:"ignore_warn,omitempty"`
	IgnoreError bool             `json:"ignoreError,omitempty" yaml:"ignore_error,omitempty"`
}

// Ignores reports whether the subscriber opted out of notifications for state.
func (s *Subscription) Ignores(state AlertType) bool {
	switch state {
	case AlertTypeOK:
		return s.IgnoreOk
	case AlertTypeWarn:
		return s.IgnoreWarn
	case AlertTypeError:
		return s.IgnoreError
	}

	return false
}
