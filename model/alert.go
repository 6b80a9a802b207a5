package model

import (
	"fmt"
	"time"
)

// AlertType is the state a check or an alert transition is in.
type AlertType string

const (
	AlertTypeUnknown   AlertType = "UNKNOWN"
	AlertTypeOK        AlertType = "OK"
	AlertTypeWarn      AlertType = "WARN"
	AlertTypeError     AlertType = "ERROR"
	AlertTypeException AlertType = "EXCEPTION"
)

func (t AlertType) String() string {
	return string(t)
}

type Alert struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	CheckID   string    `json:"checkId,omitempty" yaml:"check_id,omitempty"`
	Target    string    `json:"target" yaml:"target"`
	Value     float64   `json:"value,omitempty" yaml:"value,omitempty"`
	FromType  AlertType `json:"fromType,omitempty" yaml:"from_type,omitempty"`
	ToType    AlertType `json:"toType,omitempty" yaml:"to_type,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

func (a *Alert) String() string {
	return fmt.Sprintf("%s: %s -> %s (%g)", a.Target, a.FromType, a.ToType, a.Value)
}
