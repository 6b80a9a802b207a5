package model

import (
	"errors"
	"fmt"
)

// Notification is the document accepted by the inbound listener and the send
// command: one check, the subscription to deliver to and its triggering alerts.
type Notification struct {
	Check        *Check        `json:"check" yaml:"check"`
	Subscription *Subscription `json:"subscription" yaml:"subscription"`
	Alerts       []*Alert      `json:"alerts" yaml:"alerts"`
}

func (n *Notification) Validate() error {
	if n.Check == nil {
		return errors.New("check required")
	}

	if n.Subscription == nil {
		return errors.New("subscription required")
	}

	for i, a := range n.Alerts {
		if a == nil {
			return fmt.Errorf("alert %d required", i)
		}
	}

	return nil
}
