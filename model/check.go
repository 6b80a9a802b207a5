package model

// Check is a monitored condition. Only the fields used to render and route
// notifications are carried here.
type Check struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Target      string    `json:"target,omitempty" yaml:"target,omitempty"`
	Warn        string    `json:"warn,omitempty" yaml:"warn,omitempty"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
	State       AlertType `json:"state" yaml:"state"`
}
