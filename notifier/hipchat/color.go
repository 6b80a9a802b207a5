package hipchat

import (
	"strings"

	"github.com/kirychukyurii/checknotifier/model"
)

// Color is the background of a HipChat room message.
type Color int

const (
	Yellow Color = iota
	Red
	Green
	Purple
	Random
)

var colorNames = [...]string{"YELLOW", "RED", "GREEN", "PURPLE", "RANDOM"}

func (c Color) String() string {
	if c < Yellow || c > Random {
		return "UNKNOWN"
	}

	return colorNames[c]
}

// Param is the value of the color form field.
func (c Color) Param() string {
	return strings.ToLower(c.String())
}

// presentation maps a check state to its message color, the second value
// reports whether the state is delivered at all.
func presentation(state model.AlertType) (Color, bool) {
	switch state {
	case model.AlertTypeError:
		return Red, true
	case model.AlertTypeWarn:
		return Yellow, true
	case model.AlertTypeOK:
		return Green, true
	default:
		return Random, false
	}
}
