package web

import (
	"fmt"

	"github.com/solar3s/ippower/power"
)

const (
	OpOpen  = "open"
	OpState = "status"
	OpGet   = "get"
	OpSet   = "set"
	OpApply = "apply"
)

// Report describes a failed operation to API clients.
type Report struct {
	Op          string
	Setting     string `json:",omitempty"`
	Action      string
	Kind        string
	Message     string
	Description string `json:",omitempty"`
	BadValue    string `json:",omitempty"`
	// Fatal is set when the daemon gives up after this error.
	Fatal bool
}

func NewReport(op string, s *power.Setting, err error) Report {
	r := Report{
		Op:          op,
		Action:      Action(op, s),
		Kind:        power.Kind(err),
		Message:     err.Error(),
		Description: power.Description(err),
		BadValue:    power.BadValue(err),
	}
	if s != nil {
		r.Setting = s.String()
	}
	return r
}

// Action phrases a failed op for humans, e.g. "Failed to obtain the current
// rapid charge status!".
func Action(op string, s *power.Setting) string {
	what := "power settings"
	if s != nil {
		what = s.Description()
	}
	switch op {
	case OpOpen:
		return "Failed to open the ACPI call interface!"
	case OpGet, OpState:
		return fmt.Sprintf("Failed to obtain the current %s!", what)
	case OpSet:
		return fmt.Sprintf("Failed to update the %s!", what)
	case OpApply:
		return "Failed to apply the power profile!"
	default:
		return fmt.Sprintf("Failed to %s the %s!", op, what)
	}
}

func (r Report) String() string {
	s := fmt.Sprintf("%s\n%s: %s", r.Action, r.Kind, r.Message)
	if r.Description != "" {
		s += "\n" + r.Description
	}
	return s
}
