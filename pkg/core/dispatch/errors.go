package dispatch

import (
	"fmt"
	"strings"

	"github.com/lfl-lab/dutybot/pkg/core/model"
)

// Channel names used in error reporting.
const (
	ChannelEmail    = "email"
	ChannelChat     = "chat"
	ChannelCalendar = "calendar"
)

// ChannelError records a single collaborator failure during fan-out.
type ChannelError struct {
	Channel string
	Err     error
}

func (e ChannelError) Error() string {
	return fmt.Sprintf("%s: %v", e.Channel, e.Err)
}

func (e ChannelError) Unwrap() error {
	return e.Err
}

// DispatchError aggregates every channel failure for one duty's fan-out.
// Any DispatchError blocks tracker advancement for that duty.
type DispatchError struct {
	Duty     model.DutyType
	Failures []ChannelError
}

func (e *DispatchError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("dispatch failed for duty %s: %s", e.Duty, strings.Join(parts, "; "))
}
