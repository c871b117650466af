package service

import (
	"errors"
	"fmt"

	"schoolhub_backend/internals/constants"
)

var ErrInvalidTransition = errors.New("invalid leave status transition")

var transitions = map[string][]string{
	constants.LeavePending: {constants.LeaveApproved, constants.LeaveRejected},
}

// Transition validates a decision on a leave request. Only PENDING requests can be decided.
func Transition(from, to string) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
