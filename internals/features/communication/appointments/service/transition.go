package service

import (
	"errors"
	"fmt"

	"schoolhub_backend/internals/constants"
)

var ErrInvalidTransition = errors.New("invalid appointment status transition")

// REJECTED and COMPLETED have no outgoing edges.
var transitions = map[string][]string{
	constants.AppointmentPending:  {constants.AppointmentApproved, constants.AppointmentRejected},
	constants.AppointmentApproved: {constants.AppointmentCompleted},
}

func Transition(from, to string) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// CanChat reports whether messages may be exchanged in the given status.
func CanChat(status string) bool {
	return status == constants.AppointmentApproved
}
