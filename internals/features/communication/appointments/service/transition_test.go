package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schoolhub_backend/internals/constants"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{constants.AppointmentPending, constants.AppointmentApproved, true},
		{constants.AppointmentPending, constants.AppointmentRejected, true},
		{constants.AppointmentApproved, constants.AppointmentCompleted, true},
		{constants.AppointmentApproved, constants.AppointmentPending, false},
		{constants.AppointmentApproved, constants.AppointmentRejected, false},
		{constants.AppointmentPending, constants.AppointmentCompleted, false},
		{constants.AppointmentRejected, constants.AppointmentApproved, false},
		{constants.AppointmentCompleted, constants.AppointmentApproved, false},
	}
	for _, tc := range cases {
		err := Transition(tc.from, tc.to)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestCanChat(t *testing.T) {
	assert.True(t, CanChat(constants.AppointmentApproved))
	for _, s := range []string{constants.AppointmentPending, constants.AppointmentRejected, constants.AppointmentCompleted} {
		assert.False(t, CanChat(s), s)
	}
}
