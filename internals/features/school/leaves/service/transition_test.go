package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schoolhub_backend/internals/constants"
)

func TestTransition_OnlyPendingIsDecided(t *testing.T) {
	assert.NoError(t, Transition(constants.LeavePending, constants.LeaveApproved))
	assert.NoError(t, Transition(constants.LeavePending, constants.LeaveRejected))
	assert.ErrorIs(t, Transition(constants.LeaveApproved, constants.LeaveRejected), ErrInvalidTransition)
	assert.ErrorIs(t, Transition(constants.LeaveRejected, constants.LeaveApproved), ErrInvalidTransition)
	assert.ErrorIs(t, Transition(constants.LeavePending, constants.LeavePending), ErrInvalidTransition)
}
