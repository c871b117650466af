package controller

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	apptService "schoolhub_backend/internals/features/communication/appointments/service"
	"schoolhub_backend/internals/features/communication/messages/service"
)

func TestAppointmentStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		ok     bool
	}{
		{apptService.ErrAppointmentNotFound, fiber.StatusNotFound, true},
		{fmt.Errorf("load: %w", apptService.ErrNotParticipant), fiber.StatusForbidden, true},
		{service.ErrChatClosed, fiber.StatusBadRequest, true},
		{errors.New("connection reset"), 0, false},
	}
	for _, tc := range cases {
		status, msg, ok := appointmentStatus(tc.err)
		assert.Equal(t, tc.ok, ok, tc.err.Error())
		assert.Equal(t, tc.status, status, tc.err.Error())
		if ok {
			assert.NotEmpty(t, msg)
		}
	}
}
