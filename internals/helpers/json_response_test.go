package helper

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonError_DefaultsMessageFromStatus(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return JsonError(c, fiber.StatusNotFound, "") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"message":"Not Found","error_code":"NOT_FOUND"}`, string(b))
}

func TestUtilsStatusMessage_UnknownStatus(t *testing.T) {
	assert.Equal(t, fiber.ErrInternalServerError.Message, utilsStatusMessage(799))
}
