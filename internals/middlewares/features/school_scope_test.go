package middleware_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internals/constants"
	schoolModel "schoolhub_backend/internals/features/schools/schools/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helperAuth "schoolhub_backend/internals/helpers/auth"
	middleware "schoolhub_backend/internals/middlewares/features"
	"schoolhub_backend/internals/testutil"
)

func TestUseSchoolScope_RepairsAdminWithoutSchool(t *testing.T) {
	db := testutil.NewDB(t)

	admin := userModel.UserModel{UserName: "Admin", Email: "a@x.io", Password: "x", Role: constants.RoleSchoolAdmin}
	require.NoError(t, db.Create(&admin).Error)
	school := schoolModel.SchoolModel{SchoolName: "North", SchoolAddress: "1 Road"}
	require.NoError(t, db.Create(&school).Error)
	require.NoError(t, db.Create(&schoolModel.SchoolAdminModel{
		SchoolAdminSchoolID: school.SchoolID, SchoolAdminUserID: admin.ID,
	}).Error)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		helperAuth.SetSession(c, helperAuth.Session{UserID: admin.ID, Role: constants.RoleSchoolAdmin})
		return c.Next()
	})
	app.Get("/", middleware.UseSchoolScope(db), func(c *fiber.Ctx) error {
		id, err := helperAuth.GetSchoolID(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, school.SchoolID.String(), testutil.ReadBody(t, resp))
	}

	var reloaded userModel.UserModel
	require.NoError(t, db.First(&reloaded, "id = ?", admin.ID).Error)
	require.NotNil(t, reloaded.SchoolID)
	assert.Equal(t, school.SchoolID, *reloaded.SchoolID)
}

func TestUseSchoolScope_RejectsWithoutSchool(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := userModel.UserModel{UserName: "T", Email: "t@x.io", Password: "x", Role: constants.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		helperAuth.SetSession(c, helperAuth.Session{UserID: teacher.ID, Role: constants.RoleTeacher})
		return c.Next()
	})
	app.Get("/", middleware.UseSchoolScope(db), func(c *fiber.Ctx) error { return c.SendStatus(200) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, testutil.ReadBody(t, resp), constants.MsgSchoolNotInSession)
}

func TestUseSchoolScope_TokenSchoolWins(t *testing.T) {
	db := testutil.NewDB(t)
	sid := uuid.New()

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		helperAuth.SetSession(c, helperAuth.Session{UserID: uuid.New(), Role: constants.RoleTeacher, SchoolID: &sid})
		return c.Next()
	})
	app.Get("/", middleware.UseSchoolScope(db), func(c *fiber.Ctx) error {
		id, _ := helperAuth.GetSchoolID(c)
		return c.SendString(id.String())
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, sid.String(), testutil.ReadBody(t, resp))
}
