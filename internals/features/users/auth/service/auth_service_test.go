package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/users/auth/dto"
	authHelper "schoolhub_backend/internals/features/users/auth/helper"
	"schoolhub_backend/internals/testutil"
)

func TestCanCreate(t *testing.T) {
	assert.True(t, CanCreate(constants.RoleSuperAdmin, constants.RoleSchoolAdmin))
	assert.False(t, CanCreate(constants.RoleSuperAdmin, constants.RoleStudent))
	assert.True(t, CanCreate(constants.RoleSchoolAdmin, constants.RoleTeacher))
	assert.True(t, CanCreate(constants.RoleSchoolAdmin, constants.RoleStudent))
	assert.False(t, CanCreate(constants.RoleSchoolAdmin, constants.RoleSchoolAdmin))
	assert.False(t, CanCreate(constants.RoleTeacher, constants.RoleStudent))
}

func TestLogin(t *testing.T) {
	db := testutil.NewDB(t)
	tn := testutil.SeedTenant(t, db, "login")
	hash, err := authHelper.HashPassword("abc12345")
	require.NoError(t, err)
	require.NoError(t, db.Model(&tn.Teacher).Update("password", hash).Error)

	ctx := context.Background()
	u, err := Login(ctx, db, dto.LoginRequest{Email: tn.Teacher.Email, Password: "abc12345"})
	require.NoError(t, err)
	assert.Equal(t, tn.Teacher.ID, u.ID)

	_, err = Login(ctx, db, dto.LoginRequest{Email: tn.Teacher.Email, Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = Login(ctx, db, dto.LoginRequest{Email: "ghost@example.test", Password: "abc12345"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, db.Model(&tn.Teacher).Update("is_active", false).Error)
	_, err = Login(ctx, db, dto.LoginRequest{Email: tn.Teacher.Email, Password: "abc12345"})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestSessionFor_CarriesStudentProfile(t *testing.T) {
	db := testutil.NewDB(t)
	tn := testutil.SeedTenant(t, db, "session")

	s, err := SessionFor(context.Background(), db, &tn.StudentUser)
	require.NoError(t, err)
	require.NotNil(t, s.StudentID)
	assert.Equal(t, tn.Student.StudentID, *s.StudentID)
	require.NotNil(t, s.SchoolID)
	assert.Equal(t, tn.School.SchoolID, *s.SchoolID)

	s, err = SessionFor(context.Background(), db, &tn.Teacher)
	require.NoError(t, err)
	assert.Nil(t, s.StudentID)
}
