package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	studentModel "schoolhub_backend/internals/features/school/students/model"
	schoolModel "schoolhub_backend/internals/features/schools/schools/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

// Tenant is one school with an admin, a teacher, a class and a student.
type Tenant struct {
	School  schoolModel.SchoolModel
	Admin   userModel.UserModel
	Teacher userModel.UserModel
	Class   classModel.ClassModel
	Student studentModel.StudentModel
	// StudentUser is the login behind Student.
	StudentUser userModel.UserModel
}

func SeedTenant(t testing.TB, db *gorm.DB, name string) Tenant {
	t.Helper()
	var tn Tenant

	tn.School = schoolModel.SchoolModel{SchoolName: name, SchoolAddress: name + " street"}
	require.NoError(t, db.Create(&tn.School).Error)
	sid := tn.School.SchoolID

	tn.Admin = SeedUser(t, db, constants.RoleSchoolAdmin, name+"-admin", &sid)
	require.NoError(t, db.Create(&schoolModel.SchoolAdminModel{
		SchoolAdminSchoolID: sid, SchoolAdminUserID: tn.Admin.ID,
	}).Error)

	tn.Teacher = SeedUser(t, db, constants.RoleTeacher, name+"-teacher", &sid)

	tn.Class = classModel.ClassModel{ClassSchoolID: sid, ClassTeacherID: &tn.Teacher.ID, ClassName: "Grade 5", ClassSection: "A"}
	require.NoError(t, db.Create(&tn.Class).Error)

	tn.StudentUser = SeedUser(t, db, constants.RoleStudent, name+"-student", &sid)
	tn.Student = studentModel.StudentModel{
		StudentUserID:   tn.StudentUser.ID,
		StudentSchoolID: sid,
		StudentClassID:  &tn.Class.ClassID,
		StudentName:     tn.StudentUser.UserName,
		StudentEmail:    tn.StudentUser.Email,
	}
	require.NoError(t, db.Create(&tn.Student).Error)
	return tn
}

func SeedUser(t testing.TB, db *gorm.DB, role, name string, schoolID *uuid.UUID) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		UserName: name,
		Email:    name + "@example.test",
		Password: "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva",
		Role:     role,
		SchoolID: schoolID,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func (tn Tenant) AdminSession() helperAuth.Session {
	return helperAuth.Session{UserID: tn.Admin.ID, Role: constants.RoleSchoolAdmin, Name: tn.Admin.UserName, SchoolID: &tn.School.SchoolID}
}

func (tn Tenant) TeacherSession() helperAuth.Session {
	return helperAuth.Session{UserID: tn.Teacher.ID, Role: constants.RoleTeacher, Name: tn.Teacher.UserName, SchoolID: &tn.School.SchoolID}
}

func (tn Tenant) StudentSession() helperAuth.Session {
	return helperAuth.Session{
		UserID: tn.StudentUser.ID, Role: constants.RoleStudent, Name: tn.StudentUser.UserName,
		SchoolID: &tn.School.SchoolID, StudentID: &tn.Student.StudentID,
	}
}
