package constants

import "fmt"

const (
	RoleSuperAdmin  = "SUPERADMIN"
	RoleSchoolAdmin = "SCHOOLADMIN"
	RoleTeacher     = "TEACHER"
	RoleStudent     = "STUDENT"
)

// Template pesan error role
const (
	ErrOnlyTeachersCanAccess = "Only teachers or school admins can access %s"
	ErrOnlyAdminsCanAccess   = "Only school admins can access %s"
	ErrOnlyStudentsCanAccess = "Only students can access %s"
	ErrOnlySuperCanAccess    = "Only super admins can access %s"
)

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

func RoleErrorSuper(feature string) string {
	return fmt.Sprintf(ErrOnlySuperCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleSuperAdmin,
		RoleSchoolAdmin,
		RoleTeacher,
		RoleStudent,
	}

	SchoolRoles = []string{
		RoleSchoolAdmin,
		RoleTeacher,
		RoleStudent,
	}

	TeacherAndAdmin = []string{
		RoleTeacher,
		RoleSchoolAdmin,
	}

	AdminOnly = []string{
		RoleSchoolAdmin,
	}

	SuperOnly = []string{
		RoleSuperAdmin,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
