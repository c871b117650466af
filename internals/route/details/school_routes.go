package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	attendanceRoute "schoolhub_backend/internals/features/school/attendance/route"
	certificateRoute "schoolhub_backend/internals/features/school/certificates/route"
	classRoute "schoolhub_backend/internals/features/school/classes/route"
	historyRoute "schoolhub_backend/internals/features/school/history/route"
	homeworkRoute "schoolhub_backend/internals/features/school/homework/route"
	leaveRoute "schoolhub_backend/internals/features/school/leaves/route"
	markRoute "schoolhub_backend/internals/features/school/marks/route"
	newsFeedRoute "schoolhub_backend/internals/features/school/newsfeed/route"
	studentRoute "schoolhub_backend/internals/features/school/students/route"
	teacherRoute "schoolhub_backend/internals/features/school/teachers/route"
	schoolRoute "schoolhub_backend/internals/features/schools/schools/route"
)

/* ===================== PRIVATE (JWT) ===================== */

func SchoolRoutes(private fiber.Router, db *gorm.DB, ca *cache.Aside) {
	schoolRoute.SchoolRoutes(private, db, ca)

	studentRoute.StudentRoutes(private, db, ca)
	classRoute.ClassRoutes(private, db, ca)
	teacherRoute.TeacherRoutes(private, db, ca)
	attendanceRoute.AttendanceRoutes(private, db, ca)
	markRoute.MarkRoutes(private, db, ca)
	homeworkRoute.HomeworkRoutes(private, db, ca)
	newsFeedRoute.NewsFeedRoutes(private, db, ca)
	certificateRoute.CertificateRoutes(private, db, ca)
	historyRoute.HistoryRoutes(private, db, ca)
	leaveRoute.LeaveRoutes(private, db, ca)
}
