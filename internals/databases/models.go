package database

import (
	apptModel "schoolhub_backend/internals/features/communication/appointments/model"
	chatModel "schoolhub_backend/internals/features/communication/messages/model"
	feeModel "schoolhub_backend/internals/features/finance/fees/model"
	attendanceModel "schoolhub_backend/internals/features/school/attendance/model"
	certificateModel "schoolhub_backend/internals/features/school/certificates/model"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	historyModel "schoolhub_backend/internals/features/school/history/model"
	homeworkModel "schoolhub_backend/internals/features/school/homework/model"
	leaveModel "schoolhub_backend/internals/features/school/leaves/model"
	markModel "schoolhub_backend/internals/features/school/marks/model"
	newsModel "schoolhub_backend/internals/features/school/newsfeed/model"
	studentModel "schoolhub_backend/internals/features/school/students/model"
	schoolModel "schoolhub_backend/internals/features/schools/schools/model"
	authModel "schoolhub_backend/internals/features/users/auth/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
)

// Models lists every table owned by the API, in dependency order.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&schoolModel.SchoolModel{},
		&schoolModel.SchoolAdminModel{},
		&classModel.ClassModel{},
		&studentModel.StudentModel{},
		&historyModel.StudentHistoryModel{},
		&attendanceModel.AttendanceModel{},
		&markModel.MarkModel{},
		&homeworkModel.HomeworkModel{},
		&newsModel.NewsFeedModel{},
		&certificateModel.CertificateModel{},
		&leaveModel.LeaveRequestModel{},
		&feeModel.StudentFeeModel{},
		&feeModel.FeePaymentModel{},
		&apptModel.AppointmentModel{},
		&chatModel.ChatMessageModel{},
	}
}
