package constants

// Appointment lifecycle
const (
	AppointmentPending   = "PENDING"
	AppointmentApproved  = "APPROVED"
	AppointmentRejected  = "REJECTED"
	AppointmentCompleted = "COMPLETED"
)

// Leave lifecycle
const (
	LeavePending  = "PENDING"
	LeaveApproved = "APPROVED"
	LeaveRejected = "REJECTED"
)

var LeaveTypes = []string{"CASUAL", "SICK", "PAID", "UNPAID"}

// Attendance marks
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
	AttendanceLate    = "LATE"
)

// Fee payment lifecycle
const (
	PaymentPending = "PENDING"
	PaymentSettled = "SETTLED"
	PaymentFailed  = "FAILED"
)

const MsgSchoolNotInSession = "School not found in session"
