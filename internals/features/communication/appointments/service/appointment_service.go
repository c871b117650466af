package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/communication/appointments/dto"
	"schoolhub_backend/internals/features/communication/appointments/model"
	studentModel "schoolhub_backend/internals/features/school/students/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/helpers/dbtime"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrTeacherNotFound     = errors.New("teacher not found in this school")
	ErrNotParticipant      = errors.New("caller is not part of this appointment")
	ErrNotAppointedTeacher = errors.New("caller is not the appointment's teacher")
	ErrBadSchedule         = errors.New("scheduledAt must be RFC3339 or YYYY-MM-DD")
)

// Caller identifies who acts on an appointment.
type Caller struct {
	UserID    uuid.UUID
	StudentID *uuid.UUID
}

func Create(ctx context.Context, db *gorm.DB, schoolID, studentID uuid.UUID, req dto.CreateAppointmentRequest) (*model.AppointmentModel, error) {
	teacherID, err := uuid.Parse(req.TeacherID)
	if err != nil {
		return nil, ErrTeacherNotFound
	}
	scheduledAt, err := dbtime.ParseOptionalDateTime(req.ScheduledAt)
	if err != nil {
		return nil, ErrBadSchedule
	}

	var n int64
	if err := db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ? AND school_id = ? AND role = ? AND is_active = ?", teacherID, schoolID, constants.RoleTeacher, true).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrTeacherNotFound
	}

	appt := model.AppointmentModel{
		AppointmentStudentID:   studentID,
		AppointmentTeacherID:   teacherID,
		AppointmentSchoolID:    schoolID,
		AppointmentStatus:      constants.AppointmentPending,
		AppointmentNote:        req.Note,
		AppointmentScheduledAt: scheduledAt,
	}
	if err := db.WithContext(ctx).Create(&appt).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

// FindForParticipant loads an appointment and checks the caller takes part in it.
func FindForParticipant(ctx context.Context, db *gorm.DB, appointmentID uuid.UUID, who Caller) (*model.AppointmentModel, error) {
	var appt model.AppointmentModel
	if err := db.WithContext(ctx).Where("appointment_id = ?", appointmentID).Take(&appt).Error; err != nil {
		if helper.IsNotFound(err) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if !appt.IsParticipant(who.UserID, who.StudentID) {
		return nil, ErrNotParticipant
	}
	return &appt, nil
}

// Move applies one transition. Approve and reject are reserved for the
// appointment's teacher; complete is open to both participants.
func Move(ctx context.Context, db *gorm.DB, appointmentID uuid.UUID, who Caller, to string) (*model.AppointmentModel, error) {
	var appt model.AppointmentModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("appointment_id = ?", appointmentID).Take(&appt).Error; err != nil {
			if helper.IsNotFound(err) {
				return ErrAppointmentNotFound
			}
			return err
		}
		switch to {
		case constants.AppointmentApproved, constants.AppointmentRejected:
			if appt.AppointmentTeacherID != who.UserID {
				return ErrNotAppointedTeacher
			}
		default:
			if !appt.IsParticipant(who.UserID, who.StudentID) {
				return ErrNotParticipant
			}
		}
		if err := Transition(appt.AppointmentStatus, to); err != nil {
			return err
		}
		res := tx.Model(&model.AppointmentModel{}).
			Where("appointment_id = ? AND appointment_status = ?", appointmentID, appt.AppointmentStatus).
			Update("appointment_status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: appointment changed concurrently", ErrInvalidTransition)
		}
		return tx.Where("appointment_id = ?", appointmentID).Take(&appt).Error
	})
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

type ListScope struct {
	StudentID *uuid.UUID
	TeacherID *uuid.UUID
}

func List(ctx context.Context, db *gorm.DB, s ListScope) ([]dto.AppointmentView, error) {
	q := db.WithContext(ctx).Model(&model.AppointmentModel{})
	switch {
	case s.StudentID != nil:
		q = q.Where("appointment_student_id = ?", *s.StudentID)
	case s.TeacherID != nil:
		q = q.Where("appointment_teacher_id = ?", *s.TeacherID)
	default:
		return []dto.AppointmentView{}, nil
	}
	var rows []model.AppointmentModel
	if err := q.Order("appointment_created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentView, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	studentIDs := make([]uuid.UUID, 0, len(rows))
	teacherIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		studentIDs = append(studentIDs, r.AppointmentStudentID)
		teacherIDs = append(teacherIDs, r.AppointmentTeacherID)
	}

	var students []studentModel.StudentModel
	if err := db.WithContext(ctx).Unscoped().Select("student_id", "student_name").
		Where("student_id IN ?", studentIDs).Find(&students).Error; err != nil {
		return nil, err
	}
	var teachers []userModel.UserModel
	if err := db.WithContext(ctx).Unscoped().Select("id", "user_name").
		Where("id IN ?", teacherIDs).Find(&teachers).Error; err != nil {
		return nil, err
	}
	sNames := make(map[uuid.UUID]string, len(students))
	for _, s := range students {
		sNames[s.StudentID] = s.StudentName
	}
	tNames := make(map[uuid.UUID]string, len(teachers))
	for _, t := range teachers {
		tNames[t.ID] = t.UserName
	}

	for _, r := range rows {
		v := dto.NewAppointmentView(r)
		if name, ok := sNames[r.AppointmentStudentID]; ok {
			v.Student = &dto.ParticipantRef{ID: r.AppointmentStudentID, Name: name}
		}
		if name, ok := tNames[r.AppointmentTeacherID]; ok {
			v.Teacher = &dto.ParticipantRef{ID: r.AppointmentTeacherID, Name: name}
		}
		out = append(out, v)
	}
	return out, nil
}

// Keys

func StudentKey(studentID uuid.UUID) string {
	return cache.Key("appointments", constants.RoleStudent, studentID.String())
}

func TeacherKey(teacherID uuid.UUID) string {
	return cache.Key("appointments", constants.RoleTeacher, teacherID.String())
}

func Forget(ctx context.Context, ca *cache.Aside, appt model.AppointmentModel) {
	ca.Forget(ctx, StudentKey(appt.AppointmentStudentID), TeacherKey(appt.AppointmentTeacherID))
}
