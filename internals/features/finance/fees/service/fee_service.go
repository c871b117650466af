package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/finance/fees/dto"
	"schoolhub_backend/internals/features/finance/fees/model"
	studentModel "schoolhub_backend/internals/features/school/students/model"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/helpers/dbtime"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrFeeNotFound     = errors.New("fee record not found")
	ErrAmountTooLarge  = errors.New("amount exceeds the outstanding fee")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrBadSignature    = errors.New("invalid notification signature")
	ErrAmountMismatch  = errors.New("notification amount does not match the payment")
	ErrGatewayDisabled = errors.New("payment gateway is not configured")
)

func FeeKey(studentID uuid.UUID) string       { return cache.Key("fees", studentID.String()) }
func SchoolFeesKey(schoolID uuid.UUID) string { return cache.Key("fees", schoolID.String()) }

func Forget(ctx context.Context, ca *cache.Aside, schoolID, studentID uuid.UUID) {
	ca.Forget(ctx, FeeKey(studentID), SchoolFeesKey(schoolID))
}

/* =========================================================
   Fee records
========================================================= */

func UpsertStudentFee(ctx context.Context, db *gorm.DB, schoolID, studentID uuid.UUID, req dto.UpsertStudentFeeRequest) (*model.StudentFeeModel, error) {
	due, err := dbtime.ParseOptionalDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	var n int64
	if err := db.WithContext(ctx).Model(&studentModel.StudentModel{}).
		Where("student_id = ? AND student_school_id = ?", studentID, schoolID).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrStudentNotFound
	}

	fee := model.StudentFeeModel{
		StudentFeeStudentID:  studentID,
		StudentFeeSchoolID:   schoolID,
		StudentFeeTotalFee:   req.TotalFee,
		StudentFeePaidAmount: req.PaidAmount,
		StudentFeeDueDate:    due,
	}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_fee_student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"student_fee_total_fee", "student_fee_paid_amount", "student_fee_due_date", "student_fee_updated_at",
		}),
	}).Create(&fee).Error; err != nil {
		return nil, err
	}

	var out model.StudentFeeModel
	if err := db.WithContext(ctx).Where("student_fee_student_id = ?", studentID).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// FindFee returns ErrFeeNotFound when the student has no fee record.
func FindFee(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (*dto.FeeView, error) {
	var m model.StudentFeeModel
	if err := db.WithContext(ctx).Where("student_fee_student_id = ?", studentID).Take(&m).Error; err != nil {
		if helper.IsNotFound(err) {
			return nil, ErrFeeNotFound
		}
		return nil, err
	}
	v := dto.NewFeeView(m, "")
	return &v, nil
}

func ListSchoolFees(ctx context.Context, db *gorm.DB, schoolID uuid.UUID) ([]dto.FeeView, error) {
	var rows []model.StudentFeeModel
	if err := db.WithContext(ctx).
		Where("student_fee_school_id = ?", schoolID).
		Order("student_fee_updated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dto.FeeView, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.StudentFeeStudentID)
	}
	var students []studentModel.StudentModel
	if err := db.WithContext(ctx).Select("student_id", "student_name").
		Where("student_id IN ?", ids).Find(&students).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(students))
	for _, s := range students {
		names[s.StudentID] = s.StudentName
	}
	for _, r := range rows {
		out = append(out, dto.NewFeeView(r, names[r.StudentFeeStudentID]))
	}
	return out, nil
}

/* =========================================================
   Payments
========================================================= */

func NewOrderID() string {
	return "FEE-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:20])
}

// StartPayment records a PENDING payment and opens a gateway checkout for it.
func StartPayment(ctx context.Context, db *gorm.DB, gw Gateway, studentID uuid.UUID, amount int64) (*model.FeePaymentModel, error) {
	if gw == nil {
		return nil, ErrGatewayDisabled
	}
	var fee model.StudentFeeModel
	if err := db.WithContext(ctx).Where("student_fee_student_id = ?", studentID).Take(&fee).Error; err != nil {
		if helper.IsNotFound(err) {
			return nil, ErrFeeNotFound
		}
		return nil, err
	}
	if amount > fee.Outstanding() {
		return nil, ErrAmountTooLarge
	}
	var st studentModel.StudentModel
	if err := db.WithContext(ctx).Where("student_id = ?", studentID).Take(&st).Error; err != nil {
		return nil, err
	}

	pay := model.FeePaymentModel{
		FeePaymentOrderID:   NewOrderID(),
		FeePaymentStudentID: studentID,
		FeePaymentSchoolID:  fee.StudentFeeSchoolID,
		FeePaymentAmount:    amount,
		FeePaymentStatus:    constants.PaymentPending,
	}
	if err := db.WithContext(ctx).Create(&pay).Error; err != nil {
		return nil, err
	}

	phone := ""
	if st.StudentPhoneNo != nil {
		phone = *st.StudentPhoneNo
	}
	co, err := gw.CreateCheckout(pay.FeePaymentOrderID, amount, CustomerInput{
		Name: st.StudentName, Email: st.StudentEmail, Phone: phone,
	})
	if err != nil {
		db.WithContext(ctx).Model(&pay).Update("fee_payment_status", constants.PaymentFailed)
		return nil, fmt.Errorf("create checkout: %w", err)
	}
	pay.FeePaymentSnapToken = &co.Token
	pay.FeePaymentRedirectURL = &co.RedirectURL
	if err := db.WithContext(ctx).Model(&pay).Updates(map[string]any{
		"fee_payment_snap_token":   co.Token,
		"fee_payment_redirect_url": co.RedirectURL,
	}).Error; err != nil {
		return nil, err
	}
	return &pay, nil
}

// notificationOutcome maps a Midtrans transaction status to our payment status;
// "" means keep waiting.
func notificationOutcome(n dto.MidtransNotification) string {
	switch n.TransactionStatus {
	case "settlement":
		return constants.PaymentSettled
	case "capture":
		if n.FraudStatus == "" || n.FraudStatus == "accept" {
			return constants.PaymentSettled
		}
		return ""
	case "deny", "cancel", "expire", "failure":
		return constants.PaymentFailed
	}
	return ""
}

// ApplyNotification settles or fails a PENDING payment once. Replays of an
// already-final payment are accepted and change nothing.
func ApplyNotification(ctx context.Context, db *gorm.DB, serverKey string, n dto.MidtransNotification, raw []byte, now time.Time) (*model.FeePaymentModel, error) {
	if !VerifyNotificationSignature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey, n.SignatureKey) {
		return nil, ErrBadSignature
	}

	var pay model.FeePaymentModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fee_payment_order_id = ?", n.OrderID).Take(&pay).Error; err != nil {
			if helper.IsNotFound(err) {
				return ErrPaymentNotFound
			}
			return err
		}
		if gross, err := strconv.ParseFloat(n.GrossAmount, 64); err != nil || int64(gross) != pay.FeePaymentAmount {
			return ErrAmountMismatch
		}

		outcome := notificationOutcome(n)
		if outcome == "" || pay.FeePaymentStatus != constants.PaymentPending {
			return nil
		}

		updates := map[string]any{
			"fee_payment_status": outcome,
			"fee_payment_raw":    datatypes.JSON(raw),
		}
		if outcome == constants.PaymentSettled {
			updates["fee_payment_settled_at"] = now
		}
		res := tx.Model(&model.FeePaymentModel{}).
			Where("fee_payment_id = ? AND fee_payment_status = ?", pay.FeePaymentID, constants.PaymentPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if outcome == constants.PaymentSettled {
			if err := tx.Model(&model.StudentFeeModel{}).
				Where("student_fee_student_id = ?", pay.FeePaymentStudentID).
				Update("student_fee_paid_amount", gorm.Expr("student_fee_paid_amount + ?", pay.FeePaymentAmount)).Error; err != nil {
				return err
			}
			log.Printf("[FEES] order %s settled (%d)", pay.FeePaymentOrderID, pay.FeePaymentAmount)
		}
		return tx.Where("fee_payment_id = ?", pay.FeePaymentID).Take(&pay).Error
	})
	if err != nil {
		return nil, err
	}
	return &pay, nil
}
