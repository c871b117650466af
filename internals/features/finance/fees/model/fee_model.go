package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudentFeeModel: one fee account per student.
type StudentFeeModel struct {
	StudentFeeID         uuid.UUID       `gorm:"column:student_fee_id;type:uuid;primaryKey" json:"id"`
	StudentFeeStudentID  uuid.UUID       `gorm:"column:student_fee_student_id;type:uuid;not null;uniqueIndex" json:"studentId"`
	StudentFeeSchoolID   uuid.UUID       `gorm:"column:student_fee_school_id;type:uuid;not null;index" json:"schoolId"`
	StudentFeeTotalFee   int64           `gorm:"column:student_fee_total_fee;not null" json:"totalFee"`
	StudentFeePaidAmount int64           `gorm:"column:student_fee_paid_amount;not null;default:0" json:"paidAmount"`
	StudentFeeDueDate    *datatypes.Date `gorm:"column:student_fee_due_date" json:"dueDate"`
	StudentFeeCreatedAt  time.Time       `gorm:"column:student_fee_created_at;autoCreateTime" json:"createdAt"`
	StudentFeeUpdatedAt  time.Time       `gorm:"column:student_fee_updated_at;autoUpdateTime" json:"updatedAt"`
}

func (StudentFeeModel) TableName() string { return "student_fees" }

func (m *StudentFeeModel) BeforeCreate(*gorm.DB) error {
	if m.StudentFeeID == uuid.Nil {
		m.StudentFeeID = uuid.New()
	}
	return nil
}

func (m StudentFeeModel) Outstanding() int64 {
	if d := m.StudentFeeTotalFee - m.StudentFeePaidAmount; d > 0 {
		return d
	}
	return 0
}

// FeePaymentModel tracks one gateway checkout. OrderID doubles as the Midtrans order_id.
type FeePaymentModel struct {
	FeePaymentID          uuid.UUID      `gorm:"column:fee_payment_id;type:uuid;primaryKey" json:"id"`
	FeePaymentOrderID     string         `gorm:"column:fee_payment_order_id;type:varchar(64);not null;uniqueIndex" json:"orderId"`
	FeePaymentStudentID   uuid.UUID      `gorm:"column:fee_payment_student_id;type:uuid;not null;index" json:"studentId"`
	FeePaymentSchoolID    uuid.UUID      `gorm:"column:fee_payment_school_id;type:uuid;not null;index" json:"schoolId"`
	FeePaymentAmount      int64          `gorm:"column:fee_payment_amount;not null" json:"amount"`
	FeePaymentStatus      string         `gorm:"column:fee_payment_status;type:varchar(10);not null" json:"status"`
	FeePaymentSnapToken   *string        `gorm:"column:fee_payment_snap_token;type:text" json:"snapToken,omitempty"`
	FeePaymentRedirectURL *string        `gorm:"column:fee_payment_redirect_url;type:text" json:"redirectUrl,omitempty"`
	FeePaymentRaw         datatypes.JSON `gorm:"column:fee_payment_raw" json:"-"`
	FeePaymentSettledAt   *time.Time     `gorm:"column:fee_payment_settled_at" json:"settledAt,omitempty"`
	FeePaymentCreatedAt   time.Time      `gorm:"column:fee_payment_created_at;autoCreateTime" json:"createdAt"`
	FeePaymentUpdatedAt   time.Time      `gorm:"column:fee_payment_updated_at;autoUpdateTime" json:"updatedAt"`
}

func (FeePaymentModel) TableName() string { return "fee_payments" }

func (m *FeePaymentModel) BeforeCreate(*gorm.DB) error {
	if m.FeePaymentID == uuid.Nil {
		m.FeePaymentID = uuid.New()
	}
	return nil
}
