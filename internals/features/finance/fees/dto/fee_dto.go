package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"schoolhub_backend/internals/features/finance/fees/model"
)

// UpsertStudentFeeRequest: PUT /api/fees/student/:studentId
type UpsertStudentFeeRequest struct {
	TotalFee   int64   `json:"totalFee" validate:"gte=0"`
	PaidAmount int64   `json:"paidAmount" validate:"gte=0,ltefield=TotalFee"`
	DueDate    *string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
}

// PayRequest: POST /api/fees/pay
type PayRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// MidtransNotification is the subset of the HTTP notification body we act on.
type MidtransNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}

type FeeView struct {
	ID          uuid.UUID       `json:"id"`
	StudentID   uuid.UUID       `json:"studentId"`
	StudentName string          `json:"studentName,omitempty"`
	SchoolID    uuid.UUID       `json:"schoolId"`
	TotalFee    int64           `json:"totalFee"`
	PaidAmount  int64           `json:"paidAmount"`
	Outstanding int64           `json:"outstanding"`
	DueDate     *datatypes.Date `json:"dueDate"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func NewFeeView(m model.StudentFeeModel, studentName string) FeeView {
	return FeeView{
		ID:          m.StudentFeeID,
		StudentID:   m.StudentFeeStudentID,
		StudentName: studentName,
		SchoolID:    m.StudentFeeSchoolID,
		TotalFee:    m.StudentFeeTotalFee,
		PaidAmount:  m.StudentFeePaidAmount,
		Outstanding: m.Outstanding(),
		DueDate:     m.StudentFeeDueDate,
		UpdatedAt:   m.StudentFeeUpdatedAt,
	}
}
