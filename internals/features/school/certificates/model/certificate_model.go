package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CertificateModel struct {
	CertificateID          uuid.UUID `gorm:"column:certificate_id;type:uuid;primaryKey" json:"id"`
	CertificateSchoolID    uuid.UUID `gorm:"column:certificate_school_id;type:uuid;not null;index" json:"schoolId"`
	CertificateStudentID   uuid.UUID `gorm:"column:certificate_student_id;type:uuid;not null;index" json:"studentId"`
	CertificateTitle       string    `gorm:"column:certificate_title;type:varchar(160);not null" json:"title"`
	CertificateDescription *string   `gorm:"column:certificate_description;type:text" json:"description"`
	CertificateURL         *string   `gorm:"column:certificate_url;type:text" json:"certificateUrl"`
	CertificateIssuedByID  uuid.UUID `gorm:"column:certificate_issued_by_id;type:uuid;not null" json:"issuedById"`
	CertificateIssuedDate  time.Time `gorm:"column:certificate_issued_date;not null" json:"issuedDate"`
	CertificateCreatedAt   time.Time `gorm:"column:certificate_created_at;autoCreateTime" json:"createdAt"`
}

func (CertificateModel) TableName() string { return "certificates" }

func (m *CertificateModel) BeforeCreate(*gorm.DB) error {
	if m.CertificateID == uuid.Nil {
		m.CertificateID = uuid.New()
	}
	return nil
}
