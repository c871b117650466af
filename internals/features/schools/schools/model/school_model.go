package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SchoolModel struct {
	SchoolID        uuid.UUID      `gorm:"column:school_id;type:uuid;primaryKey" json:"id"`
	SchoolName      string         `gorm:"column:school_name;type:varchar(160);not null" json:"name"`
	SchoolAddress   string         `gorm:"column:school_address;type:text;not null" json:"address"`
	SchoolLocation  *string        `gorm:"column:school_location;type:varchar(160)" json:"location"`
	SchoolCreatedBy *uuid.UUID     `gorm:"column:school_created_by;type:uuid" json:"createdBy,omitempty"`
	SchoolCreatedAt time.Time      `gorm:"column:school_created_at;autoCreateTime" json:"createdAt"`
	SchoolUpdatedAt time.Time      `gorm:"column:school_updated_at;autoUpdateTime" json:"updatedAt"`
	SchoolDeletedAt gorm.DeletedAt `gorm:"column:school_deleted_at;index" json:"-"`
}

func (SchoolModel) TableName() string { return "schools" }

func (m *SchoolModel) BeforeCreate(*gorm.DB) error {
	if m.SchoolID == uuid.Nil {
		m.SchoolID = uuid.New()
	}
	return nil
}

// SchoolAdminModel links a SCHOOLADMIN user to the school they administer.
type SchoolAdminModel struct {
	SchoolAdminID        uuid.UUID `gorm:"column:school_admin_id;type:uuid;primaryKey" json:"id"`
	SchoolAdminSchoolID  uuid.UUID `gorm:"column:school_admin_school_id;type:uuid;not null;uniqueIndex:uq_school_admin" json:"schoolId"`
	SchoolAdminUserID    uuid.UUID `gorm:"column:school_admin_user_id;type:uuid;not null;uniqueIndex:uq_school_admin;index" json:"userId"`
	SchoolAdminCreatedAt time.Time `gorm:"column:school_admin_created_at;autoCreateTime" json:"createdAt"`
}

func (SchoolAdminModel) TableName() string { return "school_admins" }

func (m *SchoolAdminModel) BeforeCreate(*gorm.DB) error {
	if m.SchoolAdminID == uuid.Nil {
		m.SchoolAdminID = uuid.New()
	}
	return nil
}
