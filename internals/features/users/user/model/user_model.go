package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel merepresentasikan tabel users di database
type UserModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserName  string         `gorm:"column:user_name;size:100;not null" json:"name"`
	Email     string         `gorm:"size:255;not null;uniqueIndex:uq_users_email" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	GoogleID  *string        `gorm:"size:255" json:"-"`
	Role      string         `gorm:"type:varchar(20);not null;index" json:"role"`
	SchoolID  *uuid.UUID     `gorm:"type:uuid;index" json:"schoolId"`
	Mobile    *string        `gorm:"size:20" json:"mobile,omitempty"`
	IsActive  bool           `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserLite is the public projection embedded in other responses.
type UserLite struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Mobile *string   `json:"mobile,omitempty"`
}

func (u UserModel) Lite() UserLite {
	return UserLite{ID: u.ID, Name: u.UserName, Email: u.Email, Mobile: u.Mobile}
}
