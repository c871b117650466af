package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NewsFeedModel struct {
	NewsFeedID          uuid.UUID      `gorm:"column:news_feed_id;type:uuid;primaryKey" json:"id"`
	NewsFeedSchoolID    uuid.UUID      `gorm:"column:news_feed_school_id;type:uuid;not null;index" json:"schoolId"`
	NewsFeedTitle       string         `gorm:"column:news_feed_title;type:varchar(200);not null" json:"title"`
	NewsFeedDescription string         `gorm:"column:news_feed_description;type:text;not null" json:"description"`
	NewsFeedMediaURL    *string        `gorm:"column:news_feed_media_url;type:text" json:"mediaUrl"`
	NewsFeedMediaType   *string        `gorm:"column:news_feed_media_type;type:varchar(10)" json:"mediaType"`
	NewsFeedCreatedBy   uuid.UUID      `gorm:"column:news_feed_created_by;type:uuid;not null" json:"createdById"`
	NewsFeedCreatedAt   time.Time      `gorm:"column:news_feed_created_at;autoCreateTime" json:"createdAt"`
	NewsFeedUpdatedAt   time.Time      `gorm:"column:news_feed_updated_at;autoUpdateTime" json:"updatedAt"`
	NewsFeedDeletedAt   gorm.DeletedAt `gorm:"column:news_feed_deleted_at;index" json:"-"`
}

func (NewsFeedModel) TableName() string { return "news_feeds" }

func (m *NewsFeedModel) BeforeCreate(*gorm.DB) error {
	if m.NewsFeedID == uuid.Nil {
		m.NewsFeedID = uuid.New()
	}
	return nil
}
