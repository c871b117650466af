package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/newsfeed/model"
)

type CreateNewsFeedRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required"`
	MediaURL    *string `json:"mediaUrl" validate:"omitempty,url"`
	MediaType   *string `json:"mediaType" validate:"omitempty,oneof=IMAGE VIDEO FILE"`
}

func (r *CreateNewsFeedRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.MediaURL, r.MediaType = normalizeMedia(r.MediaURL, r.MediaType)
}

type UpdateNewsFeedRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	MediaURL    *string `json:"mediaUrl" validate:"omitempty,url"`
	MediaType   *string `json:"mediaType" validate:"omitempty,oneof=IMAGE VIDEO FILE"`
}

func (r *UpdateNewsFeedRequest) Normalize() {
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		r.Title = &t
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		r.Description = &d
	}
	r.MediaURL, r.MediaType = normalizeMedia(r.MediaURL, r.MediaType)
}

func (r UpdateNewsFeedRequest) Changes() map[string]any {
	m := map[string]any{}
	if r.Title != nil {
		m["news_feed_title"] = *r.Title
	}
	if r.Description != nil {
		m["news_feed_description"] = *r.Description
	}
	if r.MediaURL != nil {
		m["news_feed_media_url"] = *r.MediaURL
		m["news_feed_media_type"] = *r.MediaType
	}
	return m
}

// normalizeMedia fills the media type from the URL when only the URL is given.
func normalizeMedia(url, typ *string) (*string, *string) {
	if url == nil || strings.TrimSpace(*url) == "" {
		return nil, nil
	}
	u := strings.TrimSpace(*url)
	if typ == nil || strings.TrimSpace(*typ) == "" {
		t := constants.DetectMediaTypeFromExt(u)
		return &u, &t
	}
	t := strings.ToUpper(strings.TrimSpace(*typ))
	return &u, &t
}

type AuthorRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role"`
}

type NewsFeedView struct {
	ID          uuid.UUID  `json:"id"`
	SchoolID    uuid.UUID  `json:"schoolId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	MediaURL    *string    `json:"mediaUrl"`
	MediaType   *string    `json:"mediaType"`
	CreatedByID uuid.UUID  `json:"createdById"`
	CreatedBy   *AuthorRef `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func NewNewsFeedView(m model.NewsFeedModel, author *AuthorRef) NewsFeedView {
	return NewsFeedView{
		ID:          m.NewsFeedID,
		SchoolID:    m.NewsFeedSchoolID,
		Title:       m.NewsFeedTitle,
		Description: m.NewsFeedDescription,
		MediaURL:    m.NewsFeedMediaURL,
		MediaType:   m.NewsFeedMediaType,
		CreatedByID: m.NewsFeedCreatedBy,
		CreatedBy:   author,
		CreatedAt:   m.NewsFeedCreatedAt,
		UpdatedAt:   m.NewsFeedUpdatedAt,
	}
}
