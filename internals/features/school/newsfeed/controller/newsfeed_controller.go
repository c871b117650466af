package controller

import (
	"context"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/newsfeed/dto"
	"schoolhub_backend/internals/features/school/newsfeed/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type NewsFeedController struct {
	DB        *gorm.DB
	Cache     *cache.Aside
	Validator *validator.Validate
	UploadDir string
	// PublicBaseURL prefixes stored upload paths, e.g. https://api.example.com
	PublicBaseURL string
}

func NewNewsFeedController(db *gorm.DB, ca *cache.Aside) *NewsFeedController {
	return &NewsFeedController{
		DB:            db,
		Cache:         ca,
		Validator:     helper.NewValidator(),
		UploadDir:     configs.GetEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: strings.TrimRight(configs.GetEnv("PUBLIC_BASE_URL"), "/"),
	}
}

func feedKey(schoolID uuid.UUID) string { return cache.Key("newsFeeds", schoolID.String()) }

// GET /api/newsfeed/list
func (nc *NewsFeedController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	feeds, err := cache.Remember(ctx, nc.Cache, feedKey(schoolID), func(ctx context.Context) ([]dto.NewsFeedView, error) {
		return nc.load(ctx, schoolID)
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch news feed")
	}
	return helper.JsonList(c, "newsFeeds", feeds)
}

func (nc *NewsFeedController) load(ctx context.Context, schoolID uuid.UUID) ([]dto.NewsFeedView, error) {
	var rows []model.NewsFeedModel
	if err := nc.DB.WithContext(ctx).
		Where("news_feed_school_id = ?", schoolID).
		Order("news_feed_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dto.NewsFeedView, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.NewsFeedCreatedBy)
	}
	var users []userModel.UserModel
	if err := nc.DB.WithContext(ctx).Unscoped().Select("id", "user_name", "role").
		Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	authors := make(map[uuid.UUID]dto.AuthorRef, len(users))
	for _, u := range users {
		authors[u.ID] = dto.AuthorRef{ID: u.ID, Name: u.UserName, Role: u.Role}
	}
	for _, r := range rows {
		var a *dto.AuthorRef
		if ref, ok := authors[r.NewsFeedCreatedBy]; ok {
			a = &ref
		}
		out = append(out, dto.NewNewsFeedView(r, a))
	}
	return out, nil
}

// POST /api/newsfeed/create
func (nc *NewsFeedController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	var req dto.CreateNewsFeedRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := nc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	feed := model.NewsFeedModel{
		NewsFeedSchoolID:    schoolID,
		NewsFeedTitle:       req.Title,
		NewsFeedDescription: req.Description,
		NewsFeedMediaURL:    req.MediaURL,
		NewsFeedMediaType:   req.MediaType,
		NewsFeedCreatedBy:   userID,
	}
	if err := nc.DB.WithContext(ctx).Create(&feed).Error; err != nil {
		log.Printf("[NEWSFEED] create: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create post")
	}
	nc.Cache.Forget(ctx, feedKey(schoolID))
	return helper.JsonKeyed(c, fiber.StatusCreated, "Post created", "newsFeed", feed)
}

// findOwned loads a post of the school the caller may edit: its author or a school admin.
func (nc *NewsFeedController) findOwned(c *fiber.Ctx, schoolID uuid.UUID) (*model.NewsFeedModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return nil, err
	}
	var feed model.NewsFeedModel
	if err := nc.DB.WithContext(c.UserContext()).
		Where("news_feed_id = ? AND news_feed_school_id = ?", id, schoolID).
		Take(&feed).Error; err != nil {
		if helper.IsNotFound(err) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Post not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load post")
	}
	if feed.NewsFeedCreatedBy != sess.UserID && sess.Role != constants.RoleSchoolAdmin {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only the author or a school admin can change this post")
	}
	return &feed, nil
}

// PUT /api/newsfeed/:id
func (nc *NewsFeedController) Update(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	feed, err := nc.findOwned(c, schoolID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.UpdateNewsFeedRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := nc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	if changes := req.Changes(); len(changes) > 0 {
		if err := nc.DB.WithContext(ctx).Model(feed).Updates(changes).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update post")
		}
		nc.Cache.Forget(ctx, feedKey(schoolID))
	}
	if err := nc.DB.WithContext(ctx).Where("news_feed_id = ?", feed.NewsFeedID).Take(feed).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load post")
	}
	return helper.JsonKeyed(c, fiber.StatusOK, "Post updated", "newsFeed", feed)
}

// DELETE /api/newsfeed/:id
func (nc *NewsFeedController) Delete(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	feed, err := nc.findOwned(c, schoolID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ctx := c.UserContext()
	if err := nc.DB.WithContext(ctx).Delete(feed).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete post")
	}
	nc.Cache.Forget(ctx, feedKey(schoolID))
	return helper.JsonOK(c, "Post deleted", fiber.Map{"id": feed.NewsFeedID})
}

// POST /api/newsfeed/media (multipart "file")
func (nc *NewsFeedController) UploadMedia(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	if !constants.IsDecodableImageExt(fh.Filename) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Only png, jpg or webp images can be uploaded")
	}

	rel, err := helper.SaveImageAsWebP(fh, nc.UploadDir, "newsfeed/"+schoolID.String())
	if err != nil {
		log.Printf("[NEWSFEED] upload: %v", err)
		return helper.JsonError(c, fiber.StatusBadRequest, "Failed to process image")
	}
	url := nc.PublicBaseURL + "/uploads/" + rel
	return helper.JsonCreated(c, "Media uploaded", fiber.Map{
		"mediaUrl":  url,
		"mediaType": constants.MediaTypeImage,
	})
}
