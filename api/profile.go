package api

import (
	"strings"

	"utsav/database"
	"utsav/middleware"
	"utsav/models"

	"github.com/gin-gonic/gin"
)

// ProfileHandler the profile screen
type ProfileHandler struct{}

// NewProfileHandler creates the profile handler
func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// ProfileResponse profile with the account email
type ProfileResponse struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// UpdateProfileRequest profile form
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"Asha Verma"`
}

// Get returns the current user's profile
// @Summary Get profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=ProfileResponse}
// @Failure 401 {object} Response
// @Router /api/v1/profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	resp := ProfileResponse{UserID: userID, Email: middleware.GetCurrentEmail(c)}
	profile, err := database.Profiles.Get(c.Request.Context(), database.Filter{"user_id": userID})
	switch {
	case err == nil:
		resp.Name = profile.Name
	case !isNotFound(err):
		storeError(c, err, "", "failed to load profile")
		return
	}
	Success(c, resp)
}

// Update sets the display name, creating the profile when missing
// @Summary Update profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "profile"
// @Success 200 {object} Response{data=ProfileResponse}
// @Failure 400 {object} Response
// @Router /api/v1/profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	ctx := c.Request.Context()

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid profile"))
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		BadRequest(c, "name is required")
		return
	}

	_, err := database.Profiles.Get(ctx, database.Filter{"user_id": userID})
	switch {
	case err == nil:
		_, err = database.Profiles.Update(ctx, map[string]any{"name": name}, database.Filter{"user_id": userID})
	case isNotFound(err):
		err = database.Profiles.Insert(ctx, &models.Profile{UserID: userID, Name: name})
	}
	if err != nil {
		storeError(c, err, "", "failed to update profile")
		return
	}

	SuccessWithMessage(c, "profile updated", ProfileResponse{
		UserID: userID,
		Email:  middleware.GetCurrentEmail(c),
		Name:   name,
	})
}
