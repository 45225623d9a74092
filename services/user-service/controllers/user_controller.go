package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yashrajoria/shopping-backend/services/common/errors"

	"github.com/yashrajoria/shopping-backend/services/user-service/models"
	"github.com/yashrajoria/shopping-backend/services/user-service/services"
)

type UserController struct {
	userService services.UserService
	maxLimit    int
}

func NewUserController(userService services.UserService, maxLimit int) *UserController {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &UserController{userService: userService, maxLimit: maxLimit}
}

// CreateUser handles POST /users
func (uc *UserController) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}
	user, err := uc.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewUserResponse(user))
}

// ListUsers handles GET /users
func (uc *UserController) ListUsers(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		apperrors.Respond(c, apperrors.BadRequest("skip must be a non-negative integer"))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(min(100, uc.maxLimit))))
	if err != nil || limit < 1 || limit > uc.maxLimit {
		apperrors.Respond(c, apperrors.BadRequest(fmt.Sprintf("limit must be between 1 and %d", uc.maxLimit)))
		return
	}

	users, err := uc.userService.ListUsers(c.Request.Context(), skip, limit)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	out := make([]models.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, models.NewUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetUser handles GET /users/:user_id
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	user, err := uc.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewUserResponse(user))
}

// UpdateUser handles PUT /users/:user_id
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}
	user, err := uc.userService.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewUserResponse(user))
}

// DeleteUser handles DELETE /users/:user_id
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := uc.userService.DeleteUser(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateImageUploadURL handles POST /users/:user_id/image-upload-url
func (uc *UserController) CreateImageUploadURL(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req models.ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}
	upload, err := uc.userService.CreateImageUploadURL(c.Request.Context(), id, req.ContentType)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// MaxImageBytes bounds a server-side profile image upload.
const MaxImageBytes = 5 << 20

// UploadImage handles PUT /users/:user_id/image with a multipart "image" file.
func (uc *UserController) UploadImage(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageBytes+1<<10)

	header, err := c.FormFile("image")
	if err != nil {
		apperrors.Respond(c, apperrors.BadRequest("image: "+err.Error()))
		return
	}
	if header.Size > MaxImageBytes {
		apperrors.Respond(c, apperrors.New(http.StatusRequestEntityTooLarge, "image must be at most 5 MiB", nil))
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		apperrors.Respond(c, apperrors.BadRequest("image must have an image/* content type"))
		return
	}

	file, err := header.Open()
	if err != nil {
		apperrors.Respond(c, apperrors.BadRequest("image: "+err.Error()))
		return
	}
	defer file.Close()

	user, err := uc.userService.UploadImage(c.Request.Context(), id, contentType, file)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewUserResponse(user))
}

func userIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil || id == 0 {
		apperrors.Respond(c, apperrors.BadRequest("user_id must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}
