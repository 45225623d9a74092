package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/shopping-backend/pkg/aws"
	apperrors "github.com/yashrajoria/shopping-backend/services/common/errors"

	"github.com/yashrajoria/shopping-backend/services/user-service/models"
	"github.com/yashrajoria/shopping-backend/services/user-service/repository"
)

const imageUploadExpiry = 15 * time.Minute

// ImagePresigner is satisfied by pkg/aws.S3Presigner.
type ImagePresigner interface {
	PresignPut(ctx context.Context, bucket, key, contentType string, expiry time.Duration) (awspkg.PresignedUpload, error)
}

// ImageUploader is satisfied by pkg/aws.S3Uploader.
type ImageUploader interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) (string, error)
}

// ImageStore is where profile images live. Either client may be nil, which
// turns the matching endpoint into a 503.
type ImageStore struct {
	Bucket    string
	Presigner ImagePresigner
	Uploader  ImageUploader
}

type UserService interface {
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]models.User, error)
	UpdateUser(ctx context.Context, userID uint, req *models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, userID uint) error
	CreateImageUploadURL(ctx context.Context, userID uint, contentType string) (*awspkg.PresignedUpload, error)
	UploadImage(ctx context.Context, userID uint, contentType string, body io.Reader) (*models.User, error)
}

type userServiceImpl struct {
	repo   repository.UserRepository
	hasher PasswordHasher
	images ImageStore
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, hasher PasswordHasher, images ImageStore, logger *zap.Logger) UserService {
	return &userServiceImpl{
		repo:   repo,
		hasher: hasher,
		images: images,
		logger: logger,
	}
}

func (s *userServiceImpl) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.BadRequest("name must not be blank")
	}
	if len(req.Password) > MaxPasswordBytes {
		return nil, apperrors.BadRequest(ErrPasswordTooLong.Error())
	}

	email := models.NormalizeEmail(req.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("Email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	hashed, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:           name,
		Email:          email,
		PhoneNumber:    req.PhoneNumber,
		ImageURL:       req.ImageURL,
		Address:        req.Address,
		HashedPassword: hashed,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, s.mapError(err)
	}
	s.logger.Info("User created", zap.Uint("user_id", user.UserID))
	return user, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return user, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	users, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list users: %w", err))
	}
	return users, nil
}

// UpdateUser applies the set fields of req. A new password is re-hashed.
func (s *userServiceImpl) UpdateUser(ctx context.Context, userID uint, req *models.UpdateUserRequest) (*models.User, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperrors.BadRequest("name must not be blank")
	}
	if req.Password != nil && len(*req.Password) > MaxPasswordBytes {
		return nil, apperrors.BadRequest(ErrPasswordTooLong.Error())
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.mapError(err)
	}

	req.Apply(user)
	if req.Password != nil {
		hashed, err := s.hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = hashed
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, s.mapError(err)
	}
	s.logger.Info("User updated", zap.Uint("user_id", userID))
	return user, nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, userID uint) error {
	deleted, err := s.repo.Delete(ctx, userID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !deleted {
		return apperrors.NotFound("User not found")
	}
	s.logger.Info("User deleted", zap.Uint("user_id", userID))
	return nil
}

// CreateImageUploadURL presigns a PUT for a new profile image object. The
// client stores the resulting URL through UpdateUser once the upload is done.
func (s *userServiceImpl) CreateImageUploadURL(ctx context.Context, userID uint, contentType string) (*awspkg.PresignedUpload, error) {
	if s.images.Presigner == nil || s.images.Bucket == "" {
		return nil, apperrors.Unavailable("Image uploads are not configured")
	}
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return nil, s.mapError(err)
	}

	upload, err := s.images.Presigner.PresignPut(ctx, s.images.Bucket, imageKey(userID, contentType), contentType, imageUploadExpiry)
	if err != nil {
		s.logger.Error("Failed to presign image upload", zap.Uint("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal(err)
	}
	return &upload, nil
}

// UploadImage stores body as the user's profile image and points image_url
// at the new object.
func (s *userServiceImpl) UploadImage(ctx context.Context, userID uint, contentType string, body io.Reader) (*models.User, error) {
	if s.images.Uploader == nil || s.images.Bucket == "" {
		return nil, apperrors.Unavailable("Image uploads are not configured")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.mapError(err)
	}

	location, err := s.images.Uploader.Upload(ctx, s.images.Bucket, imageKey(userID, contentType), contentType, body)
	if err != nil {
		s.logger.Error("Failed to upload image", zap.Uint("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal(err)
	}
	user.ImageURL = &location
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, s.mapError(err)
	}
	s.logger.Info("User image uploaded", zap.Uint("user_id", userID), zap.String("location", location))
	return user, nil
}

func (s *userServiceImpl) hash(password string) (string, error) {
	hashed, err := s.hasher.Hash(password)
	if errors.Is(err, ErrPasswordTooLong) {
		return "", apperrors.BadRequest(err.Error())
	}
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	return hashed, nil
}

func imageKey(userID uint, contentType string) string {
	return path.Join("users", fmt.Sprint(userID), uuid.NewString()+imageExtension(contentType))
}

func imageExtension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ""
}

func (s *userServiceImpl) mapError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound("User not found")
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperrors.Conflict("Email already registered")
	}
	return apperrors.Internal(err)
}
