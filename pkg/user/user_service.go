package user

import (
	"context"
	"errors"
	"strings"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"
	"Grocery-Tracker/pkg/jwt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetProfile(ctx context.Context, userID string) (domain.ProfileResponse, error)
		UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest, userID string) (domain.ProfileResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		logger         *zap.Logger
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, logger *zap.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		logger:         logger,
	}
}

func toProfileResponse(p *entities.UserProfile) domain.ProfileResponse {
	if p == nil {
		return domain.ProfileResponse{PreferredShoppingFrequency: string(entities.FrequencyWeekly)}
	}
	return domain.ProfileResponse{
		PreferredShoppingDay:       p.PreferredShoppingDay,
		PreferredShoppingFrequency: string(p.PreferredShoppingFrequency),
	}
}

func toUserResponse(u *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Profile:  toProfileResponse(u.Profile),
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	username := strings.TrimSpace(req.Username)

	if _, err := s.userRepository.GetUserByUsername(ctx, username); err == nil {
		return domain.UserResponse{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := &entities.User{
		ID:       uuid.New(),
		Username: username,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashed),
		Role:     domain.RoleUser,
		Profile:  &entities.UserProfile{PreferredShoppingFrequency: entities.FrequencyWeekly},
	}

	if err := s.userRepository.RegisterUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.UserResponse{}, domain.ErrUsernameTaken
		}
		return domain.UserResponse{}, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return toUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

// profileFor loads the caller's profile, creating the default one for users
// registered before profiles existed.
func (s *userService) profileFor(ctx context.Context, userID string) (*entities.UserProfile, error) {
	profile, err := s.userRepository.GetProfileByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	profile = &entities.UserProfile{UserID: uid, PreferredShoppingFrequency: entities.FrequencyWeekly}
	if err := s.userRepository.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (domain.ProfileResponse, error) {
	profile, err := s.profileFor(ctx, userID)
	if err != nil {
		return domain.ProfileResponse{}, err
	}
	return toProfileResponse(profile), nil
}

func (s *userService) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest, userID string) (domain.ProfileResponse, error) {
	if req.PreferredShoppingDay != nil && (*req.PreferredShoppingDay < 0 || *req.PreferredShoppingDay > 6) {
		return domain.ProfileResponse{}, domain.NewFieldError("preferred_shopping_day", "must be between 0 and 6")
	}

	profile, err := s.profileFor(ctx, userID)
	if err != nil {
		return domain.ProfileResponse{}, err
	}

	if req.PreferredShoppingDay != nil {
		profile.PreferredShoppingDay = req.PreferredShoppingDay
	}
	if req.PreferredShoppingFrequency != "" {
		profile.PreferredShoppingFrequency = entities.ShoppingFrequency(req.PreferredShoppingFrequency)
	}

	if err := s.userRepository.UpdateProfile(ctx, profile); err != nil {
		return domain.ProfileResponse{}, err
	}
	return toProfileResponse(profile), nil
}
