package domain

var (
	MessageSuccessRegister      = "user registered successfully"
	MessageSuccessLogin         = "user logged in successfully"
	MessageSuccessGetUser       = "user retrieved successfully"
	MessageSuccessGetProfile    = "profile retrieved successfully"
	MessageSuccessUpdateProfile = "profile updated successfully"

	MessageFailedRegister      = "failed to register user"
	MessageFailedLogin         = "failed to login"
	MessageFailedGetUser       = "failed to retrieve user"
	MessageFailedGetProfile    = "failed to retrieve profile"
	MessageFailedUpdateProfile = "failed to update profile"

	ErrUserNotFound       = NewError(ErrNotFound, "user not found")
	ErrUsernameTaken      = NewError(ErrConflict, "username or email already registered")
	ErrInvalidCredentials = NewError(ErrUnauthorized, "invalid username or password")
)

type (
	RegisterRequest struct {
		Username string `json:"username" validate:"required,min=3,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}

	ProfileResponse struct {
		PreferredShoppingDay       *int   `json:"preferred_shopping_day"`
		PreferredShoppingFrequency string `json:"preferred_shopping_frequency"`
	}

	UserResponse struct {
		ID       string          `json:"id"`
		Username string          `json:"username"`
		Email    string          `json:"email"`
		Role     string          `json:"role"`
		Profile  ProfileResponse `json:"profile"`
	}

	// UpdateProfileRequest: shopping day runs 0 (Monday) to 6 (Sunday).
	UpdateProfileRequest struct {
		PreferredShoppingDay       *int   `json:"preferred_shopping_day" validate:"omitempty,min=0,max=6"`
		PreferredShoppingFrequency string `json:"preferred_shopping_frequency" validate:"omitempty,oneof=WEEKLY FORTNIGHTLY MONTHLY CUSTOM"`
	}
)
