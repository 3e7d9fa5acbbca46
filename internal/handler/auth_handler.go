package handler

import (
	"net/http"
	"regexp"
	"time"

	"spot-service/internal/middleware"
	"spot-service/internal/model"
	"spot-service/pkg/database"
	"spot-service/pkg/jwtutil"
	"spot-service/pkg/logger"
	"spot-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// SignupRequest defines the structure for signup requests
type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func validateSignup(req *SignupRequest) map[string]string {
	errs := map[string]string{}
	if len(req.Username) < 4 || len(req.Username) > 30 {
		errs["username"] = "username must be between 4 and 30 characters"
	} else if emailPattern.MatchString(req.Username) {
		errs["username"] = "username cannot be an email"
	}
	if !emailPattern.MatchString(req.Email) {
		errs["email"] = "invalid email"
	}
	if len(req.Password) < 6 {
		errs["password"] = "password must be at least 6 characters"
	}
	if len(req.FirstName) < 1 || len(req.FirstName) > 50 {
		errs["first_name"] = "first name is required"
	}
	if len(req.LastName) < 1 || len(req.LastName) > 50 {
		errs["last_name"] = "last name is required"
	}
	return errs
}

// Signup handles new user registration
func Signup(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse signup request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if errs := validateSignup(&req); len(errs) > 0 {
		log.Warn("Signup validation failed", zap.Any("errors", errs))
		prometheus.RecordAuthError("invalid_signup")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid signup data", "errors": errs})
	}

	// Check if user already exists - track DB query
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	database.GetDB().Model(&model.User{}).
		Where("email = ? OR username = ?", req.Email, req.Username).
		Count(&count)
	if count > 0 {
		log.Warn("User already exists",
			zap.String("email", req.Email),
			zap.String("username", req.Username))
		prometheus.RecordAuthError("user_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "user with that email or username already exists"})
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	// Create new user
	user := model.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	token, err := jwtutil.GenerateToken(user.Email, user.Username, user.ID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}
	setSessionCookie(c, token)

	log.Info("User registered",
		zap.String("email", user.Email),
		zap.String("username", user.Username))
	return c.JSON(http.StatusCreated, echo.Map{"user": user})
}

// Login authenticates a user by username or email and starts a session
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req struct {
		Credential string `json:"credential"`
		Password   string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	// Find user in database - track DB operation duration
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().
		Where("email = ? OR username = ?", req.Credential, req.Credential).
		First(&user)
	if result.Error != nil {
		log.Warn("User not found", zap.String("credential", req.Credential))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("credential", req.Credential))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := jwtutil.GenerateToken(user.Email, user.Username, user.ID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}
	setSessionCookie(c, token)

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("username", user.Username))
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// Logout clears the session cookie
func Logout(c echo.Context) error {
	log := logger.FromContext(c)

	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	}
	c.SetCookie(cookie)

	log.Info("User logged out")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// CurrentUser returns the authenticated user
func CurrentUser(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var user model.User
	if result := database.GetDB().First(&user, userID); result.Error != nil {
		log.Error("User not found", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   middleware.SessionCookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
