package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetbook/internal/config"
	apperrors "budgetbook/internal/errors"
	"budgetbook/internal/middleware"
	"budgetbook/internal/models"
	"budgetbook/internal/services"
)

// AuthHandler handles registration, login, and account management requests.
type AuthHandler struct {
	userService    services.UserServicer
	sessionService services.SessionServicer
	auditService   services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer, sessionService services.SessionServicer, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionService: sessionService,
		auditService:   auditService,
	}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest represents the profile update request payload.
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email,max=255"`
}

// UpdatePasswordRequest represents the password change request payload.
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,max=128"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func userJSON(user *models.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	}
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with email, name, and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} UserResponse "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate email"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Name, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "REGISTER", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    userJSON(user),
	})
}

// Login authenticates a user and issues a session cookie
// @Summary     Login user
// @Description Verify credentials, create a server-side session, and set the session cookie
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} UserResponse "Session created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	session, err := h.sessionService.Create(user.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	middleware.SetSessionCookie(c, session.Token, int(config.Get().SessionLifetime.Seconds()))

	h.auditService.Log(user.ID, "LOGIN", "session", session.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    userJSON(user),
	})
}

// Logout destroys the current session
// @Summary     Logout user
// @Description Delete the current session and clear the cookie. Safe to call without a session.
// @Tags        auth
// @Produce     json
// @Success     200 {object} map[string]string "Logged out"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(config.SessionCookieName)
	if token != "" {
		if err := h.sessionService.Delete(token); err != nil {
			respondWithError(c, err)
			return
		}
	}

	middleware.ClearSessionCookie(c)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me resolves the current session to its user
// @Summary     Get current user
// @Description Resolve the session cookie to the authenticated user's profile
// @Tags        auth
// @Produce     json
// @Success     200 {object} UserResponse "Authenticated user"
// @Failure     401 {object} ErrorResponse "Unauthenticated or expired session"
// @Router      /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          userJSON(user),
	})
}

// UpdateUser changes the current user's name and email
// @Summary     Update profile
// @Description Change the authenticated user's name and email
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body UpdateUserRequest true "New name and email"
// @Success     200 {object} UserResponse "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthenticated"
// @Failure     409 {object} ErrorResponse "Email in use"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/update-user [patch]
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateProfile(userID, req.Name, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_USER", "user", userID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "email": req.Email})

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// UpdatePassword changes the current user's password
// @Summary     Update password
// @Description Change the authenticated user's password after verifying the old one
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body UpdatePasswordRequest true "Old and new passwords"
// @Success     200 {object} map[string]string "Password updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Wrong old password"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/update-password [patch]
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.userService.UpdatePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PASSWORD", "user", userID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// Deactivate deletes the current user's account and all owned data
// @Summary     Deactivate account
// @Description Delete the authenticated user together with their items, budgets, and sessions
// @Tags        auth
// @Produce     json
// @Success     200 {object} map[string]string "Account deactivated"
// @Failure     401 {object} ErrorResponse "Unauthenticated"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/deactivate [delete]
func (h *AuthHandler) Deactivate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.Deactivate(userID); err != nil {
		respondWithError(c, err)
		return
	}

	middleware.ClearSessionCookie(c)

	h.auditService.Log(userID, "DEACTIVATE", "user", userID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "User account deactivated"})
}
