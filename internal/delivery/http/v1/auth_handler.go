package v1

import (
	"errors"
	"net/http"
	"strings"

	"koryob-backend/internal/delivery/http/response"
	"koryob-backend/internal/domain"
	"koryob-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, limit gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/register", limit, handler.Register)
		publicAuth.POST("/login", limit, handler.Login)
		publicAuth.POST("/logout", handler.Logout)
		publicAuth.GET("/me", handler.Me)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.PATCH("/profile", handler.UpdateProfile)
		protectedAuth.POST("/password", handler.ChangePassword)
	}
}

type RegisterRequest struct {
	FirstName   string `json:"first_name" binding:"required,min=2,valid_name,no_emoji"`
	LastName    string `json:"last_name" binding:"required,min=2,valid_name,no_emoji"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	AccountType string `json:"account_type" binding:"required,oneof=seeker employer"`
	Phone       string `json:"phone" binding:"required,valid_phone"`
	BirthDate   string `json:"birth_date" binding:"required,past_date"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2,valid_name,no_emoji"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone" binding:"omitempty,valid_phone"`
	BirthDate *string `json:"birth_date" binding:"omitempty,past_date"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// Register godoc
// @Summary      User Registration
// @Description  Register a seeker or employer account and sign the calling client in.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      RegisterRequest  true  "Registration Details"
// @Success      201       {object}  response.Response{data=domain.User}
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Failure      429       {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	user, err := h.authUC.Register(c.Request.Context(), domain.RegisterInput{
		Name:        strings.TrimSpace(req.FirstName) + " " + strings.TrimSpace(req.LastName),
		Email:       req.Email,
		Password:    req.Password,
		AccountType: domain.AccountType(req.AccountType),
		Phone:       req.Phone,
		BirthDate:   req.BirthDate,
	})
	if errors.Is(err, domain.ErrSessionUnavailable) && user != nil {
		response.Success(c, http.StatusCreated, "Account created. Please sign in.", user)
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Registration successful", user)
}

// Login godoc
// @Summary      User Login
// @Description  Sign the calling client in with email and password.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Login Credentials"
// @Success      200    {object}  response.Response{data=domain.User}
// @Failure      401    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	user, err := h.authUC.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", user)
}

// Logout godoc
// @Summary      Logout
// @Description  Clear the calling client's session.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUC.Logout(c.Request.Context()); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current session
// @Description  Session state of the calling client: unknown, anonymous or authenticated.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Session}
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session := h.authUC.CurrentSession(c.Request.Context())
	response.Success(c, http.StatusOK, "Session", session)
}

// UpdateProfile godoc
// @Summary      Update profile
// @Description  Merge the given fields into the signed-in user.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        profile  body      UpdateProfileRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=domain.User}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /auth/profile [patch]
// @Security     ClientToken
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	user, err := h.authUC.UpdateProfile(c.Request.Context(), domain.ProfilePatch{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	if user == nil {
		_ = c.Error(apperror.Unauthorized("You need to sign in first."))
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", user)
}

// ChangePassword godoc
// @Summary      Change password
// @Description  Replace the signed-in user's password after checking the current one.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        password  body      ChangePasswordRequest  true  "Passwords"
// @Success      200       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Failure      401       {object}  response.Response
// @Router       /auth/password [post]
// @Security     ClientToken
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	if err := h.authUC.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Password changed", nil)
}
