package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/repository"
	"github.com/iliyamo/restaurant-pos/internal/utils"
)

// AuthHandler implements staff registration and login.  Staff sessions are
// access-token only: terminals re-login when a token expires, which keeps
// the auth surface small for a device that is always at hand.
type AuthHandler struct {
	StaffRepo    *repository.StaffRepo
	JWTSecret    string
	AccessTTLMin int
	BcryptCost   int
}

// NewAuthHandler constructs an AuthHandler.  The repository must be non-nil.
func NewAuthHandler(staffRepo *repository.StaffRepo, jwtSecret string, accessTTLMin, bcryptCost int) *AuthHandler {
	if staffRepo == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{
		StaffRepo:    staffRepo,
		JWTSecret:    jwtSecret,
		AccessTTLMin: accessTTLMin,
		BcryptCost:   bcryptCost,
	}
}

// Register handles POST /v1/auth/register.  It creates a staff account with
// a bcrypt-hashed password.  Role defaults to SERVER; MANAGER must be
// requested explicitly.  Returns 409 when the email is already taken.
func (h *AuthHandler) Register(c echo.Context) error {
	var body struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
		Role        string `json:"role"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || len(body.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and a password of at least 8 characters are required"})
	}
	role := strings.ToUpper(strings.TrimSpace(body.Role))
	if role == "" {
		role = model.RoleServer
	}
	if role != model.RoleServer && role != model.RoleManager {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	ctx := c.Request().Context()
	if _, err := h.StaffRepo.GetByEmail(ctx, body.Email); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	} else if !errors.Is(err, repository.ErrStaffNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	hash, err := utils.HashPassword(body.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to hash password"})
	}
	staff := &model.Staff{
		Email:        body.Email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(body.DisplayName),
		Role:         role,
	}
	if err := h.StaffRepo.Create(ctx, staff); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create account"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":    staff.ID,
		"email": staff.Email,
		"role":  staff.Role,
	})
}

// Login handles POST /v1/auth/login.  It verifies the password and issues a
// signed access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))

	staff, err := h.StaffRepo.GetByEmail(c.Request().Context(), body.Email)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !utils.VerifyPassword(staff.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := utils.NewAccessToken(h.JWTSecret, staff.ID, staff.Role, h.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sign token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
		"role":         staff.Role,
		"display_name": staff.DisplayName,
	})
}

// Me handles GET /v1/me.  It returns the authenticated staff member's
// profile.
func (h *AuthHandler) Me(c echo.Context) error {
	staffID, err := getStaffID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	staff, err := h.StaffRepo.GetByID(c.Request().Context(), staffID)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":           staff.ID,
		"email":        staff.Email,
		"display_name": staff.DisplayName,
		"role":         staff.Role,
	})
}
