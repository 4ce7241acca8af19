package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avdonin/record-store/internal/config"
	"github.com/avdonin/record-store/internal/model"
	"github.com/avdonin/record-store/internal/repository"
)

// UserAdminHandler covers the director's user management: listing
// accounts, creating staff with an explicit role, and deactivating
// accounts. There is no hard delete; deactivation keeps the purchase
// history referable.
type UserAdminHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserAdminHandler(cfg config.Config, users *repository.UserRepo) *UserAdminHandler {
	if users == nil {
		panic("nil repository passed to NewUserAdminHandler")
	}
	return &UserAdminHandler{Cfg: cfg, Users: users}
}

type adminUserReq struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	FullName string  `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

type adminUserResp struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
	FullName string  `json:"full_name"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	IsActive bool    `json:"is_active"`
}

func toAdminUserResp(u model.User) adminUserResp {
	return adminUserResp{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		FullName: u.FullName,
		Email:    u.Email,
		Phone:    u.Phone,
		IsActive: u.IsActive,
	}
}

// ListUsers handles GET /v1/users.
func (h *UserAdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]adminUserResp, 0, len(users))
	for _, u := range users {
		out = append(out, toAdminUserResp(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// CreateUser handles POST /v1/users: the director creates an account
// with any role, which is how sellers and further directors come to
// exist.
func (h *UserAdminHandler) CreateUser(c echo.Context) error {
	var req adminUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Username == "" || req.Password == "" || req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password/full_name required"})
	}
	if !model.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be buyer, seller or director"})
	}

	id, err := h.Users.Create(c.Request().Context(), req.Username, req.Password, req.Role, req.FullName, req.Email, req.Phone, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, adminUserResp{
		ID:       id,
		Username: req.Username,
		Role:     req.Role,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		IsActive: true,
	})
}

// SetUserActive handles PATCH /v1/users/:id/active with body
// {"is_active": bool}. A deactivated user fails the next login with
// the generic credentials error; existing access tokens expire on
// their own.
func (h *UserAdminHandler) SetUserActive(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil || body.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active required"})
	}

	// The director cannot deactivate their own account; that would
	// leave the store without anyone able to undo it.
	if self, err := getUserID(c); err == nil && self == id && !*body.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot deactivate own account"})
	}

	if err := h.Users.SetActive(c.Request().Context(), id, *body.IsActive); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toAdminUserResp(u))
}
