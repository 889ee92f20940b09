package handlers

import (
	"opsmanual/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers handles user-related HTTP requests
type UserHandlers struct {
	userService services.UserService
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

type ChangePasswordRequest struct {
	Password string `json:"password"`
}

// ListUsers returns users of the caller's airline. Super admins may filter by
// airline_id or see every user.
func (h *UserHandlers) ListUsers(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	airlineID, err := queryAirlineID(c)
	if err != nil {
		return err
	}

	users, err := h.userService.List(c.Request().Context(), identity, services.UserListFilter{
		AirlineID:       airlineID,
		IncludeInactive: queryBool(c, "include_inactive", "includeInactive"),
		Limit:           queryInt(c, "limit"),
		Offset:          queryInt(c, "offset"),
	})
	if err != nil {
		return err
	}
	return list(c, users)
}

func (h *UserHandlers) GetUser(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	user, err := h.userService.Get(c.Request().Context(), identity, id)
	if err != nil {
		return err
	}
	return ok(c, user)
}

// CreateUser handles user creation
func (h *UserHandlers) CreateUser(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req services.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.userService.Create(c.Request().Context(), identity, &req)
	if err != nil {
		return err
	}
	return created(c, user)
}

func (h *UserHandlers) UpdateUser(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	var req services.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.userService.Update(c.Request().Context(), identity, id, &req)
	if err != nil {
		return err
	}
	return ok(c, user)
}

// DeleteUser deactivates the user; rows are never removed.
func (h *UserHandlers) DeleteUser(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	if err := h.userService.Deactivate(c.Request().Context(), identity, id); err != nil {
		return err
	}
	return message(c, "User deactivated successfully")
}

func (h *UserHandlers) ActivateUser(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	if err := h.userService.Activate(c.Request().Context(), identity, id); err != nil {
		return err
	}
	return message(c, "User activated successfully")
}

func (h *UserHandlers) ChangePassword(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	var req ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.userService.ChangePassword(c.Request().Context(), identity, id, req.Password); err != nil {
		return err
	}
	return message(c, "Password updated successfully")
}
