package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hakeemmukif/distraction-shop-v2/auth"
	"github.com/hakeemmukif/distraction-shop-v2/models"
	"github.com/hakeemmukif/distraction-shop-v2/store"
)

// UserHandler manages back-office accounts (superadmin only).
type UserHandler struct {
	users *store.Users
}

func NewUserHandler(users *store.Users) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /superadmin/users
func (h *UserHandler) List(c *gin.Context) {
	users := h.users.List()
	c.JSON(http.StatusOK, models.UsersResponse{Users: users, Total: len(users)})
}

// Create handles POST /superadmin/users
func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	user, err := h.users.Create(req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "USER_EXISTS",
				Message: "A user with this email already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "USER_ERROR",
			Message: "Failed to create user",
			Details: err.Error(),
		})
		return
	}

	log.Printf("Created %s user %s", user.Role, user.Email)

	c.JSON(http.StatusCreated, user)
}

// Update handles PUT /superadmin/users/:userId
func (h *UserHandler) Update(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	user, err := h.users.Update(c.Param("userId"), req)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "NOT_FOUND",
				Message: "User not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "USER_ERROR",
			Message: "Failed to update user",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /superadmin/users/:userId. Superadmins cannot delete
// themselves, so the last account with full access stays reachable.
func (h *UserHandler) Delete(c *gin.Context) {
	userID := c.Param("userId")

	if claims, ok := c.Get(auth.ContextUserKey); ok {
		if authClaims, ok := claims.(*auth.Claims); ok && authClaims.UserID == userID {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "SELF_DELETE",
				Message: "Cannot delete the account you are signed in with",
			})
			return
		}
	}

	if !h.users.Delete(userID) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "User not found",
		})
		return
	}

	c.Status(http.StatusNoContent)
}
