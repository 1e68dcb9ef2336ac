package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hakeemmukif/distraction-shop-v2/auth"
	"github.com/hakeemmukif/distraction-shop-v2/clients"
	"github.com/hakeemmukif/distraction-shop-v2/models"
	"github.com/hakeemmukif/distraction-shop-v2/schedule"
	"github.com/hakeemmukif/distraction-shop-v2/store"
)

// CatalogAdmin is the write side of the provider-backed catalog.
type CatalogAdmin interface {
	CreateProduct(req models.CreateProductRequest) (models.Product, error)
	UpdateProduct(id string, req models.UpdateProductRequest) (models.Product, error)
	DeactivateProduct(id string) error
}

// AdminHandler covers back-office login, schedule settings and catalog
// management.
type AdminHandler struct {
	users    *store.Users
	tokens   *auth.Manager
	settings *store.Settings
	catalog  CatalogAdmin
}

func NewAdminHandler(users *store.Users, tokens *auth.Manager, settings *store.Settings, catalog CatalogAdmin) *AdminHandler {
	return &AdminHandler{
		users:    users,
		tokens:   tokens,
		settings: settings,
		catalog:  catalog,
	}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "UNAUTHORIZED",
			Message: "Invalid email or password",
		})
		return
	}

	token, err := h.tokens.IssueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "TOKEN_ERROR",
			Message: "Failed to issue token",
		})
		return
	}

	log.Printf("Back-office login: %s (%s)", user.Email, user.Role)

	c.JSON(http.StatusOK, models.LoginResponse{Token: token, User: user})
}

// GetSchedule handles GET /admin/settings/schedule
func (h *AdminHandler) GetSchedule(c *gin.Context) {
	week, _ := h.settings.Schedule()
	c.JSON(http.StatusOK, models.ScheduleSettingsResponse{
		Schedule: week.Config(),
		Timezone: h.settings.Timezone(),
	})
}

// UpdateSchedule handles PUT /admin/settings/schedule. The schedule is
// validated before it replaces the live one; a bad submission leaves the
// current schedule untouched.
func (h *AdminHandler) UpdateSchedule(c *gin.Context) {
	var req models.ScheduleSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	week, err := schedule.FromConfig(req.Schedule)
	if err != nil {
		var cfgErr *schedule.ConfigError
		if errors.As(err, &cfgErr) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "INVALID_SCHEDULE",
				Message: "Schedule rejected",
				Details: cfgErr.Error(),
			})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_SCHEDULE",
			Message: "Schedule rejected",
			Details: err.Error(),
		})
		return
	}

	if err := h.settings.UpdateSchedule(week, req.Timezone); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_TIMEZONE",
			Message: "Timezone rejected",
			Details: err.Error(),
		})
		return
	}

	log.Printf("Shop schedule updated (timezone %s)", h.settings.Timezone())

	c.JSON(http.StatusOK, models.ScheduleSettingsResponse{
		Schedule: week.Config(),
		Timezone: h.settings.Timezone(),
	})
}

// CreateProduct handles POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	product, err := h.catalog.CreateProduct(req)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "UPSTREAM_ERROR",
			Message: "Failed to create product",
			Details: err.Error(),
		})
		return
	}

	log.Printf("Created product %s (%s)", product.ID, product.Name)

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /admin/products/:productId
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	product, err := h.catalog.UpdateProduct(c.Param("productId"), req)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "NOT_FOUND",
				Message: "Product not found",
			})
			return
		}
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "UPSTREAM_ERROR",
			Message: "Failed to update product",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /admin/products/:productId. Products are
// deactivated, not destroyed, so past orders keep their references.
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.DeactivateProduct(c.Param("productId")); err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "NOT_FOUND",
				Message: "Product not found",
			})
			return
		}
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "UPSTREAM_ERROR",
			Message: "Failed to deactivate product",
			Details: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
