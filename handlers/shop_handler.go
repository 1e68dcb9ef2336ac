package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hakeemmukif/distraction-shop-v2/models"
	"github.com/hakeemmukif/distraction-shop-v2/schedule"
	"github.com/hakeemmukif/distraction-shop-v2/store"
)

// ShopHandler serves the open/closed status and the manual override toggle.
type ShopHandler struct {
	settings *store.Settings
	override *schedule.OverrideState
	now      func() time.Time
}

func NewShopHandler(settings *store.Settings, override *schedule.OverrideState) *ShopHandler {
	return &ShopHandler{
		settings: settings,
		override: override,
		now:      time.Now,
	}
}

// GetStatus handles GET /shop/status
func (h *ShopHandler) GetStatus(c *gin.Context) {
	week, loc := h.settings.Schedule()
	now := h.now()
	status := week.Evaluate(loc, h.override.Get(), now)

	var next *string
	if status.NextTransition != nil {
		formatted := status.NextTransition.UTC().Format(time.RFC3339)
		next = &formatted
	}

	c.JSON(http.StatusOK, models.ShopStatusResponse{
		IsOpen:           status.IsOpen,
		Message:          statusMessage(status),
		NextStatusChange: next,
		CurrentTime:      now.UTC().Format(time.RFC3339),
		Schedule:         week.Config(),
	})
}

// GetOverride handles GET /admin/shop/override
func (h *ShopHandler) GetOverride(c *gin.Context) {
	c.JSON(http.StatusOK, models.OverrideResponse{
		Success:  true,
		Override: overrideWire(h.override.Get()),
		Message:  overrideMessage(h.override.Get()),
	})
}

// SetOverride handles POST /admin/shop/override. The wire value is true
// (force open), false (force closed) or null (follow the schedule).
func (h *ShopHandler) SetOverride(c *gin.Context) {
	var req models.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	value := schedule.UseSchedule
	switch {
	case req.Override == nil:
	case *req.Override:
		value = schedule.ForceOpen
	default:
		value = schedule.ForceClosed
	}
	h.override.Set(value)

	log.Printf("Shop override set: %s", overrideMessage(value))

	c.JSON(http.StatusOK, models.OverrideResponse{
		Success:  true,
		Override: overrideWire(value),
		Message:  overrideMessage(value),
	})
}

func statusMessage(status schedule.Status) string {
	switch {
	case status.Reason == schedule.ReasonManualOverride && status.IsOpen:
		return "Shop is open (manual override)"
	case status.Reason == schedule.ReasonManualOverride:
		return "Shop is closed (manual override)"
	case status.IsOpen:
		return "Shop is open"
	default:
		return "Shop is currently closed"
	}
}

func overrideWire(v schedule.Override) *bool {
	switch v {
	case schedule.ForceOpen:
		value := true
		return &value
	case schedule.ForceClosed:
		value := false
		return &value
	default:
		return nil
	}
}

func overrideMessage(v schedule.Override) string {
	switch v {
	case schedule.ForceOpen:
		return "Shop forced OPEN"
	case schedule.ForceClosed:
		return "Shop forced CLOSED"
	default:
		return "Using schedule"
	}
}
