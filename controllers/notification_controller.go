package controllers

import (
	"io"
	"net/http"
	"time"

	"storefront/models"

	"github.com/gin-gonic/gin"
)

const streamHeartbeat = 15 * time.Second

type NotificationController struct{}

// GetNotifications godoc
// @Summary Active notifications
// @Description Unexpired notifications, oldest first
// @Tags Notifications
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Notification}
// @Router /notifications [get]
func (ctrl *NotificationController) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Notifications retrieved",
		Data:    storefront(c).Notifications.Active(),
	})
}

// DismissNotification godoc
// @Summary Dismiss notification
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /notifications/{id} [delete]
func (ctrl *NotificationController) DismissNotification(c *gin.Context) {
	if !storefront(c).Notifications.Dismiss(c.Param("id")) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Message: "Notification not found",
		})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Notification dismissed",
	})
}

// StreamNotifications godoc
// @Summary Live notifications
// @Description Server-sent events; one "notification" event per message
// @Tags Notifications
// @Produce text/event-stream
// @Success 200 {object} models.Notification
// @Router /notifications/stream [get]
func (ctrl *NotificationController) StreamNotifications(c *gin.Context) {
	events, cancel := storefront(c).Notifications.Subscribe(16)
	defer cancel()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case n, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("notification", n)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"time": time.Now().UTC()})
			return true
		}
	})
}
