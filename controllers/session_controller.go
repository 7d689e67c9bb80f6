package controllers

import (
	"net/http"

	"storefront/models"

	"github.com/gin-gonic/gin"
)

type SessionController struct{}

// GetSession godoc
// @Summary Session summary
// @Description Signed-in user, cart size, fail mode and pending notifications
// @Tags Session
// @Produce json
// @Success 200 {object} models.Response{data=models.SessionInfo}
// @Router /session [get]
func (ctrl *SessionController) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Session retrieved",
		Data:    storefront(c).Info(),
	})
}
