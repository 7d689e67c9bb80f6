package controllers

import (
	"net/http"

	"storefront/models"

	"github.com/gin-gonic/gin"
)

type DevController struct{}

// GetFailMode godoc
// @Summary Get fail mode
// @Tags Development
// @Produce json
// @Success 200 {object} models.Response{data=models.FailModeResponse}
// @Router /dev/fail-mode [get]
func (ctrl *DevController) GetFailMode(c *gin.Context) {
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Fail mode retrieved",
		Data:    models.FailModeResponse{Enabled: storefront(c).Faults.Enabled()},
	})
}

// SetFailMode godoc
// @Summary Toggle fail mode
// @Description While enabled every simulated operation of this session fails
// @Tags Development
// @Accept json
// @Produce json
// @Param request body models.FailModeRequest true "Fail Mode Request"
// @Success 200 {object} models.Response{data=models.FailModeResponse}
// @Failure 400 {object} models.ErrorResponse
// @Router /dev/fail-mode [put]
func (ctrl *DevController) SetFailMode(c *gin.Context) {
	var req models.FailModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sf := storefront(c)
	sf.Faults.Set(*req.Enabled)

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Fail mode updated",
		Data:    models.FailModeResponse{Enabled: sf.Faults.Enabled()},
	})
}
