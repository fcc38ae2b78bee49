package handler

import (
	"net/http"

	"github.com/rirobledo1/POSAI-sub001/internal/apierror"
	"github.com/rirobledo1/POSAI-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// ResumenDiario godoc
// @Summary Resumen consolidado de ventas y pedidos por día
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param fecha query string false "Fecha YYYY-MM-DD, hoy por omisión"
// @Success 200 {object} dto.ResumenDiarioResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/dashboard/resumen [get]
func (h *DashboardHandler) ResumenDiario(c *gin.Context) {
	resp, err := h.svc.ResumenDiario(c.Request.Context(), c.Query("fecha"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
