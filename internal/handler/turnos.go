package handler

import (
	"net/http"
	"strconv"

	"github.com/rirobledo1/POSAI-sub001/internal/apierror"
	"github.com/rirobledo1/POSAI-sub001/internal/dto"
	"github.com/rirobledo1/POSAI-sub001/internal/middleware"
	"github.com/rirobledo1/POSAI-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TurnoHandler struct{ svc service.TurnoService }

func NewTurnoHandler(svc service.TurnoService) *TurnoHandler { return &TurnoHandler{svc: svc} }

// Abrir godoc
// @Summary Abre un turno de caja
// @Tags turnos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirTurnoRequest true "Datos de apertura"
// @Success 201 {object} dto.TurnoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/turnos/abrir [post]
func (h *TurnoHandler) Abrir(c *gin.Context) {
	var req dto.AbrirTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Realiza el corte de caja y cierra el turno
// @Tags turnos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarTurnoRequest true "Efectivo contado"
// @Success 200 {object} dto.CorteResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/turnos/cerrar [post]
func (h *TurnoHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary Resumen de ventas por método de pago de un turno
// @Tags turnos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de turno"
// @Success 200 {object} dto.TurnoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/turnos/{id} [get]
func (h *TurnoHandler) Resumen(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial lists closed turnos, newest first.
func (h *TurnoHandler) Historial(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	turnos, total, err := h.svc.Historial(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": turnos, "total": total, "page": page, "limit": limit})
}
