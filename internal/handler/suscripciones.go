package handler

import (
	"net/http"

	"github.com/rirobledo1/POSAI-sub001/internal/apierror"
	"github.com/rirobledo1/POSAI-sub001/internal/dto"
	"github.com/rirobledo1/POSAI-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type SuscripcionHandler struct{ svc service.SuscripcionService }

func NewSuscripcionHandler(svc service.SuscripcionService) *SuscripcionHandler {
	return &SuscripcionHandler{svc: svc}
}

// CrearPlan godoc
// @Summary Crea un plan de suscripción
// @Tags suscripciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearPlanRequest true "Datos del plan"
// @Success 201 {object} dto.PlanResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/planes [post]
func (h *SuscripcionHandler) CrearPlan(c *gin.Context) {
	var req dto.CrearPlanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearPlan(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SuscripcionHandler) ListarPlanes(c *gin.Context) {
	resp, err := h.svc.ListarPlanes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"planes": resp})
}

// Alta godoc
// @Summary Suscribe a un cliente a un plan
// @Tags suscripciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AltaSuscripcionRequest true "Cliente, plan y método de pago"
// @Success 201 {object} dto.SuscripcionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/suscripciones [post]
func (h *SuscripcionHandler) Alta(c *gin.Context) {
	var req dto.AltaSuscripcionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Alta(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SuscripcionHandler) Cancelar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Cancelar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SuscripcionHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarCargos returns the charge history for one subscription.
func (h *SuscripcionHandler) ListarCargos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarCargos(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"cargos": resp})
}
