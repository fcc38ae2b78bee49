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

type CotizacionHandler struct{ svc service.CotizacionService }

func NewCotizacionHandler(svc service.CotizacionService) *CotizacionHandler {
	return &CotizacionHandler{svc: svc}
}

// Crear godoc
// @Summary Crea una cotización con precios congelados
// @Tags cotizaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearCotizacionRequest true "Partidas de la cotización"
// @Success 201 {object} dto.CotizacionResponse
// @Failure 400 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/cotizaciones [post]
func (h *CotizacionHandler) Crear(c *gin.Context) {
	var req dto.CrearCotizacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Crear(c.Request.Context(), usuarioID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Aceptar marks a still-valid quotation as accepted.
func (h *CotizacionHandler) Aceptar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Aceptar(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CotizacionHandler) Obtener(c *gin.Context) {
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

func (h *CotizacionHandler) Listar(c *gin.Context) {
	estado := c.Query("estado")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, total, err := h.svc.Listar(c.Request.Context(), estado, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cotizaciones": items,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}
