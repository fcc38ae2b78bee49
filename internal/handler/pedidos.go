package handler

import (
	"net/http"

	"github.com/rirobledo1/POSAI-sub001/internal/apierror"
	"github.com/rirobledo1/POSAI-sub001/internal/dto"
	"github.com/rirobledo1/POSAI-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type PedidoHandler struct{ svc service.PedidoService }

func NewPedidoHandler(svc service.PedidoService) *PedidoHandler { return &PedidoHandler{svc: svc} }

// Checkout godoc
// @Summary Crea y cobra un pedido de la tienda en línea
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CheckoutRequest true "Carrito y token de pago"
// @Success 201 {object} dto.PedidoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/pedidos/checkout [post]
func (h *PedidoHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ActualizarEstado moves the order along pagado → enviado → entregado, or
// cancels it.
func (h *PedidoHandler) ActualizarEstado(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarEstadoPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ActualizarEstado(c.Request.Context(), id, req.Estado); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PedidoHandler) Obtener(c *gin.Context) {
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

// Listar godoc
// @Summary Lista pedidos, opcionalmente filtrados por estado
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param estado query string false "pendiente | pagado | enviado | entregado | cancelado"
// @Success 200 {object} dto.PedidoListResponse
// @Router /v1/pedidos [get]
func (h *PedidoHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
