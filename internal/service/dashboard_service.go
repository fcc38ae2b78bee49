package service

import (
	"context"
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/dto"
	"github.com/rirobledo1/POSAI-sub001/internal/repository"
)

type DashboardService interface {
	ResumenDiario(ctx context.Context, fecha string) (*dto.ResumenDiarioResponse, error)
}

type dashboardService struct {
	ventaRepo  repository.VentaRepository
	pedidoRepo repository.PedidoRepository
}

func NewDashboardService(ventaRepo repository.VentaRepository, pedidoRepo repository.PedidoRepository) DashboardService {
	return &dashboardService{ventaRepo: ventaRepo, pedidoRepo: pedidoRepo}
}

// ResumenDiario merges the POS and storefront aggregates for one date.
// An empty fecha means today.
func (s *dashboardService) ResumenDiario(ctx context.Context, fecha string) (*dto.ResumenDiarioResponse, error) {
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}

	ventas, err := s.ventaRepo.ResumenDiario(ctx, fecha)
	if err != nil {
		return nil, err
	}
	pedidos, err := s.pedidoRepo.ResumenDiario(ctx, fecha)
	if err != nil {
		return nil, err
	}

	return &dto.ResumenDiarioResponse{
		Fecha:              fecha,
		VentasCantidad:     ventas.Cantidad,
		VentasBruto:        ventas.Bruto,
		VentasDescuento:    ventas.Descuento,
		VentasNeto:         ventas.Neto,
		PedidosCantidad:    pedidos.Cantidad,
		PedidosBruto:       pedidos.Bruto,
		PedidosDescuento:   pedidos.Descuento,
		PedidosNeto:        pedidos.Neto,
		TotalTransacciones: ventas.Cantidad + pedidos.Cantidad,
		TotalNeto:          ventas.Neto.Add(pedidos.Neto),
	}, nil
}
