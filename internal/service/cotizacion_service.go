package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/dto"
	"github.com/rirobledo1/POSAI-sub001/internal/model"
	"github.com/rirobledo1/POSAI-sub001/internal/repository"
	"github.com/rirobledo1/POSAI-sub001/internal/totales"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const vigenciaDefaultDias = 15

type CotizacionService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearCotizacionRequest) (*dto.CotizacionResponse, error)
	Aceptar(ctx context.Context, id uuid.UUID) (*dto.CotizacionResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CotizacionResponse, error)
	Listar(ctx context.Context, estado string, page, limit int) ([]dto.CotizacionResponse, int64, error)
	// MarcarVencidas is invoked periodically — and lazily before reads — to
	// expire quotations past their window.
	MarcarVencidas(ctx context.Context) (int64, error)
}

type cotizacionService struct {
	repo         repository.CotizacionRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	tasaIVA      decimal.Decimal
	now          func() time.Time
}

func NewCotizacionService(
	repo repository.CotizacionRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	tasaIVA decimal.Decimal,
) CotizacionService {
	return &cotizacionService{
		repo:         repo,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		tasaIVA:      tasaIVA,
		now:          time.Now,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// The totals breakdown is frozen at creation: later price changes never
// alter an emitted quotation.

func (s *cotizacionService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearCotizacionRequest) (*dto.CotizacionResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	cliente, err := s.clienteRepo.ObtenerPorID(ctx, clienteID)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}

	vigencia := req.VigenciaDias
	if vigencia == 0 {
		vigencia = vigenciaDefaultDias
	}

	var items []model.CotizacionItem
	var lineas []totales.Linea
	nombres := make(map[uuid.UUID]string)
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		// A quotation doesn't reserve stock, but inactive products can't be
		// quoted.
		if !p.Activo {
			return nil, fmt.Errorf("producto %s está inactivo", p.Nombre)
		}
		nombres[pid] = p.Nombre

		linea := totales.Linea{
			Cantidad:       item.Cantidad,
			PrecioUnitario: p.Precio,
			Descuento:      item.Descuento,
		}
		lineas = append(lineas, linea)
		items = append(items, model.CotizacionItem{
			ProductoID:     pid,
			Cantidad:       item.Cantidad,
			PrecioUnitario: p.Precio,
			Descuento:      item.Descuento,
			Subtotal:       totales.SubtotalLinea(linea).Round(2),
		})
	}

	tot := totales.Calcular(lineas, req.DescuentoPct, s.tasaIVA)

	folio, err := s.repo.NextFolio(ctx)
	if err != nil {
		return nil, err
	}

	cot := &model.Cotizacion{
		Folio:            folio,
		ClienteID:        clienteID,
		UsuarioID:        usuarioID,
		ImporteArticulos: tot.ImporteArticulos,
		DescuentoPct:     req.DescuentoPct,
		DescuentoMonto:   tot.DescuentoMonto,
		Subtotal:         tot.Subtotal,
		IVA:              tot.IVA,
		Total:            tot.Total,
		VigenciaDias:     vigencia,
		ExpiraAt:         s.now().AddDate(0, 0, vigencia),
		Estado:           "vigente",
		Notas:            req.Notas,
		Items:            items,
	}
	if err := s.repo.Create(ctx, cot); err != nil {
		return nil, err
	}

	cot.Cliente = cliente
	for i := range cot.Items {
		cot.Items[i].Producto = &model.Producto{Nombre: nombres[cot.Items[i].ProductoID]}
	}
	return cotizacionToResponse(cot), nil
}

// ── Aceptar ───────────────────────────────────────────────────────────────────

func (s *cotizacionService) Aceptar(ctx context.Context, id uuid.UUID) (*dto.CotizacionResponse, error) {
	cot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cotización no encontrada")
	}

	// Lazy expiry: the cron may not have run yet
	if cot.Estado == "vigente" && s.now().After(cot.ExpiraAt) {
		cot.Estado = "vencida"
		_ = s.repo.UpdateEstado(ctx, id, "vencida")
	}

	switch cot.Estado {
	case "aceptada":
		return nil, errors.New("la cotización ya fue aceptada")
	case "vencida":
		return nil, errors.New("la cotización está vencida y no puede aceptarse")
	}

	if err := s.repo.UpdateEstado(ctx, id, "aceptada"); err != nil {
		return nil, err
	}
	cot.Estado = "aceptada"
	return cotizacionToResponse(cot), nil
}

// ── Obtener / Listar / MarcarVencidas ────────────────────────────────────────

func (s *cotizacionService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CotizacionResponse, error) {
	cot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cotización no encontrada")
	}
	if cot.Estado == "vigente" && s.now().After(cot.ExpiraAt) {
		cot.Estado = "vencida"
		_ = s.repo.UpdateEstado(ctx, id, "vencida")
	}
	return cotizacionToResponse(cot), nil
}

func (s *cotizacionService) Listar(ctx context.Context, estado string, page, limit int) ([]dto.CotizacionResponse, int64, error) {
	cotizaciones, total, err := s.repo.List(ctx, estado, page, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.CotizacionResponse, 0, len(cotizaciones))
	for i := range cotizaciones {
		out = append(out, *cotizacionToResponse(&cotizaciones[i]))
	}
	return out, total, nil
}

func (s *cotizacionService) MarcarVencidas(ctx context.Context) (int64, error) {
	return s.repo.MarcarVencidas(ctx, s.now())
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func cotizacionToResponse(c *model.Cotizacion) *dto.CotizacionResponse {
	items := make([]dto.ItemCotizacionResponse, 0, len(c.Items))
	for _, item := range c.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		items = append(items, dto.ItemCotizacionResponse{
			Producto:       nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Descuento:      item.Descuento,
			Subtotal:       item.Subtotal,
		})
	}

	clienteNombre := ""
	if c.Cliente != nil {
		clienteNombre = c.Cliente.Nombre
	}

	return &dto.CotizacionResponse{
		ID:               c.ID.String(),
		Folio:            c.Folio,
		Cliente:          clienteNombre,
		Items:            items,
		ImporteArticulos: c.ImporteArticulos,
		DescuentoPct:     c.DescuentoPct,
		DescuentoMonto:   c.DescuentoMonto,
		Subtotal:         c.Subtotal,
		IVA:              c.IVA,
		Total:            c.Total,
		VigenciaDias:     c.VigenciaDias,
		ExpiraAt:         c.ExpiraAt.UTC().Format(time.RFC3339),
		Estado:           c.Estado,
		Notas:            c.Notas,
		CreatedAt:        c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
