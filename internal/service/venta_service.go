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
	"gorm.io/gorm"
)

type VentaService interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	Cancelar(ctx context.Context, id uuid.UUID, motivo string) error
	Obtener(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	turnos       TurnoService
	productoRepo repository.ProductoRepository
	tasaIVA      decimal.Decimal
}

func NewVentaService(
	repo repository.VentaRepository,
	turnos TurnoService,
	productoRepo repository.ProductoRepository,
	tasaIVA decimal.Decimal,
) VentaService {
	return &ventaService{
		repo:         repo,
		turnos:       turnos,
		productoRepo: productoRepo,
		tasaIVA:      tasaIVA,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// One ACID transaction per sale:
//   1. Validate the turno is open
//   2. Resolve products, capture prices, run the totals engine
//   3. BEGIN TX: nextval folio, create venta+items, descontar stock
//   4. COMMIT

func (s *ventaService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	turnoID, err := uuid.Parse(req.TurnoID)
	if err != nil {
		return nil, fmt.Errorf("turno_id inválido: %w", err)
	}

	if _, err := s.turnos.FindAbierto(ctx, turnoID); err != nil {
		return nil, err
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id inválido: %w", err)
		}
		clienteID = &cid
	}

	// Resolve products and capture prices outside the TX
	resolved, lineas, err := s.resolverItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	tot := totales.Calcular(lineas, req.DescuentoPct, s.tasaIVA)

	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		folio, err := s.repo.NextFolio(ctx, tx)
		if err != nil {
			return err
		}

		venta = model.Venta{
			Folio:            folio,
			TurnoID:          turnoID,
			UsuarioID:        usuarioID,
			ClienteID:        clienteID,
			ImporteArticulos: tot.ImporteArticulos,
			DescuentoPct:     req.DescuentoPct,
			DescuentoMonto:   tot.DescuentoMonto,
			Subtotal:         tot.Subtotal,
			IVA:              tot.IVA,
			Total:            tot.Total,
			MetodoPago:       req.MetodoPago,
			Estado:           "completada",
		}
		for _, r := range resolved {
			venta.Items = append(venta.Items, model.VentaItem{
				ProductoID:     r.productoID,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.precio,
				Descuento:      r.descuento,
				Subtotal:       r.subtotal,
			})
		}

		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		for _, r := range resolved {
			if err := s.productoRepo.UpdateStockTx(tx, r.productoID, -r.cantidad); err != nil {
				return fmt.Errorf("error descontando stock de %s: %w", r.nombre, err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	for i := range venta.Items {
		venta.Items[i].Producto = &model.Producto{Nombre: resolved[i].nombre}
	}
	return ventaToResponse(&venta), nil
}

// ── Cancelar ──────────────────────────────────────────────────────────────────
// Cancelling restores the stock of every line in the same transaction that
// flips the estado. The venta row itself is never deleted.

func (s *ventaService) Cancelar(ctx context.Context, id uuid.UUID, motivo string) error {
	if motivo == "" {
		return errors.New("se requiere un motivo de cancelación")
	}

	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("venta no encontrada")
	}
	if venta.Estado == "cancelada" {
		return errors.New("la venta ya está cancelada")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateEstadoTx(tx, id, "cancelada"); err != nil {
			return err
		}
		for _, item := range venta.Items {
			if err := s.productoRepo.UpdateStockTx(tx, item.ProductoID, item.Cantidad); err != nil {
				return err
			}
		}
		return nil
	})
}

// ── Obtener / Listar ──────────────────────────────────────────────────────────

func (s *ventaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("venta no encontrada")
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

type resolvedItem struct {
	productoID uuid.UUID
	nombre     string
	precio     decimal.Decimal
	cantidad   int
	descuento  decimal.Decimal
	subtotal   decimal.Decimal
}

// resolverItems fetches each product, validates it is sellable, and builds
// the parallel slices consumed by the totals engine and the TX body.
func (s *ventaService) resolverItems(ctx context.Context, items []dto.ItemVentaRequest) ([]resolvedItem, []totales.Linea, error) {
	var resolved []resolvedItem
	var lineas []totales.Linea

	for _, item := range items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		if !p.Activo {
			return nil, nil, fmt.Errorf("producto %s está inactivo y no puede venderse", p.Nombre)
		}
		if p.Stock < item.Cantidad {
			return nil, nil, fmt.Errorf("stock insuficiente para %s: disponible %d, solicitado %d", p.Nombre, p.Stock, item.Cantidad)
		}

		linea := totales.Linea{
			Cantidad:       item.Cantidad,
			PrecioUnitario: p.Precio,
			Descuento:      item.Descuento,
		}
		lineas = append(lineas, linea)
		resolved = append(resolved, resolvedItem{
			productoID: pid,
			nombre:     p.Nombre,
			precio:     p.Precio,
			cantidad:   item.Cantidad,
			descuento:  item.Descuento,
			subtotal:   totales.SubtotalLinea(linea).Round(2),
		})
	}
	return resolved, lineas, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		items = append(items, dto.ItemVentaResponse{
			Producto:       nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Descuento:      item.Descuento,
			Subtotal:       item.Subtotal,
		})
	}

	return &dto.VentaResponse{
		ID:               v.ID.String(),
		Folio:            v.Folio,
		TurnoID:          v.TurnoID.String(),
		Items:            items,
		ImporteArticulos: v.ImporteArticulos,
		DescuentoPct:     v.DescuentoPct,
		DescuentoMonto:   v.DescuentoMonto,
		Subtotal:         v.Subtotal,
		IVA:              v.IVA,
		Total:            v.Total,
		MetodoPago:       v.MetodoPago,
		Estado:           v.Estado,
		CreatedAt:        v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
