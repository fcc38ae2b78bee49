package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/dto"
	"github.com/rirobledo1/POSAI-sub001/internal/infra"
	"github.com/rirobledo1/POSAI-sub001/internal/model"
	"github.com/rirobledo1/POSAI-sub001/internal/repository"
	"github.com/rirobledo1/POSAI-sub001/internal/totales"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// transicionesPedido lists the estados reachable from each estado. Checkout
// creates pedidos in "pagado" directly; "pendiente" only survives a crash
// between charge and commit.
var transicionesPedido = map[string][]string{
	"pendiente": {"pagado", "cancelado"},
	"pagado":    {"enviado", "cancelado"},
	"enviado":   {"entregado"},
}

type PedidoService interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.PedidoResponse, error)
	ActualizarEstado(ctx context.Context, id uuid.UUID, estado string) error
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
}

type pedidoService struct {
	repo         repository.PedidoRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	pasarela     *infra.PasarelaClient
	tasaIVA      decimal.Decimal
	envioCosto   decimal.Decimal
	envioGratis  decimal.Decimal
}

func NewPedidoService(
	repo repository.PedidoRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	pasarela *infra.PasarelaClient,
	tasaIVA, envioCosto, envioGratis decimal.Decimal,
) PedidoService {
	return &pedidoService{
		repo:         repo,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		pasarela:     pasarela,
		tasaIVA:      tasaIVA,
		envioCosto:   envioCosto,
		envioGratis:  envioGratis,
	}
}

// ── Checkout ──────────────────────────────────────────────────────────────────
// Storefront checkout:
//   1. Resolve products — only published ones are sellable online
//   2. Run the totals engine, add the delivery fee
//   3. Charge the gateway with the one-time token
//   4. TX: nextval folio, create pedido (pagado) + items, descontar stock
//
// The charge happens before the TX: a declined card must never leave a
// pedido behind. The inverse failure (charge ok, TX fails) is logged with
// the gateway reference so it can be reconciled manually.

func (s *pedidoService) Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.PedidoResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	cliente, err := s.clienteRepo.ObtenerPorID(ctx, clienteID)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}

	resolved, lineas, err := s.resolverItemsPedido(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	tot := totales.Calcular(lineas, req.DescuentoPct, s.tasaIVA)
	envio := s.calcularEnvio(tot.Total)
	totalConEnvio := tot.Total.Add(envio)

	cid := clienteID.String()
	gwResp, err := s.pasarela.Cobrar(ctx, infra.CargoPayload{
		Monto:       totalConEnvio.InexactFloat64(),
		Moneda:      "MXN",
		Referencia:  uuid.NewString(),
		Descripcion: fmt.Sprintf("Pedido tienda en línea — %s", cliente.Nombre),
		TokenPago:   req.TokenPago,
		ClienteID:   &cid,
	})
	if err != nil {
		return nil, fmt.Errorf("no se pudo procesar el pago: %w", err)
	}
	if gwResp.Resultado != "aprobado" {
		return nil, fmt.Errorf("pago rechazado: %s", gwResp.Mensaje)
	}

	referencia := gwResp.CargoID
	var pedido model.Pedido
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		folio, err := s.repo.NextFolio(ctx, tx)
		if err != nil {
			return err
		}

		pedido = model.Pedido{
			Folio:            folio,
			ClienteID:        clienteID,
			ImporteArticulos: tot.ImporteArticulos,
			DescuentoPct:     req.DescuentoPct,
			DescuentoMonto:   tot.DescuentoMonto,
			Subtotal:         tot.Subtotal,
			IVA:              tot.IVA,
			EnvioCosto:       envio,
			Total:            totalConEnvio,
			DireccionEnvio:   req.DireccionEnvio,
			Estado:           "pagado",
			ReferenciaPago:   &referencia,
		}
		for _, r := range resolved {
			pedido.Items = append(pedido.Items, model.PedidoItem{
				ProductoID:     r.productoID,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.precio,
				Descuento:      r.descuento,
				Subtotal:       r.subtotal,
			})
		}

		if err := s.repo.Create(ctx, tx, &pedido); err != nil {
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
		return nil, fmt.Errorf("pago capturado (ref %s) pero el pedido no pudo registrarse: %w", referencia, txErr)
	}

	pedido.Cliente = cliente
	for i := range pedido.Items {
		pedido.Items[i].Producto = &model.Producto{Nombre: resolved[i].nombre}
	}
	return pedidoToResponse(&pedido), nil
}

// ── ActualizarEstado ──────────────────────────────────────────────────────────

func (s *pedidoService) ActualizarEstado(ctx context.Context, id uuid.UUID, estado string) error {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("pedido no encontrado")
	}

	permitidos := transicionesPedido[pedido.Estado]
	valido := false
	for _, e := range permitidos {
		if e == estado {
			valido = true
			break
		}
	}
	if !valido {
		return fmt.Errorf("transición inválida: %s → %s", pedido.Estado, estado)
	}

	if estado == "cancelado" {
		// Cancelling a paid order puts the merchandise back on the shelf.
		// Restores and the estado flip share one transaction: either the
		// pedido stays as-is or it is cancelled with all stock returned.
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			for _, item := range pedido.Items {
				if err := s.productoRepo.UpdateStockTx(tx, item.ProductoID, item.Cantidad); err != nil {
					return err
				}
			}
			return s.repo.UpdateEstadoTx(tx, id, estado)
		})
	}
	return s.repo.UpdateEstado(ctx, id, estado)
}

// ── Obtener / Listar ──────────────────────────────────────────────────────────

func (s *pedidoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido no encontrado")
	}
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		data = append(data, *pedidoToResponse(&pedidos[i]))
	}
	return &dto.PedidoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// calcularEnvio returns the delivery fee for an order total. Orders at or
// above the free-shipping threshold pay nothing.
func (s *pedidoService) calcularEnvio(total decimal.Decimal) decimal.Decimal {
	if total.GreaterThanOrEqual(s.envioGratis) {
		return decimal.Zero
	}
	return s.envioCosto
}

func (s *pedidoService) resolverItemsPedido(ctx context.Context, items []dto.ItemPedidoRequest) ([]resolvedItem, []totales.Linea, error) {
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
		if !p.Activo || !p.Publicado {
			return nil, nil, fmt.Errorf("producto %s no está disponible en la tienda en línea", p.Nombre)
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

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	items := make([]dto.ItemPedidoResponse, 0, len(p.Items))
	for _, item := range p.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		items = append(items, dto.ItemPedidoResponse{
			Producto:       nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Descuento:      item.Descuento,
			Subtotal:       item.Subtotal,
		})
	}

	clienteNombre := ""
	if p.Cliente != nil {
		clienteNombre = p.Cliente.Nombre
	}

	return &dto.PedidoResponse{
		ID:               p.ID.String(),
		Folio:            p.Folio,
		Cliente:          clienteNombre,
		Items:            items,
		ImporteArticulos: p.ImporteArticulos,
		DescuentoPct:     p.DescuentoPct,
		DescuentoMonto:   p.DescuentoMonto,
		Subtotal:         p.Subtotal,
		IVA:              p.IVA,
		EnvioCosto:       p.EnvioCosto,
		Total:            p.Total,
		DireccionEnvio:   p.DireccionEnvio,
		Estado:           p.Estado,
		ReferenciaPago:   p.ReferenciaPago,
		CreatedAt:        p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
