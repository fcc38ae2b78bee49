package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/dto"
	"github.com/rirobledo1/POSAI-sub001/internal/model"
	"github.com/rirobledo1/POSAI-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const precioCacheTTL = 4 * time.Hour

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	// ConsultaPrecio is the public price check, served from Redis when warm.
	ConsultaPrecio(ctx context.Context, codigo string) (*dto.ConsultaPrecioResponse, error)
}

type productoService struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, rdb: rdb}
}

func mapProducto(p *model.Producto) *dto.ProductoResponse {
	var categoria *string
	if p.Categoria != nil {
		categoria = &p.Categoria.Nombre
	}
	return &dto.ProductoResponse{
		ID:          p.ID,
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Categoria:   categoria,
		Precio:      p.Precio,
		Costo:       p.Costo,
		Stock:       p.Stock,
		Publicado:   p.Publicado,
		Activo:      p.Activo,
	}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	existing, err := s.repo.FindByCodigo(ctx, req.Codigo)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("ya existe un producto con ese código")
	}

	var categoriaID *uuid.UUID
	if req.CategoriaID != nil {
		cid, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, errors.New("categoria_id inválido")
		}
		categoriaID = &cid
	}

	p := &model.Producto{
		Codigo:      req.Codigo,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		CategoriaID: categoriaID,
		Precio:      req.Precio,
		Costo:       req.Costo,
		Stock:       req.Stock,
		Publicado:   req.Publicado,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return mapProducto(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return mapProducto(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *mapProducto(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.CategoriaID != nil {
		cid, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, errors.New("categoria_id inválido")
		}
		p.CategoriaID = &cid
	}
	if req.Precio != nil {
		p.Precio = *req.Precio
	}
	if req.Costo != nil {
		p.Costo = *req.Costo
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Publicado != nil {
		p.Publicado = *req.Publicado
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarPrecio(ctx, p.Codigo)
	return mapProducto(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("producto no encontrado")
	}
	if err := s.repo.Desactivar(ctx, id); err != nil {
		return err
	}
	s.invalidarPrecio(ctx, p.Codigo)
	return nil
}

// ── ConsultaPrecio ────────────────────────────────────────────────────────────
// Read-through cache: the kiosk price checker hammers this endpoint, the DB
// only sees misses.

func (s *productoService) ConsultaPrecio(ctx context.Context, codigo string) (*dto.ConsultaPrecioResponse, error) {
	cacheKey := "precio:" + codigo

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.ConsultaPrecioResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	if !p.Activo {
		return nil, errors.New("producto no encontrado")
	}

	var categoria *string
	if p.Categoria != nil {
		categoria = &p.Categoria.Nombre
	}
	resp := &dto.ConsultaPrecioResponse{
		Nombre:          p.Nombre,
		Precio:          p.Precio,
		StockDisponible: p.Stock,
		Categoria:       categoria,
	}

	// Populate cache — best effort, ignore errors
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), cacheKey, b, precioCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *productoService) invalidarPrecio(ctx context.Context, codigo string) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, "precio:"+codigo).Err()
}
