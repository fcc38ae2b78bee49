package service

import (
	"context"
	"errors"

	"github.com/rirobledo1/POSAI-sub001/internal/dto"
	"github.com/rirobledo1/POSAI-sub001/internal/model"
	"github.com/rirobledo1/POSAI-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (dto.ClienteResponse, error)
	Listar(ctx context.Context, buscar string) ([]dto.ClienteResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (dto.ClienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func mapCliente(c model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:        c.ID,
		Nombre:    c.Nombre,
		RFC:       c.RFC,
		Telefono:  c.Telefono,
		Email:     c.Email,
		Direccion: c.Direccion,
		Activo:    c.Activo,
	}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (dto.ClienteResponse, error) {
	// Email is the natural dedupe key for storefront accounts
	if req.Email != nil {
		existing, err := s.repo.ObtenerPorEmail(ctx, *req.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClienteResponse{}, err
		}
		if existing != nil {
			return dto.ClienteResponse{}, errors.New("ya existe un cliente con ese email")
		}
	}

	c := &model.Cliente{
		Nombre:    req.Nombre,
		RFC:       req.RFC,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Direccion: req.Direccion,
		Activo:    true,
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		return dto.ClienteResponse{}, err
	}
	return mapCliente(*c), nil
}

func (s *clienteService) Listar(ctx context.Context, buscar string) ([]dto.ClienteResponse, error) {
	list, err := s.repo.Listar(ctx, buscar)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ClienteResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCliente(c))
	}
	return result, nil
}

func (s *clienteService) Obtener(ctx context.Context, id uuid.UUID) (dto.ClienteResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return dto.ClienteResponse{}, errors.New("cliente no encontrado")
	}
	return mapCliente(*c), nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (dto.ClienteResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClienteResponse{}, errors.New("cliente no encontrado")
		}
		return dto.ClienteResponse{}, err
	}

	if req.Email != nil && (c.Email == nil || *req.Email != *c.Email) {
		existing, err := s.repo.ObtenerPorEmail(ctx, *req.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClienteResponse{}, err
		}
		if existing != nil && existing.ID != id {
			return dto.ClienteResponse{}, errors.New("ya existe un cliente con ese email")
		}
		c.Email = req.Email
	}
	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}
	if req.RFC != nil {
		c.RFC = req.RFC
	}
	if req.Telefono != nil {
		c.Telefono = req.Telefono
	}
	if req.Direccion != nil {
		c.Direccion = req.Direccion
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}

	if err := s.repo.Actualizar(ctx, c); err != nil {
		return dto.ClienteResponse{}, err
	}
	return mapCliente(*c), nil
}

func (s *clienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.ObtenerPorID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("cliente no encontrado")
		}
		return err
	}
	return s.repo.Desactivar(ctx, id)
}
