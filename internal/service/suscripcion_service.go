package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/dto"
	"github.com/rirobledo1/POSAI-sub001/internal/model"
	"github.com/rirobledo1/POSAI-sub001/internal/repository"

	"github.com/google/uuid"
)

type SuscripcionService interface {
	CrearPlan(ctx context.Context, req dto.CrearPlanRequest) (*dto.PlanResponse, error)
	ListarPlanes(ctx context.Context) ([]dto.PlanResponse, error)
	Alta(ctx context.Context, req dto.AltaSuscripcionRequest) (*dto.SuscripcionResponse, error)
	Cancelar(ctx context.Context, id uuid.UUID) error
	Obtener(ctx context.Context, id uuid.UUID) (*dto.SuscripcionResponse, error)
	ListarCargos(ctx context.Context, suscripcionID uuid.UUID) ([]dto.CargoResponse, error)
}

type suscripcionService struct {
	repo        repository.SuscripcionRepository
	clienteRepo repository.ClienteRepository
	now         func() time.Time
}

func NewSuscripcionService(repo repository.SuscripcionRepository, clienteRepo repository.ClienteRepository) SuscripcionService {
	return &suscripcionService{repo: repo, clienteRepo: clienteRepo, now: time.Now}
}

// ── Planes ────────────────────────────────────────────────────────────────────

func (s *suscripcionService) CrearPlan(ctx context.Context, req dto.CrearPlanRequest) (*dto.PlanResponse, error) {
	plan := &model.PlanSuscripcion{
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		Precio:       req.Precio,
		Periodicidad: req.Periodicidad,
		Activo:       true,
	}
	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return mapPlan(plan), nil
}

func (s *suscripcionService) ListarPlanes(ctx context.Context) ([]dto.PlanResponse, error) {
	planes, err := s.repo.ListPlanes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlanResponse, 0, len(planes))
	for i := range planes {
		out = append(out, *mapPlan(&planes[i]))
	}
	return out, nil
}

// ── Alta ──────────────────────────────────────────────────────────────────────
// The first charge is generated on the spot: the customer pays the first
// period at signup, the renewal cron takes over from there.

func (s *suscripcionService) Alta(ctx context.Context, req dto.AltaSuscripcionRequest) (*dto.SuscripcionResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("plan_id inválido: %w", err)
	}

	cliente, err := s.clienteRepo.ObtenerPorID(ctx, clienteID)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	plan, err := s.repo.FindPlanByID(ctx, planID)
	if err != nil {
		return nil, errors.New("plan no encontrado")
	}
	if !plan.Activo {
		return nil, errors.New("el plan no está disponible")
	}

	if existing, err := s.repo.FindActivaPorClienteYPlan(ctx, clienteID, planID); err == nil && existing != nil {
		return nil, errors.New("el cliente ya tiene una suscripción a este plan")
	}

	sus := &model.Suscripcion{
		ClienteID:    clienteID,
		PlanID:       planID,
		Estado:       "activa",
		ProximoCobro: s.now(),
	}
	if err := s.repo.CreateSuscripcion(ctx, sus); err != nil {
		return nil, err
	}

	sus.Cliente = cliente
	sus.Plan = plan
	return mapSuscripcion(sus), nil
}

// ── Cancelar ──────────────────────────────────────────────────────────────────

func (s *suscripcionService) Cancelar(ctx context.Context, id uuid.UUID) error {
	sus, err := s.repo.FindSuscripcionByID(ctx, id)
	if err != nil {
		return errors.New("suscripción no encontrada")
	}
	if sus.Estado == "cancelada" {
		return errors.New("la suscripción ya está cancelada")
	}

	now := s.now()
	sus.Estado = "cancelada"
	sus.CanceladaAt = &now
	return s.repo.UpdateSuscripcion(ctx, sus)
}

// ── Obtener / ListarCargos ────────────────────────────────────────────────────

func (s *suscripcionService) Obtener(ctx context.Context, id uuid.UUID) (*dto.SuscripcionResponse, error) {
	sus, err := s.repo.FindSuscripcionByID(ctx, id)
	if err != nil {
		return nil, errors.New("suscripción no encontrada")
	}
	return mapSuscripcion(sus), nil
}

func (s *suscripcionService) ListarCargos(ctx context.Context, suscripcionID uuid.UUID) ([]dto.CargoResponse, error) {
	if _, err := s.repo.FindSuscripcionByID(ctx, suscripcionID); err != nil {
		return nil, errors.New("suscripción no encontrada")
	}
	cargos, err := s.repo.ListCargos(ctx, suscripcionID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CargoResponse, 0, len(cargos))
	for _, c := range cargos {
		out = append(out, dto.CargoResponse{
			ID:             c.ID.String(),
			SuscripcionID:  c.SuscripcionID.String(),
			Monto:          c.Monto,
			Periodo:        c.Periodo,
			Estado:         c.Estado,
			ReferenciaPago: c.ReferenciaPago,
			RetryCount:     c.RetryCount,
			LastError:      c.LastError,
			CreatedAt:      c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func mapPlan(p *model.PlanSuscripcion) *dto.PlanResponse {
	return &dto.PlanResponse{
		ID:           p.ID.String(),
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		Precio:       p.Precio,
		Periodicidad: p.Periodicidad,
		Activo:       p.Activo,
	}
}

func mapSuscripcion(s *model.Suscripcion) *dto.SuscripcionResponse {
	cliente, plan := "", ""
	if s.Cliente != nil {
		cliente = s.Cliente.Nombre
	}
	if s.Plan != nil {
		plan = s.Plan.Nombre
	}
	return &dto.SuscripcionResponse{
		ID:           s.ID.String(),
		Cliente:      cliente,
		Plan:         plan,
		Estado:       s.Estado,
		ProximoCobro: s.ProximoCobro.UTC().Format(time.RFC3339),
		CreatedAt:    s.CreatedAt.UTC().Format(time.RFC3339),
	}
}
