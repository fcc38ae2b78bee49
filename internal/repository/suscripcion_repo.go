package repository

import (
	"context"
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SuscripcionRepository interface {
	// Planes
	CreatePlan(ctx context.Context, p *model.PlanSuscripcion) error
	ListPlanes(ctx context.Context) ([]model.PlanSuscripcion, error)
	FindPlanByID(ctx context.Context, id uuid.UUID) (*model.PlanSuscripcion, error)

	// Suscripciones
	CreateSuscripcion(ctx context.Context, s *model.Suscripcion) error
	FindSuscripcionByID(ctx context.Context, id uuid.UUID) (*model.Suscripcion, error)
	FindActivaPorClienteYPlan(ctx context.Context, clienteID, planID uuid.UUID) (*model.Suscripcion, error)
	UpdateSuscripcion(ctx context.Context, s *model.Suscripcion) error
	// ListPorCobrar returns active subscriptions whose next billing date passed.
	ListPorCobrar(ctx context.Context, now time.Time, limit int) ([]model.Suscripcion, error)

	// Cargos
	CreateCargo(ctx context.Context, c *model.CargoSuscripcion) error
	UpdateCargo(ctx context.Context, c *model.CargoSuscripcion) error
	FindCargoByID(ctx context.Context, id uuid.UUID) (*model.CargoSuscripcion, error)
	FindCargoPorPeriodo(ctx context.Context, suscripcionID uuid.UUID, periodo string) (*model.CargoSuscripcion, error)
	ListCargos(ctx context.Context, suscripcionID uuid.UUID) ([]model.CargoSuscripcion, error)
	// ListPendingRetries feeds the billing cron: failed charges whose
	// next_retry_at is in the past.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.CargoSuscripcion, error)
}

type suscripcionRepo struct{ db *gorm.DB }

func NewSuscripcionRepository(db *gorm.DB) SuscripcionRepository { return &suscripcionRepo{db: db} }

func (r *suscripcionRepo) CreatePlan(ctx context.Context, p *model.PlanSuscripcion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *suscripcionRepo) ListPlanes(ctx context.Context) ([]model.PlanSuscripcion, error) {
	var planes []model.PlanSuscripcion
	err := r.db.WithContext(ctx).Where("activo = true").Order("precio asc").Find(&planes).Error
	return planes, err
}

func (r *suscripcionRepo) FindPlanByID(ctx context.Context, id uuid.UUID) (*model.PlanSuscripcion, error) {
	var p model.PlanSuscripcion
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *suscripcionRepo) CreateSuscripcion(ctx context.Context, s *model.Suscripcion) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *suscripcionRepo) FindSuscripcionByID(ctx context.Context, id uuid.UUID) (*model.Suscripcion, error) {
	var s model.Suscripcion
	err := r.db.WithContext(ctx).Preload("Cliente").Preload("Plan").First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *suscripcionRepo) FindActivaPorClienteYPlan(ctx context.Context, clienteID, planID uuid.UUID) (*model.Suscripcion, error) {
	var s model.Suscripcion
	err := r.db.WithContext(ctx).
		Where("cliente_id = ? AND plan_id = ? AND estado IN ('activa', 'morosa')", clienteID, planID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *suscripcionRepo) UpdateSuscripcion(ctx context.Context, s *model.Suscripcion) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *suscripcionRepo) ListPorCobrar(ctx context.Context, now time.Time, limit int) ([]model.Suscripcion, error) {
	var list []model.Suscripcion
	err := r.db.WithContext(ctx).Preload("Plan").
		Where("estado = 'activa' AND proximo_cobro <= ?", now).
		Order("proximo_cobro ASC").Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *suscripcionRepo) CreateCargo(ctx context.Context, c *model.CargoSuscripcion) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *suscripcionRepo) UpdateCargo(ctx context.Context, c *model.CargoSuscripcion) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *suscripcionRepo) FindCargoByID(ctx context.Context, id uuid.UUID) (*model.CargoSuscripcion, error) {
	var c model.CargoSuscripcion
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *suscripcionRepo) FindCargoPorPeriodo(ctx context.Context, suscripcionID uuid.UUID, periodo string) (*model.CargoSuscripcion, error) {
	var c model.CargoSuscripcion
	err := r.db.WithContext(ctx).
		Where("suscripcion_id = ? AND periodo = ?", suscripcionID, periodo).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *suscripcionRepo) ListCargos(ctx context.Context, suscripcionID uuid.UUID) ([]model.CargoSuscripcion, error) {
	var list []model.CargoSuscripcion
	err := r.db.WithContext(ctx).
		Where("suscripcion_id = ?", suscripcionID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *suscripcionRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.CargoSuscripcion, error) {
	var list []model.CargoSuscripcion
	err := r.db.WithContext(ctx).
		Where("estado = 'pendiente' AND next_retry_at IS NOT NULL AND next_retry_at <= ?", now).
		Order("next_retry_at ASC").Limit(limit).
		Find(&list).Error
	return list, err
}
