package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/dto"
	"github.com/rirobledo1/POSAI-sub001/internal/model"
	"github.com/rirobledo1/POSAI-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory SuscripcionRepository ──────────────────────────────────────────

type fullSuscripcionRepo struct {
	planes        map[uuid.UUID]*model.PlanSuscripcion
	suscripciones map[uuid.UUID]*model.Suscripcion
	cargos        map[uuid.UUID]*model.CargoSuscripcion
}

func newFullSuscripcionRepo() *fullSuscripcionRepo {
	return &fullSuscripcionRepo{
		planes:        make(map[uuid.UUID]*model.PlanSuscripcion),
		suscripciones: make(map[uuid.UUID]*model.Suscripcion),
		cargos:        make(map[uuid.UUID]*model.CargoSuscripcion),
	}
}

func (r *fullSuscripcionRepo) CreatePlan(_ context.Context, p *model.PlanSuscripcion) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.planes[p.ID] = p
	return nil
}

func (r *fullSuscripcionRepo) ListPlanes(_ context.Context) ([]model.PlanSuscripcion, error) {
	var out []model.PlanSuscripcion
	for _, p := range r.planes {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fullSuscripcionRepo) FindPlanByID(_ context.Context, id uuid.UUID) (*model.PlanSuscripcion, error) {
	p, ok := r.planes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *fullSuscripcionRepo) CreateSuscripcion(_ context.Context, s *model.Suscripcion) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.suscripciones[s.ID] = s
	return nil
}

func (r *fullSuscripcionRepo) FindSuscripcionByID(_ context.Context, id uuid.UUID) (*model.Suscripcion, error) {
	s, ok := r.suscripciones[id]
	if !ok {
		return nil, errors.New("not found")
	}
	if s.Plan == nil {
		s.Plan = r.planes[s.PlanID]
	}
	return s, nil
}

func (r *fullSuscripcionRepo) FindActivaPorClienteYPlan(_ context.Context, clienteID, planID uuid.UUID) (*model.Suscripcion, error) {
	for _, s := range r.suscripciones {
		if s.ClienteID == clienteID && s.PlanID == planID && (s.Estado == "activa" || s.Estado == "morosa") {
			return s, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fullSuscripcionRepo) UpdateSuscripcion(_ context.Context, s *model.Suscripcion) error {
	r.suscripciones[s.ID] = s
	return nil
}

func (r *fullSuscripcionRepo) ListPorCobrar(_ context.Context, now time.Time, limit int) ([]model.Suscripcion, error) {
	var out []model.Suscripcion
	for _, s := range r.suscripciones {
		if s.Estado == "activa" && !s.ProximoCobro.After(now) {
			cp := *s
			if cp.Plan == nil {
				cp.Plan = r.planes[cp.PlanID]
			}
			out = append(out, cp)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fullSuscripcionRepo) CreateCargo(_ context.Context, c *model.CargoSuscripcion) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.cargos[c.ID] = c
	return nil
}

func (r *fullSuscripcionRepo) UpdateCargo(_ context.Context, c *model.CargoSuscripcion) error {
	r.cargos[c.ID] = c
	return nil
}

func (r *fullSuscripcionRepo) FindCargoByID(_ context.Context, id uuid.UUID) (*model.CargoSuscripcion, error) {
	c, ok := r.cargos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *fullSuscripcionRepo) FindCargoPorPeriodo(_ context.Context, suscripcionID uuid.UUID, periodo string) (*model.CargoSuscripcion, error) {
	for _, c := range r.cargos {
		if c.SuscripcionID == suscripcionID && c.Periodo == periodo {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fullSuscripcionRepo) ListCargos(_ context.Context, suscripcionID uuid.UUID) ([]model.CargoSuscripcion, error) {
	var out []model.CargoSuscripcion
	for _, c := range r.cargos {
		if c.SuscripcionID == suscripcionID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fullSuscripcionRepo) ListPendingRetries(_ context.Context, now time.Time, limit int) ([]model.CargoSuscripcion, error) {
	var out []model.CargoSuscripcion
	for _, c := range r.cargos {
		if c.Estado == "pendiente" && c.NextRetryAt != nil && !c.NextRetryAt.After(now) {
			out = append(out, *c)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

var _ repository.SuscripcionRepository = (*fullSuscripcionRepo)(nil)

// ── Fixture ──────────────────────────────────────────────────────────────────

type suscripcionFixture struct {
	repo        *fullSuscripcionRepo
	clienteRepo *fullClienteRepo
	svc         SuscripcionService
	clienteID   uuid.UUID
	planID      uuid.UUID
}

func newSuscripcionFixture(t *testing.T) *suscripcionFixture {
	t.Helper()
	f := &suscripcionFixture{
		repo:        newFullSuscripcionRepo(),
		clienteRepo: newFullClienteRepo(),
	}
	f.svc = NewSuscripcionService(f.repo, f.clienteRepo)
	f.clienteID = f.clienteRepo.agregar("Café La Silla", "admin@lasilla.mx")

	plan, err := f.svc.CrearPlan(context.Background(), dto.CrearPlanRequest{
		Nombre:       "Plan Despensa",
		Precio:       decimal.NewFromInt(499),
		Periodicidad: "mensual",
	})
	require.NoError(t, err)
	f.planID = uuid.MustParse(plan.ID)
	return f
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestAltaSuscripcion(t *testing.T) {
	f := newSuscripcionFixture(t)

	resp, err := f.svc.Alta(context.Background(), dto.AltaSuscripcionRequest{
		ClienteID: f.clienteID.String(),
		PlanID:    f.planID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, "activa", resp.Estado)
	assert.Equal(t, "Café La Silla", resp.Cliente)
	assert.Equal(t, "Plan Despensa", resp.Plan)
}

func TestAltaSuscripcionDuplicada(t *testing.T) {
	f := newSuscripcionFixture(t)

	_, err := f.svc.Alta(context.Background(), dto.AltaSuscripcionRequest{
		ClienteID: f.clienteID.String(),
		PlanID:    f.planID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.Alta(context.Background(), dto.AltaSuscripcionRequest{
		ClienteID: f.clienteID.String(),
		PlanID:    f.planID.String(),
	})
	assert.ErrorContains(t, err, "ya tiene una suscripción")
}

func TestAltaPlanInactivo(t *testing.T) {
	f := newSuscripcionFixture(t)
	f.repo.planes[f.planID].Activo = false

	_, err := f.svc.Alta(context.Background(), dto.AltaSuscripcionRequest{
		ClienteID: f.clienteID.String(),
		PlanID:    f.planID.String(),
	})
	assert.ErrorContains(t, err, "no está disponible")
}

func TestCancelarSuscripcion(t *testing.T) {
	f := newSuscripcionFixture(t)

	resp, err := f.svc.Alta(context.Background(), dto.AltaSuscripcionRequest{
		ClienteID: f.clienteID.String(),
		PlanID:    f.planID.String(),
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.Cancelar(context.Background(), id))
	sus := f.repo.suscripciones[id]
	assert.Equal(t, "cancelada", sus.Estado)
	assert.NotNil(t, sus.CanceladaAt)

	err = f.svc.Cancelar(context.Background(), id)
	assert.ErrorContains(t, err, "ya está cancelada")
}

func TestAltaTrasCancelacionPermitida(t *testing.T) {
	f := newSuscripcionFixture(t)

	resp, err := f.svc.Alta(context.Background(), dto.AltaSuscripcionRequest{
		ClienteID: f.clienteID.String(),
		PlanID:    f.planID.String(),
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancelar(context.Background(), uuid.MustParse(resp.ID)))

	// A cancelled subscription doesn't block a fresh alta
	_, err = f.svc.Alta(context.Background(), dto.AltaSuscripcionRequest{
		ClienteID: f.clienteID.String(),
		PlanID:    f.planID.String(),
	})
	assert.NoError(t, err)
}

func TestListarCargos(t *testing.T) {
	f := newSuscripcionFixture(t)

	resp, err := f.svc.Alta(context.Background(), dto.AltaSuscripcionRequest{
		ClienteID: f.clienteID.String(),
		PlanID:    f.planID.String(),
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	ref := "ch_1"
	require.NoError(t, f.repo.CreateCargo(context.Background(), &model.CargoSuscripcion{
		SuscripcionID: id, Monto: decimal.NewFromInt(499), Periodo: "2026-09",
		Estado: "pagado", ReferenciaPago: &ref,
	}))

	cargos, err := f.svc.ListarCargos(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, cargos, 1)
	assert.Equal(t, "pagado", cargos[0].Estado)
	assert.Equal(t, "2026-09", cargos[0].Periodo)
}
