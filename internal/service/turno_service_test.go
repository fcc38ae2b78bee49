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

// ── Full in-memory TurnoRepository ───────────────────────────────────────────

type fakeVenta struct {
	metodo  string
	importe decimal.Decimal
}

type fullTurnoRepo struct {
	turnos    map[uuid.UUID]*model.Turno
	ventas    map[uuid.UUID][]fakeVenta
	nextFolio int
}

func newFullTurnoRepo() *fullTurnoRepo {
	return &fullTurnoRepo{
		turnos: make(map[uuid.UUID]*model.Turno),
		ventas: make(map[uuid.UUID][]fakeVenta),
	}
}

func (r *fullTurnoRepo) Create(_ context.Context, t *model.Turno) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.turnos[t.ID] = t
	return nil
}

func (r *fullTurnoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Turno, error) {
	t, ok := r.turnos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

func (r *fullTurnoRepo) FindAbiertoPorSucursal(_ context.Context, sucursal string) (*model.Turno, error) {
	for _, t := range r.turnos {
		if t.Sucursal == sucursal && t.Estado == "abierto" {
			return t, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fullTurnoRepo) Update(_ context.Context, t *model.Turno) error {
	r.turnos[t.ID] = t
	return nil
}

func (r *fullTurnoRepo) ListCerrados(_ context.Context, page, limit int) ([]model.Turno, int64, error) {
	var cerrados []model.Turno
	for _, t := range r.turnos {
		if t.Estado == "cerrado" {
			cerrados = append(cerrados, *t)
		}
	}
	total := int64(len(cerrados))
	start := (page - 1) * limit
	if start >= len(cerrados) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(cerrados) {
		end = len(cerrados)
	}
	return cerrados[start:end], total, nil
}

func (r *fullTurnoRepo) ResumenVentas(_ context.Context, turnoID uuid.UUID) (map[string]repository.MetodoAgregado, error) {
	sums := make(map[string]repository.MetodoAgregado)
	for _, v := range r.ventas[turnoID] {
		agg := sums[v.metodo]
		agg.Cantidad++
		agg.Importe = agg.Importe.Add(v.importe)
		sums[v.metodo] = agg
	}
	return sums, nil
}

func (r *fullTurnoRepo) NextFolio(_ context.Context) (int, error) {
	r.nextFolio++
	return r.nextFolio, nil
}

var _ repository.TurnoRepository = (*fullTurnoRepo)(nil)

func abrirTurno(t *testing.T, svc TurnoService, fondo float64) uuid.UUID {
	t.Helper()
	resp, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirTurnoRequest{
		Sucursal:     "matriz",
		TurnoLaboral: "matutino",
		FondoInicial: decimal.NewFromFloat(fondo),
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.TurnoID)
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestAbrirTurno(t *testing.T) {
	repo := newFullTurnoRepo()
	svc := NewTurnoService(repo)

	resp, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirTurnoRequest{
		Sucursal:     "matriz",
		TurnoLaboral: "vespertino",
		FondoInicial: decimal.NewFromFloat(500),
	})

	require.NoError(t, err)
	assert.Equal(t, "abierto", resp.Estado)
	assert.Equal(t, 1, resp.Folio)
	assert.Equal(t, "matriz", resp.Sucursal)
	assert.Equal(t, decimal.NewFromFloat(500).String(), resp.FondoInicial.String())
	assert.Nil(t, resp.ClosedAt)
}

func TestAbrirTurnoFondoNegativo(t *testing.T) {
	repo := newFullTurnoRepo()
	svc := NewTurnoService(repo)

	_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirTurnoRequest{
		Sucursal:     "matriz",
		TurnoLaboral: "matutino",
		FondoInicial: decimal.NewFromFloat(-100),
	})
	assert.ErrorContains(t, err, "fondo inicial")
	assert.Empty(t, repo.turnos)
}

func TestAbrirTurnoDuplicado(t *testing.T) {
	repo := newFullTurnoRepo()
	svc := NewTurnoService(repo)

	abrirTurno(t, svc, 500)

	// Second open on the same sucursal should fail
	_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirTurnoRequest{
		Sucursal:     "matriz",
		TurnoLaboral: "vespertino",
		FondoInicial: decimal.NewFromFloat(300),
	})
	assert.ErrorIs(t, err, ErrTurnoYaAbierto)

	// A different sucursal can still open
	_, err = svc.Abrir(context.Background(), uuid.New(), dto.AbrirTurnoRequest{
		Sucursal:     "norte",
		TurnoLaboral: "vespertino",
		FondoInicial: decimal.NewFromFloat(300),
	})
	assert.NoError(t, err)
}

func TestCorteCuadrado(t *testing.T) {
	repo := newFullTurnoRepo()
	svc := NewTurnoService(repo)

	turnoID := abrirTurno(t, svc, 500)

	// Cash sales for 1230.50, plus card sales that never touch the drawer
	repo.ventas[turnoID] = []fakeVenta{
		{metodo: "efectivo", importe: decimal.NewFromFloat(1000)},
		{metodo: "efectivo", importe: decimal.NewFromFloat(230.50)},
		{metodo: "tarjeta", importe: decimal.NewFromFloat(800)},
	}

	// Counted exactly 500 + 1230.50 = 1730.50
	corte, err := svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{
		TurnoID:         turnoID.String(),
		EfectivoContado: decimal.NewFromFloat(1730.50),
	})
	require.NoError(t, err)

	assert.Equal(t, "cuadrado", corte.Clasificacion)
	assert.Equal(t, decimal.NewFromFloat(1730.50).String(), corte.EfectivoEsperado.String())
	assert.True(t, corte.Diferencia.IsZero())
	assert.Equal(t, "cerrado", corte.Estado)
	assert.Equal(t, 2, corte.Resumen.Efectivo.Cantidad)
	assert.Equal(t, 1, corte.Resumen.Tarjeta.Cantidad)
	assert.Equal(t, 3, corte.Resumen.TotalVentas)
}

func TestCorteFaltante(t *testing.T) {
	repo := newFullTurnoRepo()
	svc := NewTurnoService(repo)

	turnoID := abrirTurno(t, svc, 500)
	repo.ventas[turnoID] = []fakeVenta{
		{metodo: "efectivo", importe: decimal.NewFromFloat(1230.50)},
	}

	// Counted 1700 against an expected 1730.50
	corte, err := svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{
		TurnoID:         turnoID.String(),
		EfectivoContado: decimal.NewFromFloat(1700),
	})
	require.NoError(t, err)

	assert.Equal(t, "faltante", corte.Clasificacion)
	assert.Equal(t, decimal.NewFromFloat(-30.50).String(), corte.Diferencia.String())
}

func TestCorteSobrante(t *testing.T) {
	repo := newFullTurnoRepo()
	svc := NewTurnoService(repo)

	turnoID := abrirTurno(t, svc, 1000)

	corte, err := svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{
		TurnoID:         turnoID.String(),
		EfectivoContado: decimal.NewFromFloat(1000.05),
	})
	require.NoError(t, err)

	assert.Equal(t, "sobrante", corte.Clasificacion)
	assert.Equal(t, decimal.NewFromFloat(0.05).String(), corte.Diferencia.String())
}

func TestCorteDiferenciaBajoUmbral(t *testing.T) {
	repo := newFullTurnoRepo()
	svc := NewTurnoService(repo)

	turnoID := abrirTurno(t, svc, 1000)

	// Half a centavo off still counts as cuadrado
	corte, err := svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{
		TurnoID:         turnoID.String(),
		EfectivoContado: decimal.NewFromFloat(1000.005),
	})
	require.NoError(t, err)
	assert.Equal(t, "cuadrado", corte.Clasificacion)
}

func TestCerrarTurnoYaCerrado(t *testing.T) {
	repo := newFullTurnoRepo()
	svc := NewTurnoService(repo)

	turnoID := abrirTurno(t, svc, 500)
	_, err := svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{
		TurnoID:         turnoID.String(),
		EfectivoContado: decimal.NewFromFloat(500),
	})
	require.NoError(t, err)

	_, err = svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{
		TurnoID:         turnoID.String(),
		EfectivoContado: decimal.NewFromFloat(500),
	})
	assert.ErrorContains(t, err, "ya está cerrado")
}

func TestCerrarEfectivoContadoNegativo(t *testing.T) {
	repo := newFullTurnoRepo()
	svc := NewTurnoService(repo)

	turnoID := abrirTurno(t, svc, 500)
	_, err := svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{
		TurnoID:         turnoID.String(),
		EfectivoContado: decimal.NewFromFloat(-1),
	})
	assert.ErrorContains(t, err, "no puede ser negativo")

	// Turno stays open after the rejected corte
	turno := repo.turnos[turnoID]
	assert.Equal(t, "abierto", turno.Estado)
}

func TestFondoInicialInmutable(t *testing.T) {
	repo := newFullTurnoRepo()
	svc := NewTurnoService(repo)

	turnoID := abrirTurno(t, svc, 750)
	repo.ventas[turnoID] = []fakeVenta{
		{metodo: "efectivo", importe: decimal.NewFromFloat(100)},
	}

	corte, err := svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{
		TurnoID:         turnoID.String(),
		EfectivoContado: decimal.NewFromFloat(850),
	})
	require.NoError(t, err)
	assert.Equal(t, "cuadrado", corte.Clasificacion)

	turno := repo.turnos[turnoID]
	assert.Equal(t, decimal.NewFromFloat(750).String(), turno.FondoInicial.String())
}

func TestHistorialSoloCerrados(t *testing.T) {
	repo := newFullTurnoRepo()
	svc := NewTurnoService(repo)

	abierto := abrirTurno(t, svc, 500)
	_ = abierto

	cerradoID := uuid.New()
	now := time.Now()
	contado := decimal.NewFromFloat(900)
	repo.turnos[cerradoID] = &model.Turno{
		ID: cerradoID, Folio: 99, Sucursal: "norte", TurnoLaboral: "nocturno",
		FondoInicial: decimal.NewFromFloat(900), EfectivoContado: &contado,
		Estado: "cerrado", OpenedAt: now.Add(-8 * time.Hour), ClosedAt: &now,
	}

	lista, total, err := svc.Historial(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, lista, 1)
	assert.Equal(t, 99, lista[0].Folio)
}

func TestResumenTimestampsEnUTC(t *testing.T) {
	repo := newFullTurnoRepo()
	svc := NewTurnoService(repo)

	// A wall-clock value in a non-UTC zone must serialize as its UTC instant,
	// not as local time stamped "Z".
	cdmx := time.FixedZone("America/Mexico_City", -6*60*60)
	opened := time.Date(2026, 8, 31, 18, 30, 0, 0, cdmx)
	closed := opened.Add(8 * time.Hour)
	contado := decimal.NewFromFloat(500)

	id := uuid.New()
	repo.turnos[id] = &model.Turno{
		ID: id, Folio: 7, Sucursal: "matriz", TurnoLaboral: "vespertino",
		FondoInicial: decimal.NewFromFloat(500), EfectivoContado: &contado,
		Estado: "cerrado", OpenedAt: opened, ClosedAt: &closed,
	}

	resp, err := svc.Resumen(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01T00:30:00Z", resp.OpenedAt)
	require.NotNil(t, resp.ClosedAt)
	assert.Equal(t, "2026-09-01T08:30:00Z", *resp.ClosedAt)
}

func TestClasificarDiferencia(t *testing.T) {
	cases := []struct {
		dif  float64
		want string
	}{
		{0, "cuadrado"},
		{0.009, "cuadrado"},
		{-0.009, "cuadrado"},
		{0.01, "sobrante"},
		{12.50, "sobrante"},
		{-0.01, "faltante"},
		{-30.50, "faltante"},
	}
	for _, c := range cases {
		got := clasificarDiferencia(decimal.NewFromFloat(c.dif))
		assert.Equal(t, c.want, got, "diferencia %v", c.dif)
	}
}
