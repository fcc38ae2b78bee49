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

// ── In-memory CotizacionRepository ───────────────────────────────────────────

type fullCotizacionRepo struct {
	cotizaciones map[uuid.UUID]*model.Cotizacion
	nextFolio    int
}

func newFullCotizacionRepo() *fullCotizacionRepo {
	return &fullCotizacionRepo{cotizaciones: make(map[uuid.UUID]*model.Cotizacion)}
}

func (r *fullCotizacionRepo) Create(_ context.Context, c *model.Cotizacion) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.cotizaciones[c.ID] = c
	return nil
}

func (r *fullCotizacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cotizacion, error) {
	c, ok := r.cotizaciones[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *fullCotizacionRepo) List(_ context.Context, estado string, _, _ int) ([]model.Cotizacion, int64, error) {
	var out []model.Cotizacion
	for _, c := range r.cotizaciones {
		if estado != "" && c.Estado != estado {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fullCotizacionRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	c, ok := r.cotizaciones[id]
	if !ok {
		return errors.New("not found")
	}
	c.Estado = estado
	return nil
}

func (r *fullCotizacionRepo) MarcarVencidas(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, c := range r.cotizaciones {
		if c.Estado == "vigente" && now.After(c.ExpiraAt) {
			c.Estado = "vencida"
			n++
		}
	}
	return n, nil
}

func (r *fullCotizacionRepo) NextFolio(_ context.Context) (int, error) {
	r.nextFolio++
	return r.nextFolio, nil
}

var _ repository.CotizacionRepository = (*fullCotizacionRepo)(nil)

// ── Fixture ──────────────────────────────────────────────────────────────────

type cotizacionFixture struct {
	repo         *fullCotizacionRepo
	productoRepo *fullProductoRepo
	clienteRepo  *fullClienteRepo
	svc          *cotizacionService
	clienteID    uuid.UUID
}

func newCotizacionFixture(t *testing.T) *cotizacionFixture {
	t.Helper()
	f := &cotizacionFixture{
		repo:         newFullCotizacionRepo(),
		productoRepo: newFullProductoRepo(),
		clienteRepo:  newFullClienteRepo(),
	}
	f.svc = NewCotizacionService(f.repo, f.productoRepo, f.clienteRepo, decimal.NewFromInt(16)).(*cotizacionService)
	f.clienteID = f.clienteRepo.agregar("Constructora Gama", "compras@gama.mx")
	return f
}

func (f *cotizacionFixture) crear(t *testing.T, productoID uuid.UUID, cantidad int) *dto.CotizacionResponse {
	t.Helper()
	resp, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearCotizacionRequest{
		ClienteID: f.clienteID.String(),
		Items: []dto.ItemCotizacionRequest{
			{ProductoID: productoID.String(), Cantidad: cantidad},
		},
	})
	require.NoError(t, err)
	return resp
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCrearCotizacion(t *testing.T) {
	f := newCotizacionFixture(t)
	producto := f.productoRepo.agregar("Cemento 50kg", 232, 0) // quoting ignores stock

	resp := f.crear(t, producto, 10)

	assert.Equal(t, 1, resp.Folio)
	assert.Equal(t, "vigente", resp.Estado)
	assert.Equal(t, 15, resp.VigenciaDias)
	assert.Equal(t, "2320", resp.Total.String())
	assert.Equal(t, "2000", resp.Subtotal.String())
	assert.Equal(t, "320", resp.IVA.String())
	assert.Equal(t, "Constructora Gama", resp.Cliente)
}

func TestCotizacionPrecioCongelado(t *testing.T) {
	f := newCotizacionFixture(t)
	producto := f.productoRepo.agregar("Cemento 50kg", 232, 0)

	resp := f.crear(t, producto, 1)

	// Raise the price after emitting the quotation
	f.productoRepo.productos[producto].Precio = decimal.NewFromInt(300)

	got, err := f.svc.Obtener(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "232", got.Total.String())
	assert.Equal(t, "232", got.Items[0].PrecioUnitario.String())
}

func TestAceptarCotizacion(t *testing.T) {
	f := newCotizacionFixture(t)
	producto := f.productoRepo.agregar("Cemento 50kg", 232, 0)
	resp := f.crear(t, producto, 1)

	got, err := f.svc.Aceptar(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "aceptada", got.Estado)

	_, err = f.svc.Aceptar(context.Background(), uuid.MustParse(resp.ID))
	assert.ErrorContains(t, err, "ya fue aceptada")
}

func TestAceptarCotizacionVencida(t *testing.T) {
	f := newCotizacionFixture(t)
	producto := f.productoRepo.agregar("Cemento 50kg", 232, 0)
	resp := f.crear(t, producto, 1)

	// Jump past the validity window
	f.svc.now = func() time.Time { return time.Now().AddDate(0, 0, 16) }

	_, err := f.svc.Aceptar(context.Background(), uuid.MustParse(resp.ID))
	assert.ErrorContains(t, err, "vencida")
	assert.Equal(t, "vencida", f.repo.cotizaciones[uuid.MustParse(resp.ID)].Estado)
}

func TestMarcarVencidas(t *testing.T) {
	f := newCotizacionFixture(t)
	producto := f.productoRepo.agregar("Cemento 50kg", 232, 0)

	f.crear(t, producto, 1)
	f.crear(t, producto, 2)

	f.svc.now = func() time.Time { return time.Now().AddDate(0, 0, 16) }
	n, err := f.svc.MarcarVencidas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// A second pass finds nothing left to expire
	n, err = f.svc.MarcarVencidas(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCotizacionVigenciaPersonalizada(t *testing.T) {
	f := newCotizacionFixture(t)
	producto := f.productoRepo.agregar("Cemento 50kg", 232, 0)

	resp, err := f.svc.Crear(context.Background(), uuid.New(), dto.CrearCotizacionRequest{
		ClienteID:    f.clienteID.String(),
		Items:        []dto.ItemCotizacionRequest{{ProductoID: producto.String(), Cantidad: 1}},
		VigenciaDias: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.VigenciaDias)
}
