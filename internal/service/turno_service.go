package service

import (
	"context"
	"errors"
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/dto"
	"github.com/rirobledo1/POSAI-sub001/internal/model"
	"github.com/rirobledo1/POSAI-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// umbralCuadrado is the tolerance under which a cash difference counts as
// exact. One centavo: anything below it is rounding noise, not a faltante.
var umbralCuadrado = decimal.NewFromFloat(0.01)

var (
	ErrTurnoYaAbierto    = errors.New("ya existe un turno abierto en esta sucursal")
	ErrTurnoNoAbierto    = errors.New("el turno no está abierto")
	ErrTurnoNoEncontrado = errors.New("turno no encontrado")
)

type TurnoService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error)
	Cerrar(ctx context.Context, req dto.CerrarTurnoRequest) (*dto.CorteResponse, error)
	Resumen(ctx context.Context, turnoID uuid.UUID) (*dto.TurnoResponse, error)
	Historial(ctx context.Context, page, limit int) ([]dto.TurnoResponse, int64, error)
	// FindAbierto is called by VentaService to validate an open turno.
	FindAbierto(ctx context.Context, turnoID uuid.UUID) (*model.Turno, error)
}

type turnoService struct {
	repo repository.TurnoRepository
}

func NewTurnoService(repo repository.TurnoRepository) TurnoService {
	return &turnoService{repo: repo}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *turnoService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error) {
	if req.FondoInicial.IsNegative() {
		return nil, errors.New("el fondo inicial no puede ser negativo")
	}

	// Guard: one open turno per sucursal. The partial unique index backs
	// this up against concurrent opens.
	if existing, err := s.repo.FindAbiertoPorSucursal(ctx, req.Sucursal); err == nil && existing != nil {
		return nil, ErrTurnoYaAbierto
	}

	folio, err := s.repo.NextFolio(ctx)
	if err != nil {
		return nil, err
	}

	turno := &model.Turno{
		Folio:        folio,
		Sucursal:     req.Sucursal,
		UsuarioID:    usuarioID,
		TurnoLaboral: req.TurnoLaboral,
		FondoInicial: req.FondoInicial,
		Estado:       "abierto",
		OpenedAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, turno); err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, turno)
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Corte de caja: blind count. The expected cash is computed only AFTER the
// cashier reports what was physically counted.

func (s *turnoService) Cerrar(ctx context.Context, req dto.CerrarTurnoRequest) (*dto.CorteResponse, error) {
	if req.EfectivoContado.IsNegative() {
		return nil, errors.New("el efectivo contado no puede ser negativo")
	}

	turnoID, err := uuid.Parse(req.TurnoID)
	if err != nil {
		return nil, errors.New("turno_id inválido")
	}

	turno, err := s.repo.FindByID(ctx, turnoID)
	if err != nil {
		return nil, ErrTurnoNoEncontrado
	}
	if turno.Estado != "abierto" {
		return nil, errors.New("el turno ya está cerrado")
	}

	resumen, err := s.buildResumen(ctx, turnoID)
	if err != nil {
		return nil, err
	}

	// Only cash sales live in the drawer; card and transfer money never
	// touches it.
	esperado := turno.FondoInicial.Add(resumen.Efectivo.Importe)
	diferencia := req.EfectivoContado.Sub(esperado)
	clasificacion := clasificarDiferencia(diferencia)

	now := time.Now()
	contado := req.EfectivoContado
	turno.EfectivoContado = &contado
	turno.EfectivoEsperado = &esperado
	turno.Diferencia = &diferencia
	turno.Clasificacion = &clasificacion
	turno.Estado = "cerrado"
	turno.Observaciones = req.Observaciones
	turno.ClosedAt = &now

	if err := s.repo.Update(ctx, turno); err != nil {
		return nil, err
	}

	return &dto.CorteResponse{
		TurnoID:          turno.ID.String(),
		Folio:            turno.Folio,
		EfectivoEsperado: esperado,
		EfectivoContado:  req.EfectivoContado,
		Diferencia:       diferencia,
		Clasificacion:    clasificacion,
		Resumen:          *resumen,
		Estado:           turno.Estado,
	}, nil
}

// ── Resumen / Historial ───────────────────────────────────────────────────────

func (s *turnoService) Resumen(ctx context.Context, turnoID uuid.UUID) (*dto.TurnoResponse, error) {
	turno, err := s.repo.FindByID(ctx, turnoID)
	if err != nil {
		return nil, ErrTurnoNoEncontrado
	}
	return s.buildResponse(ctx, turno)
}

func (s *turnoService) Historial(ctx context.Context, page, limit int) ([]dto.TurnoResponse, int64, error) {
	turnos, total, err := s.repo.ListCerrados(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.TurnoResponse, 0, len(turnos))
	for i := range turnos {
		resp, err := s.buildResponse(ctx, &turnos[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, total, nil
}

// ── FindAbierto ───────────────────────────────────────────────────────────────

func (s *turnoService) FindAbierto(ctx context.Context, turnoID uuid.UUID) (*model.Turno, error) {
	turno, err := s.repo.FindByID(ctx, turnoID)
	if err != nil {
		return nil, ErrTurnoNoEncontrado
	}
	if turno.Estado != "abierto" {
		return nil, ErrTurnoNoAbierto
	}
	return turno, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// clasificarDiferencia returns "cuadrado" | "sobrante" | "faltante".
// cuadrado: |diferencia| < $0.01; sobrante: positive; faltante: negative.
func clasificarDiferencia(dif decimal.Decimal) string {
	switch {
	case dif.Abs().LessThan(umbralCuadrado):
		return "cuadrado"
	case dif.IsPositive():
		return "sobrante"
	default:
		return "faltante"
	}
}

func (s *turnoService) buildResumen(ctx context.Context, turnoID uuid.UUID) (*dto.ResumenTurno, error) {
	sums, err := s.repo.ResumenVentas(ctx, turnoID)
	if err != nil {
		return nil, err
	}

	resumen := &dto.ResumenTurno{
		Efectivo:      metodoResumen(sums, "efectivo"),
		Tarjeta:       metodoResumen(sums, "tarjeta"),
		Transferencia: metodoResumen(sums, "transferencia"),
		Credito:       metodoResumen(sums, "credito"),
	}
	for _, m := range []dto.MetodoResumen{resumen.Efectivo, resumen.Tarjeta, resumen.Transferencia, resumen.Credito} {
		resumen.TotalVentas += m.Cantidad
		resumen.TotalImporte = resumen.TotalImporte.Add(m.Importe)
	}
	return resumen, nil
}

func metodoResumen(sums map[string]repository.MetodoAgregado, metodo string) dto.MetodoResumen {
	agg := sums[metodo]
	return dto.MetodoResumen{Cantidad: agg.Cantidad, Importe: agg.Importe}
}

func (s *turnoService) buildResponse(ctx context.Context, turno *model.Turno) (*dto.TurnoResponse, error) {
	resumen, err := s.buildResumen(ctx, turno.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.TurnoResponse{
		TurnoID:          turno.ID.String(),
		Folio:            turno.Folio,
		Sucursal:         turno.Sucursal,
		TurnoLaboral:     turno.TurnoLaboral,
		FondoInicial:     turno.FondoInicial,
		Resumen:          *resumen,
		EfectivoEsperado: turno.EfectivoEsperado,
		EfectivoContado:  turno.EfectivoContado,
		Diferencia:       turno.Diferencia,
		Clasificacion:    turno.Clasificacion,
		Estado:           turno.Estado,
		Observaciones:    turno.Observaciones,
		OpenedAt:         turno.OpenedAt.UTC().Format(time.RFC3339),
	}
	if turno.ClosedAt != nil {
		t := turno.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp, nil
}
