package repository

import (
	"context"

	"github.com/rirobledo1/POSAI-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MetodoAgregado is one row of the GROUP BY metodo_pago aggregate over a
// turno's completed sales.
type MetodoAgregado struct {
	Cantidad int
	Importe  decimal.Decimal
}

type TurnoRepository interface {
	Create(ctx context.Context, t *model.Turno) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	FindAbiertoPorSucursal(ctx context.Context, sucursal string) (*model.Turno, error)
	Update(ctx context.Context, t *model.Turno) error
	ListCerrados(ctx context.Context, page, limit int) ([]model.Turno, int64, error)
	// ResumenVentas aggregates the turno's completed sales per payment method.
	ResumenVentas(ctx context.Context, turnoID uuid.UUID) (map[string]MetodoAgregado, error)
	NextFolio(ctx context.Context) (int, error)
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) Create(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *turnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *turnoRepo) FindAbiertoPorSucursal(ctx context.Context, sucursal string) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).
		Where("sucursal = ? AND estado = 'abierto'", sucursal).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *turnoRepo) Update(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *turnoRepo) ListCerrados(ctx context.Context, page, limit int) ([]model.Turno, int64, error) {
	var turnos []model.Turno
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Turno{}).Where("estado = 'cerrado'")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("closed_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&turnos).Error
	return turnos, total, err
}

func (r *turnoRepo) ResumenVentas(ctx context.Context, turnoID uuid.UUID) (map[string]MetodoAgregado, error) {
	rows := []struct {
		MetodoPago string
		Cantidad   int
		Importe    decimal.Decimal
	}{}
	err := r.db.WithContext(ctx).
		Raw(`SELECT metodo_pago, COUNT(*) AS cantidad, COALESCE(SUM(total), 0) AS importe
		     FROM ventas
		     WHERE turno_id = ? AND estado = 'completada'
		     GROUP BY metodo_pago`, turnoID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[string]MetodoAgregado, len(rows))
	for _, row := range rows {
		sums[row.MetodoPago] = MetodoAgregado{Cantidad: row.Cantidad, Importe: row.Importe}
	}
	return sums, nil
}

func (r *turnoRepo) NextFolio(ctx context.Context) (int, error) {
	var folio int
	err := r.db.WithContext(ctx).Raw("SELECT nextval('turnos_folio_seq')").Scan(&folio).Error
	return folio, err
}
