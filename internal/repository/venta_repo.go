package repository

import (
	"context"

	"github.com/rirobledo1/POSAI-sub001/internal/dto"
	"github.com/rirobledo1/POSAI-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AgregadoDiario is the per-day aggregate consumed by the dashboard.
type AgregadoDiario struct {
	Cantidad  int
	Bruto     decimal.Decimal
	Descuento decimal.Decimal
	Neto      decimal.Decimal
}

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	NextFolio(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	ResumenDiario(ctx context.Context, fecha string) (AgregadoDiario, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items.Producto").Preload("Cliente").First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *ventaRepo) NextFolio(ctx context.Context, tx *gorm.DB) (int, error) {
	// PostgreSQL sequence keeps folios atomic and gap-tolerant
	var folio int
	err := tx.WithContext(ctx).Raw("SELECT nextval('ventas_folio_seq')").Scan(&folio).Error
	return folio, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	} else {
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Producto").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

func (r *ventaRepo) ResumenDiario(ctx context.Context, fecha string) (AgregadoDiario, error) {
	var agg AgregadoDiario
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*)                          AS cantidad,
		            COALESCE(SUM(importe_articulos), 0) AS bruto,
		            COALESCE(SUM(descuento_monto), 0)   AS descuento,
		            COALESCE(SUM(total), 0)             AS neto
		     FROM ventas
		     WHERE DATE(created_at) = ? AND estado = 'completada'`, fecha).
		Scan(&agg).Error
	return agg, err
}
