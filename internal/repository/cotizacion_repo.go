package repository

import (
	"context"
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CotizacionRepository interface {
	Create(ctx context.Context, c *model.Cotizacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cotizacion, error)
	List(ctx context.Context, estado string, page, limit int) ([]model.Cotizacion, int64, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	// MarcarVencidas flips every "vigente" quotation whose expiry passed.
	MarcarVencidas(ctx context.Context, now time.Time) (int64, error)
	NextFolio(ctx context.Context) (int, error)
}

type cotizacionRepo struct{ db *gorm.DB }

func NewCotizacionRepository(db *gorm.DB) CotizacionRepository { return &cotizacionRepo{db: db} }

func (r *cotizacionRepo) Create(ctx context.Context, c *model.Cotizacion) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cotizacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cotizacion, error) {
	var c model.Cotizacion
	err := r.db.WithContext(ctx).Preload("Items.Producto").Preload("Cliente").First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cotizacionRepo) List(ctx context.Context, estado string, page, limit int) ([]model.Cotizacion, int64, error) {
	var list []model.Cotizacion
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cotizacion{})
	if estado != "" && estado != "all" {
		q = q.Where("estado = ?", estado)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items.Producto").Preload("Cliente").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&list).Error
	return list, total, err
}

func (r *cotizacionRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.Cotizacion{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *cotizacionRepo) MarcarVencidas(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Cotizacion{}).
		Where("estado = 'vigente' AND expira_at < ?", now).
		Update("estado", "vencida")
	return res.RowsAffected, res.Error
}

func (r *cotizacionRepo) NextFolio(ctx context.Context) (int, error) {
	var folio int
	err := r.db.WithContext(ctx).Raw("SELECT nextval('cotizaciones_folio_seq')").Scan(&folio).Error
	return folio, err
}
