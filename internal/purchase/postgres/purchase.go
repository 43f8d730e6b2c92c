package postgres

import (
	"context"
	"errors"

	purchaseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/purchase"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	ledgerPostgres "github.com/haingladys/jsdc-accounting/internal/ledger/postgres"
	"gorm.io/gorm"
)

// PurchaseRepository implements purchase.Repository using GORM
type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Create(ctx context.Context, p *purchaseDatamodel.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PurchaseRepository) Update(ctx context.Context, p *purchaseDatamodel.Purchase) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PurchaseRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&purchaseDatamodel.Purchase{}).Error
}

// GetByID returns nil without error when the purchase does not exist.
func (r *PurchaseRepository) GetByID(ctx context.Context, id string) (*purchaseDatamodel.Purchase, error) {
	var p purchaseDatamodel.Purchase
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PurchaseRepository) List(ctx context.Context, filter ledger.Filter) ([]*purchaseDatamodel.Purchase, error) {
	var purchases []*purchaseDatamodel.Purchase
	query := ledgerPostgres.ApplyFilter(r.db.WithContext(ctx).Model(&purchaseDatamodel.Purchase{}), filter,
		"category", "vendor", "description", "notes")
	err := query.Find(&purchases).Error
	return purchases, err
}

func (r *PurchaseRepository) Totals(ctx context.Context, start, end string) (ledger.Totals, error) {
	return ledgerPostgres.SumTotals(r.db.WithContext(ctx).Model(&purchaseDatamodel.Purchase{}), start, end, "total_amount", "gst_amount")
}
