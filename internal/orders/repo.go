package orders

import (
	"context"
	"errors"

	"github.com/angelmondragon/storefront-demo/pkg/db"
	"github.com/angelmondragon/storefront-demo/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"gorm.io/gorm"
)

// Repository persists placed orders keyed by order number.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order Order) error
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]Order, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts the order with its lines. A reused order number yields CodeConflict.
func (r *repository) Create(ctx context.Context, order Order) error {
	record := toModel(order)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number already exists")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}
	return nil
}

func (r *repository) FindByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	var record models.PlacedOrder
	err := r.db.WithContext(ctx).
		Preload("Lines", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Where("order_number = ?", orderNumber).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find order")
	}
	order := fromModel(record)
	return &order, nil
}

// ListBySession returns the session's orders, newest first.
func (r *repository) ListBySession(ctx context.Context, sessionID string) ([]Order, error) {
	var records []models.PlacedOrder
	err := r.db.WithContext(ctx).
		Preload("Lines", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Where("session_id = ?", sessionID).
		Order("placed_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	out := make([]Order, 0, len(records))
	for _, record := range records {
		out = append(out, fromModel(record))
	}
	return out, nil
}
