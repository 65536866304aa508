package orders

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the order history and placed-order lookups.
type Service interface {
	Record(ctx context.Context, order Order) error
	List(ctx context.Context, sessionID string) ([]Summary, error)
	Get(ctx context.Context, orderNumber string) (*Detail, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	history []Summary
}

// NewService builds the orders service backed by repo and the fixed history list.
func NewService(repo Repository, tx txRunner, history []Summary) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, history: history}, nil
}

// Record stores a placed order and its lines in one transaction. Orders are immutable;
// re-recording a number is a conflict.
func (s *service) Record(ctx context.Context, order Order) error {
	if order.OrderNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	if len(order.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order has no lines")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		_, err := repo.FindByNumber(ctx, order.OrderNumber)
		switch {
		case err == nil:
			return pkgerrors.New(pkgerrors.CodeConflict, "order number already exists")
		case !pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
			return err
		}
		return repo.Create(ctx, order)
	})
}

// List returns the session's placed orders followed by the fixed history.
func (s *service) List(ctx context.Context, sessionID string) ([]Summary, error) {
	placed, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(placed)+len(s.history))
	for _, order := range placed {
		out = append(out, Summarize(order))
	}
	out = append(out, s.history...)
	return out, nil
}

// Get resolves a placed order or a historical one by number. Order numbers are the lookup key
// for tracking links, so any session holding one may read the order.
func (s *service) Get(ctx context.Context, orderNumber string) (*Detail, error) {
	order, err := s.repo.FindByNumber(ctx, orderNumber)
	if err == nil {
		return &Detail{Summary: Summarize(*order), Order: order}, nil
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return nil, err
	}
	for _, summary := range s.history {
		if summary.OrderNumber == orderNumber {
			return &Detail{Summary: summary}, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}
