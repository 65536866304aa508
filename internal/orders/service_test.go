package orders

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-demo/pkg/db"
	"github.com/angelmondragon/storefront-demo/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// countingTx runs transactions on the test database and counts them.
type countingTx struct {
	client *db.Client
	calls  int
}

func (c *countingTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	c.calls++
	return c.client.WithTx(ctx, fn)
}

func newTestServiceWithTx(t *testing.T) (Service, *countingTx) {
	t.Helper()
	conn := setupOrdersTestDB(t)
	tx := &countingTx{client: db.NewFromConn(conn)}
	svc, err := NewService(NewRepository(conn), tx, History())
	require.NoError(t, err)
	return svc, tx
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, _ := newTestServiceWithTx(t)
	return svc
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	_, err := NewService(nil, nil, nil)
	require.Error(t, err)
	_, err = NewService(NewRepository(setupOrdersTestDB(t)), nil, nil)
	require.Error(t, err)
}

func TestRecordRunsInTransaction(t *testing.T) {
	svc, tx := newTestServiceWithTx(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, sampleOrder("TXORDER1", "s", time.Now())))
	assert.Equal(t, 1, tx.calls)

	err := svc.Record(ctx, sampleOrder("TXORDER1", "s", time.Now()))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)
	assert.Equal(t, 2, tx.calls)

	detail, err := svc.Get(ctx, "TXORDER1")
	require.NoError(t, err)
	assert.Len(t, detail.Order.Lines, 2, "lines are stored with the order")
}

func TestRecordRejectsEmptyOrders(t *testing.T) {
	svc, tx := newTestServiceWithTx(t)
	order := sampleOrder("EMPTY001", "s", time.Now())
	order.Lines = nil

	err := svc.Record(context.Background(), order)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Zero(t, tx.calls)

	_, err = svc.Get(context.Background(), "EMPTY001")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListPrependsPlacedOrders(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	summaries, err := svc.List(ctx, "session-a")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "ORD123456", summaries[0].OrderNumber)
	assert.Equal(t, enums.OrderStatusInTransit, summaries[1].Status)

	placedAt := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.Record(ctx, sampleOrder("ZX90QW12", "session-a", placedAt)))

	summaries, err = svc.List(ctx, "session-a")
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "ZX90QW12", summaries[0].OrderNumber)
	assert.Equal(t, "March 3, 2025", summaries[0].Date)
	assert.True(t, summaries[0].Placed)
	require.Len(t, summaries[0].Items, 2)
	assert.Equal(t, "Magic Rainbow Socks", summaries[0].Items[0].Name)

	others, err := svc.List(ctx, "session-b")
	require.NoError(t, err)
	assert.Len(t, others, 2)
}

func TestGetResolvesPlacedAndHistorical(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, sampleOrder("PLACED01", "s", time.Now())))

	placed, err := svc.Get(ctx, "PLACED01")
	require.NoError(t, err)
	require.NotNil(t, placed.Order)
	assert.Equal(t, "4242", placed.Order.CardLast4)

	historical, err := svc.Get(ctx, "ORD123457")
	require.NoError(t, err)
	assert.Nil(t, historical.Order)
	assert.Equal(t, "84.99", historical.Total.String())

	_, err = svc.Get(ctx, "MISSING")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRecordRequiresNumber(t *testing.T) {
	svc := newTestService(t)
	err := svc.Record(context.Background(), Order{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
