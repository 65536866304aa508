package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-demo/internal/cart"
	"github.com/angelmondragon/storefront-demo/pkg/db"
	"github.com/angelmondragon/storefront-demo/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-demo/pkg/errors"
	"github.com/angelmondragon/storefront-demo/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())))
	require.NoError(t, err)
	require.NoError(t, db.NewFromConn(conn).Migrate(context.Background()))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func sampleOrder(number, sessionID string, placedAt time.Time) Order {
	lines := []cart.Line{
		{ItemID: 1, Name: "Magic Rainbow Socks", UnitPrice: types.MustMoney("19.99"), Quantity: 2},
		{ItemID: 8, Name: "RGB Gaming Gloves", UnitPrice: types.MustMoney("39.99"), Quantity: 1},
	}
	return Order{
		OrderNumber: number,
		SessionID:   sessionID,
		Lines:       lines,
		Totals: cart.Totals{
			Subtotal:  types.MustMoney("79.97"),
			Tax:       types.MustMoney("6.40"),
			Total:     types.MustMoney("86.37"),
			ItemCount: 3,
		},
		Shipping: ShippingAddress{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Address:   "1 Analytical Way",
			City:      "London",
			State:     "LDN",
			ZipCode:   "N1",
			Country:   string(enums.ShippingCountryUnitedKingdom),
		},
		CardLast4: "4242",
		PlacedAt:  placedAt,
		Status:    enums.OrderStatusConfirmed,
	}
}

func TestRepositoryCreateAndFind(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	placedAt := time.Date(2025, time.March, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, sampleOrder("AB12CD34", "session-1", placedAt)))

	found, err := repo.FindByNumber(ctx, "AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, "session-1", found.SessionID)
	require.Len(t, found.Lines, 2)
	assert.Equal(t, 1, found.Lines[0].ItemID)
	assert.Equal(t, 2, found.Lines[0].Quantity)
	assert.Equal(t, "19.99", found.Lines[0].UnitPrice.String())
	assert.Equal(t, "86.37", found.Totals.Total.String())
	assert.Equal(t, 3, found.Totals.ItemCount)
	assert.Equal(t, "London", found.Shipping.City)
	assert.Equal(t, "4242", found.CardLast4)
	assert.True(t, found.PlacedAt.Equal(placedAt))
	assert.Equal(t, enums.OrderStatusConfirmed, found.Status)
}

func TestRepositoryRejectsDuplicateNumber(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleOrder("DUPLICAT", "s", time.Now())))
	err := repo.Create(ctx, sampleOrder("DUPLICAT", "s", time.Now()))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)
}

func TestRepositoryFindMissing(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	_, err := repo.FindByNumber(context.Background(), "NOPE0000")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRepositoryListBySessionNewestFirst(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, sampleOrder("OLDER001", "mine", base)))
	require.NoError(t, repo.Create(ctx, sampleOrder("NEWER002", "mine", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, sampleOrder("OTHER003", "theirs", base)))

	orders, err := repo.ListBySession(ctx, "mine")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "NEWER002", orders[0].OrderNumber)
	assert.Equal(t, "OLDER001", orders[1].OrderNumber)
	require.Len(t, orders[0].Lines, 2)
}
