package order_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/Additional-Code/storefront/internal/database"
	"github.com/Additional-Code/storefront/internal/entity"
	"github.com/Additional-Code/storefront/internal/repository/order"
)

var dbSeq atomic.Int64

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:orderrepo%d?mode=memory&cache=shared", dbSeq.Add(1))
	sqldb, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	database.RegisterModels(db)
	require.NoError(t, database.EnsureSchema(context.Background(), db))
	return db
}

func seedCustomer(t *testing.T, db *bun.DB, name string) int64 {
	t.Helper()
	c := &entity.Customer{Name: name, Email: name + "@example.com", Phone: "5550100"}
	_, err := db.NewInsert().Model(c).Exec(context.Background())
	require.NoError(t, err)
	return c.ID
}

func seedProduct(t *testing.T, db *bun.DB, name string, price float64) int64 {
	t.Helper()
	p := &entity.Product{Name: name, Price: price}
	_, err := db.NewInsert().Model(p).Exec(context.Background())
	require.NoError(t, err)
	return p.ID
}

func joinRowCount(t *testing.T, db *bun.DB, orderID int64) int {
	t.Helper()
	count, err := db.NewSelect().Model((*entity.OrderProduct)(nil)).
		Where("order_id = ?", orderID).
		Count(context.Background())
	require.NoError(t, err)
	return count
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func TestCreateDeduplicatesProductIDs(t *testing.T) {
	db := newTestDB(t)
	repo := order.NewRepository(&database.Connections{Writer: db, Reader: db})
	ctx := context.Background()

	customerID := seedCustomer(t, db, "Ada")
	widgetID := seedProduct(t, db, "Widget", 9.99)

	o := &entity.Order{Date: mustDate(t, "2024-05-01"), CustomerID: customerID}
	require.NoError(t, repo.Create(ctx, o, []int64{widgetID, widgetID, widgetID}))
	assert.Equal(t, 1, joinRowCount(t, db, o.ID))
}

func TestUpdateReplacesAssociationSet(t *testing.T) {
	db := newTestDB(t)
	repo := order.NewRepository(&database.Connections{Writer: db, Reader: db})
	ctx := context.Background()

	customerID := seedCustomer(t, db, "Ada")
	widgetID := seedProduct(t, db, "Widget", 9.99)
	gadgetID := seedProduct(t, db, "Gadget", 24.5)

	o := &entity.Order{Date: mustDate(t, "2024-05-01"), CustomerID: customerID}
	require.NoError(t, repo.Create(ctx, o, []int64{widgetID}))

	o.Date = mustDate(t, "2024-06-02")
	require.NoError(t, repo.Update(ctx, o, []int64{gadgetID}, true))

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Date.Equal(mustDate(t, "2024-06-02")))
	require.Len(t, orders[0].Products, 1)
	assert.Equal(t, gadgetID, orders[0].Products[0].ID)
}

func TestUpdateWithoutReplaceKeepsAssociations(t *testing.T) {
	db := newTestDB(t)
	repo := order.NewRepository(&database.Connections{Writer: db, Reader: db})
	ctx := context.Background()

	customerID := seedCustomer(t, db, "Ada")
	widgetID := seedProduct(t, db, "Widget", 9.99)
	gadgetID := seedProduct(t, db, "Gadget", 24.5)

	o := &entity.Order{Date: mustDate(t, "2024-05-01"), CustomerID: customerID}
	require.NoError(t, repo.Create(ctx, o, []int64{widgetID, gadgetID}))

	o.Date = mustDate(t, "2024-06-02")
	require.NoError(t, repo.Update(ctx, o, nil, false))
	assert.Equal(t, 2, joinRowCount(t, db, o.ID))
}

func TestUpdateMissingOrderReturnsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := order.NewRepository(&database.Connections{Writer: db, Reader: db})
	ctx := context.Background()

	o := &entity.Order{ID: 999, Date: mustDate(t, "2024-05-01"), CustomerID: 1}
	err := repo.Update(ctx, o, nil, false)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestDeleteRemovesAssociationRows(t *testing.T) {
	db := newTestDB(t)
	repo := order.NewRepository(&database.Connections{Writer: db, Reader: db})
	ctx := context.Background()

	customerID := seedCustomer(t, db, "Ada")
	widgetID := seedProduct(t, db, "Widget", 9.99)
	gadgetID := seedProduct(t, db, "Gadget", 24.5)

	o := &entity.Order{Date: mustDate(t, "2024-05-01"), CustomerID: customerID}
	require.NoError(t, repo.Create(ctx, o, []int64{widgetID, gadgetID}))
	require.Equal(t, 2, joinRowCount(t, db, o.ID))

	require.NoError(t, repo.Delete(ctx, o.ID))
	assert.Equal(t, 0, joinRowCount(t, db, o.ID))

	err := repo.Delete(ctx, o.ID)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestListByCustomerFilters(t *testing.T) {
	db := newTestDB(t)
	repo := order.NewRepository(&database.Connections{Writer: db, Reader: db})
	ctx := context.Background()

	adaID := seedCustomer(t, db, "Ada")
	graceID := seedCustomer(t, db, "Grace")

	for _, customerID := range []int64{adaID, adaID, graceID} {
		o := &entity.Order{Date: mustDate(t, "2024-05-01"), CustomerID: customerID}
		require.NoError(t, repo.Create(ctx, o, nil))
	}

	orders, err := repo.ListByCustomer(ctx, adaID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, adaID, o.CustomerID)
	}
}
