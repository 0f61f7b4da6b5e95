package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-inventory-history/internal/model"
	"go-inventory-history/internal/repository"
	"go-inventory-history/internal/testdb"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(sku string, qty, minStock int, price string) *model.Product {
	return &model.Product{
		Name:     "Product " + sku,
		Category: "Hardware",
		Quantity: qty,
		MinStock: minStock,
		Price:    decimal.RequireFromString(price),
		SKU:      sku,
		Unit:     model.DefaultUnit,
	}
}

func TestProductRepo_CreateFindAndDuplicateSKU(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewProductRepo(db)
	ctx := context.Background()

	p := newProduct("SKU-1", 10, 5, "3.50")
	require.NoError(t, repo.Create(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", found.SKU)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("3.5")))

	bySKU, err := repo.FindBySKU(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySKU.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	err = repo.Create(ctx, newProduct("SKU-1", 1, 1, "1"))
	assert.Error(t, err, "sku is unique")
}

func TestProductRepo_FindAllFilters(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewProductRepo(db)
	ctx := context.Background()

	bolt := newProduct("BOLT-01", 10, 5, "1")
	bolt.Name = "Steel Bolt"
	paper := newProduct("PAP-01", 3, 5, "2")
	paper.Name = "Printer Paper"
	paper.Category = "Office"
	require.NoError(t, repo.Create(ctx, bolt))
	require.NoError(t, repo.Create(ctx, paper))

	all, err := repo.FindAll(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bySearch, err := repo.FindAll(ctx, repository.ProductFilter{Search: "bolt"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "BOLT-01", bySearch[0].SKU)

	bySKUSearch, err := repo.FindAll(ctx, repository.ProductFilter{Search: "pap-"})
	require.NoError(t, err)
	require.Len(t, bySKUSearch, 1)

	noWildcards, err := repo.FindAll(ctx, repository.ProductFilter{Search: "_"})
	require.NoError(t, err)
	assert.Empty(t, noWildcards, "underscore matches literally")

	tape := newProduct("TAPE_01", 1, 5, "1")
	tape.Name = "Tape 50% Off"
	require.NoError(t, repo.Create(ctx, tape))

	byPercent, err := repo.FindAll(ctx, repository.ProductFilter{Search: "50%"})
	require.NoError(t, err)
	require.Len(t, byPercent, 1)
	assert.Equal(t, "TAPE_01", byPercent[0].SKU)

	byUnderscore, err := repo.FindAll(ctx, repository.ProductFilter{Search: "_"})
	require.NoError(t, err)
	require.Len(t, byUnderscore, 1)

	byCategory, err := repo.FindAll(ctx, repository.ProductFilter{Category: "Office"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Printer Paper", byCategory[0].Name)
}

func TestProductRepo_AdjustQuantity(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewProductRepo(db)
	ctx := context.Background()

	p := newProduct("ADJ-1", 10, 5, "1")
	require.NoError(t, repo.Create(ctx, p))

	qty, err := repo.AdjustQuantity(ctx, p.ID, -12, "tester")
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.Zero(t, qty)

	unchanged, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, unchanged.Quantity)

	qty, err = repo.AdjustQuantity(ctx, p.ID, -3, "tester")
	require.NoError(t, err)
	assert.Equal(t, 7, qty)

	qty, err = repo.AdjustQuantity(ctx, p.ID, -7, "tester")
	require.NoError(t, err)
	assert.Equal(t, 0, qty, "draining to exactly zero is allowed")

	_, err = repo.AdjustQuantity(ctx, uuid.New(), 1, "tester")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	after, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "tester", after.UpdatedBy)
}

func TestProductRepo_ConcurrentAdjustmentsDoNotLoseUpdates(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewProductRepo(db)
	ctx := context.Background()

	p := newProduct("CONC-1", 50, 5, "1")
	require.NoError(t, repo.Create(ctx, p))

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		delta := 3
		if i%2 == 0 {
			delta = -4
		}
		wg.Add(1)
		go func(delta int) {
			defer wg.Done()
			if _, err := repo.AdjustQuantity(ctx, p.ID, delta, "worker"); err != nil {
				errs <- err
			}
		}(delta)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected adjustment error: %v", err)
	}

	final, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 50+10*3-10*4, final.Quantity)
}

func TestProductRepo_Delete(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewProductRepo(db)
	ctx := context.Background()

	p := newProduct("DEL-1", 1, 1, "1")
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), repository.ErrProductNotFound)
}

func TestHistoryRepo_AppendAndFilter(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewHistoryRepo(db)
	ctx := context.Background()

	productA, productB := uuid.New(), uuid.New()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	records := []*model.HistoryRecord{
		{ProductID: productA, ProductName: "A", Action: model.ActionCreated, Quantity: 5, NewQuantity: 5, Timestamp: base, UserID: "u1", UserName: "Admin"},
		{ProductID: productA, ProductName: "A", Action: model.ActionStockAdded, Quantity: 2, PreviousQuantity: 5, NewQuantity: 7, Timestamp: base.Add(time.Hour), UserID: "u1", UserName: "Admin"},
		{ProductID: productB, ProductName: "B", Action: model.ActionCreated, Quantity: 1, NewQuantity: 1, Timestamp: base.Add(2 * time.Hour), UserID: "u1", UserName: "Admin"},
	}
	for _, rec := range records {
		require.NoError(t, repo.Append(ctx, rec))
	}

	all, err := repo.FindAll(ctx, repository.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, productB, all[0].ProductID, "newest first")
	assert.Equal(t, model.ActionCreated, all[2].Action)

	forA, err := repo.FindAll(ctx, repository.HistoryFilter{ProductID: &productA})
	require.NoError(t, err)
	assert.Len(t, forA, 2)

	stock, err := repo.FindAll(ctx, repository.HistoryFilter{Actions: []model.HistoryAction{model.ActionStockAdded, model.ActionStockSubtracted}})
	require.NoError(t, err)
	require.Len(t, stock, 1)
	assert.Equal(t, 7, stock[0].NewQuantity)

	windowed, err := repo.FindAll(ctx, repository.HistoryFilter{Since: base.Add(30 * time.Minute), Until: base.Add(90 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, model.ActionStockAdded, windowed[0].Action)

	limited, err := repo.FindAll(ctx, repository.HistoryFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestHistoryRepo_RecordsOutliveProduct(t *testing.T) {
	db := testdb.New(t)
	products := repository.NewProductRepo(db)
	history := repository.NewHistoryRepo(db)
	ctx := context.Background()

	p := newProduct("GONE-1", 4, 1, "1")
	require.NoError(t, products.Create(ctx, p))
	require.NoError(t, history.Append(ctx, &model.HistoryRecord{ProductID: p.ID, ProductName: p.Name, Action: model.ActionCreated, Quantity: 4, Timestamp: time.Now().UTC(), UserID: "u", UserName: "U"}))
	require.NoError(t, products.Delete(ctx, p.ID))
	require.NoError(t, history.Append(ctx, &model.HistoryRecord{ProductID: p.ID, ProductName: p.Name, Action: model.ActionDeleted, Quantity: 4, Timestamp: time.Now().UTC(), UserID: "u", UserName: "U"}))

	rows, err := history.FindAll(ctx, repository.HistoryFilter{ProductID: &p.ID})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestDashboardRepo_Aggregates(t *testing.T) {
	db := testdb.New(t)
	products := repository.NewProductRepo(db)
	dash := repository.NewDashboardRepo(db)
	ctx := context.Background()

	hw1 := newProduct("HW-1", 10, 5, "2")
	hw2 := newProduct("HW-2", 0, 5, "4")
	office := newProduct("OF-1", 3, 3, "1")
	office.Category = "Office"
	for _, p := range []*model.Product{hw1, hw2, office} {
		require.NoError(t, products.Create(ctx, p))
	}

	summaries, err := dash.CategorySummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	hw := summaries[0]
	assert.Equal(t, "Hardware", hw.Category)
	assert.EqualValues(t, 2, hw.ProductCount)
	assert.EqualValues(t, 10, hw.Quantity)
	assert.True(t, hw.Value.Equal(decimal.NewFromInt(20)), "got %s", hw.Value)
	assert.EqualValues(t, 1, hw.LowStockCount)
	assert.EqualValues(t, 1, hw.OutOfStockCount)

	assert.Equal(t, "Office", summaries[1].Category)
	assert.EqualValues(t, 1, summaries[1].LowStockCount)

	low, err := dash.LowStockProducts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "HW-2", low[0].SKU, "lowest quantity first")
}

func TestDashboardRepo_CategoryValueIsExact(t *testing.T) {
	db := testdb.New(t)
	products := repository.NewProductRepo(db)
	dash := repository.NewDashboardRepo(db)
	ctx := context.Background()

	require.NoError(t, products.Create(ctx, newProduct("DIME-1", 3, 1, "0.10")))
	cents := newProduct("DIME-2", 7, 1, "0.20")
	require.NoError(t, products.Create(ctx, cents))

	summaries, err := dash.CategorySummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].Value.Equal(decimal.RequireFromString("1.7")), "got %s", summaries[0].Value)
	assert.Equal(t, "1.7", summaries[0].Value.String())
}

func TestUserRepo(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewUserRepo(db)
	ctx := context.Background()

	u := &model.User{Username: "clerk", Name: "Clerk", Role: model.RoleUser, IsActive: true}
	require.NoError(t, u.SetPassword("pw"))
	require.NoError(t, repo.Create(ctx, u))

	found, err := repo.FindByUsername(ctx, "clerk")
	require.NoError(t, err)
	assert.True(t, found.IsActive)

	require.NoError(t, repo.SetActive(ctx, u.ID, false))
	found, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "hash"))
	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.ErrorIs(t, repo.UpdatePassword(ctx, uuid.New(), "x"), repository.ErrUserNotFound)

	assert.Error(t, repo.Create(ctx, &model.User{Username: "clerk", Password: "x", Role: model.RoleUser}))
}
