package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/model"
	"github.com/tnvu/storefront/internal/repository"
	"github.com/tnvu/storefront/internal/storage/db"
)

// fakeStore is an in-memory stand-in for Postgres. WithTx snapshots the whole
// state and restores it when the transaction function fails, which mirrors a
// rollback closely enough to exercise the atomicity guarantees of the sale
// transaction. The transaction mutex also serializes concurrent checkouts the
// way row locks do.
type fakeStore struct {
	txMu sync.Mutex

	users     map[uuid.UUID]model.User
	products  map[uuid.UUID]model.Product
	sales     map[uuid.UUID]model.Sale
	saleItems []model.SaleItem
	outbox    []repository.CreateOutboxMsgParams

	failCreateSale      bool
	failCreateSaleItems bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]model.User),
		products: make(map[uuid.UUID]model.Product),
		sales:    make(map[uuid.UUID]model.Sale),
	}
}

type storeSnapshot struct {
	products  map[uuid.UUID]model.Product
	sales     map[uuid.UUID]model.Sale
	saleItems []model.SaleItem
	outbox    []repository.CreateOutboxMsgParams
}

func (f *fakeStore) snapshot() storeSnapshot {
	products := make(map[uuid.UUID]model.Product, len(f.products))
	for k, v := range f.products {
		products[k] = v
	}
	sales := make(map[uuid.UUID]model.Sale, len(f.sales))
	for k, v := range f.sales {
		sales[k] = v
	}
	return storeSnapshot{
		products:  products,
		sales:     sales,
		saleItems: append([]model.SaleItem(nil), f.saleItems...),
		outbox:    append([]repository.CreateOutboxMsgParams(nil), f.outbox...),
	}
}

func (f *fakeStore) restore(s storeSnapshot) {
	f.products = s.products
	f.sales = s.sales
	f.saleItems = s.saleItems
	f.outbox = s.outbox
}

// db.DB implementation. Only WithTx carries behavior; repositories talk to
// the store directly.

var _ db.DB = (*fakeStore)(nil)

func (f *fakeStore) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	snap := f.snapshot()
	if err := txFunc(f); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

func (f *fakeStore) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}

func (f *fakeStore) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("not implemented")
}

func (f *fakeStore) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("not implemented")
}

func (f *fakeStore) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}

// repository fakes

type fakeUserRepo struct{ store *fakeStore }

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) WithDB(db.DB) repository.UserRepository { return r }

func (r *fakeUserRepo) CreateUser(_ context.Context, user model.User) error {
	for _, u := range r.store.users {
		if u.Username == user.Username {
			return apperr.UsernameTakenErr
		}
		if u.Email == user.Email {
			return apperr.EmailTakenErr
		}
	}
	r.store.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (model.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return model.User{}, apperr.UserNotFoundErr
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	for _, u := range r.store.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, apperr.UserNotFoundErr
}

func (r *fakeUserRepo) ListUsers(_ context.Context, params repository.ListUsersParams) ([]model.User, error) {
	users := make([]model.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })

	if params.Skip >= len(users) {
		return []model.User{}, nil
	}
	users = users[params.Skip:]
	if len(users) > params.Limit {
		users = users[:params.Limit]
	}
	return users, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, user model.User) error {
	if _, ok := r.store.users[user.ID]; !ok {
		return apperr.UserNotFoundErr
	}
	for _, u := range r.store.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username {
			return apperr.UsernameTakenErr
		}
		if u.Email == user.Email {
			return apperr.EmailTakenErr
		}
	}
	r.store.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.users[id]; !ok {
		return apperr.UserNotFoundErr
	}
	delete(r.store.users, id)
	return nil
}

type fakeProductRepo struct{ store *fakeStore }

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func (r *fakeProductRepo) WithDB(db.DB) repository.ProductRepository { return r }

func (r *fakeProductRepo) CreateProduct(_ context.Context, product model.Product) error {
	r.store.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetProductForOwner(_ context.Context, ownerID, productID uuid.UUID) (model.Product, error) {
	product, ok := r.store.products[productID]
	if !ok || product.UserID != ownerID {
		return model.Product{}, apperr.ProductNotFoundErr
	}
	return product, nil
}

func (r *fakeProductRepo) ListProducts(_ context.Context, params repository.ListProductsParams) ([]model.Product, error) {
	products := make([]model.Product, 0)
	for _, p := range r.store.products {
		if p.UserID != params.OwnerID {
			continue
		}
		if params.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Name)) {
			continue
		}
		if params.ProductID != nil && p.ID != *params.ProductID {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })

	if params.Skip >= len(products) {
		return []model.Product{}, nil
	}
	products = products[params.Skip:]
	if len(products) > params.Limit {
		products = products[:params.Limit]
	}
	return products, nil
}

func (r *fakeProductRepo) UpdateProduct(_ context.Context, product model.Product) error {
	current, ok := r.store.products[product.ID]
	if !ok || current.UserID != product.UserID {
		return apperr.ProductNotFoundErr
	}
	r.store.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) DeleteProduct(_ context.Context, ownerID, productID uuid.UUID) error {
	current, ok := r.store.products[productID]
	if !ok || current.UserID != ownerID {
		return apperr.ProductNotFoundErr
	}
	delete(r.store.products, productID)
	return nil
}

func (r *fakeProductRepo) DecrementStock(_ context.Context, ownerID, productID uuid.UUID, quantity int) error {
	product, ok := r.store.products[productID]
	if !ok || product.UserID != ownerID {
		return apperr.ProductNotFoundErr
	}
	if product.StockQuantity < quantity {
		return apperr.InsufficientStockErr.WithMsg(
			"product %s does not have enough stock: requested %d, available %d",
			product.Name, quantity, product.StockQuantity)
	}
	product.StockQuantity -= quantity
	r.store.products[productID] = product
	return nil
}

type fakeSaleRepo struct{ store *fakeStore }

var _ repository.SaleRepository = (*fakeSaleRepo)(nil)

func (r *fakeSaleRepo) WithDB(db.DB) repository.SaleRepository { return r }

func (r *fakeSaleRepo) CreateSale(_ context.Context, sale model.Sale) error {
	if r.store.failCreateSale {
		return errStorage
	}
	r.store.sales[sale.ID] = sale
	return nil
}

func (r *fakeSaleRepo) CreateSaleItems(_ context.Context, items []model.SaleItem) error {
	if r.store.failCreateSaleItems {
		return errStorage
	}
	r.store.saleItems = append(r.store.saleItems, items...)
	return nil
}

func (r *fakeSaleRepo) GetSale(_ context.Context, ownerID, saleID uuid.UUID) (model.Sale, error) {
	sale, ok := r.store.sales[saleID]
	if !ok || sale.UserID != ownerID {
		return model.Sale{}, apperr.SaleNotFoundErr
	}
	return sale, nil
}

func (r *fakeSaleRepo) ListSaleItems(_ context.Context, saleID uuid.UUID) ([]model.SaleItem, error) {
	items := make([]model.SaleItem, 0)
	for _, item := range r.store.saleItems {
		if item.SaleID == saleID {
			items = append(items, item)
		}
	}
	return items, nil
}

type fakeOutboxRepo struct{ store *fakeStore }

var _ repository.OutboxMsgRepository = (*fakeOutboxRepo)(nil)

func (r *fakeOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r *fakeOutboxRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	r.store.outbox = append(r.store.outbox, params)
	return nil
}

func (r *fakeOutboxRepo) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) BulkUpdateOutboxMsgs(context.Context, repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}

// fakeReportRepo computes the aggregates in memory, mirroring the SQL the
// real repository runs.
type fakeReportRepo struct{ store *fakeStore }

var _ repository.ReportRepository = (*fakeReportRepo)(nil)

func (r *fakeReportRepo) WithDB(db.DB) repository.ReportRepository { return r }

func (r *fakeReportRepo) DailyTotals(_ context.Context, ownerID uuid.UUID, start, end time.Time) (model.DailySales, error) {
	report := model.DailySales{TotalAmount: decimalZero()}
	for _, sale := range r.store.sales {
		if sale.UserID != ownerID {
			continue
		}
		if sale.CreatedAt.Before(start) || !sale.CreatedAt.Before(end) {
			continue
		}
		report.TotalSales++
		report.TotalAmount = report.TotalAmount.Add(sale.TotalPrice)
	}
	return report, nil
}

func (r *fakeReportRepo) PeriodRows(_ context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.PeriodSaleRow, error) {
	rows := make([]model.PeriodSaleRow, 0)
	for _, item := range r.store.saleItems {
		sale, ok := r.store.sales[item.SaleID]
		if !ok || sale.UserID != ownerID {
			continue
		}
		if sale.CreatedAt.Before(start) || !sale.CreatedAt.Before(end) {
			continue
		}
		product := r.store.products[item.ProductID]
		rows = append(rows, model.PeriodSaleRow{
			SaleID:      sale.ID,
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			SoldAt:      sale.CreatedAt,
			LineTotal:   item.ProductPrice.Mul(intDecimal(item.Quantity)),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SoldAt.Before(rows[j].SoldAt) })
	return rows, nil
}

func (r *fakeReportRepo) BestSellers(_ context.Context, ownerID uuid.UUID, limit int) ([]model.BestSeller, error) {
	byProduct := make(map[uuid.UUID]*model.BestSeller)
	for _, item := range r.store.saleItems {
		sale, ok := r.store.sales[item.SaleID]
		if !ok || sale.UserID != ownerID {
			continue
		}
		bs, ok := byProduct[item.ProductID]
		if !ok {
			bs = &model.BestSeller{
				ProductID:    item.ProductID,
				ProductName:  r.store.products[item.ProductID].Name,
				TotalRevenue: decimalZero(),
			}
			byProduct[item.ProductID] = bs
		}
		bs.TotalQuantity += item.Quantity
		bs.TotalRevenue = bs.TotalRevenue.Add(item.ProductPrice.Mul(intDecimal(item.Quantity)))
	}

	sellers := make([]model.BestSeller, 0, len(byProduct))
	for _, bs := range byProduct {
		sellers = append(sellers, *bs)
	}
	sort.Slice(sellers, func(i, j int) bool {
		if sellers[i].TotalQuantity != sellers[j].TotalQuantity {
			return sellers[i].TotalQuantity > sellers[j].TotalQuantity
		}
		return sellers[i].ProductID.String() < sellers[j].ProductID.String()
	})

	if len(sellers) > limit {
		sellers = sellers[:limit]
	}
	return sellers, nil
}
