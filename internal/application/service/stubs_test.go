package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/enum"
	"github.com/sangkips/stockroom-api/internal/domain/repository"
	"github.com/sangkips/stockroom-api/pkg/pagination"
)

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newStubProductRepo(products ...entity.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[uuid.UUID]*entity.Product)}
	for i := range products {
		p := products[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.products[p.ID] = &p
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) CreateBatch(ctx context.Context, products []entity.Product) error {
	for i := range products {
		if err := r.Create(ctx, &products[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Product{}
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) sorted(params *repository.ProductFilterParams) []entity.Product {
	out := []entity.Product{}
	for _, p := range r.products {
		if params != nil && params.LowStock && !p.IsLowStock() {
			continue
		}
		if params != nil && params.Category != "" && p.Category != params.Category {
			continue
		}
		if params != nil && params.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (r *stubProductRepo) List(_ context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted(params)
	return all, int64(len(all)), nil
}

func (r *stubProductRepo) ListAll(_ context.Context, params *repository.ProductFilterParams) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(params), nil
}

func (r *stubProductRepo) GetLowStock(_ context.Context) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(&repository.ProductFilterParams{LowStock: true}), nil
}

func (r *stubProductRepo) Categories(_ context.Context) ([]string, error) {
	return nil, nil
}

func (r *stubProductRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.CurrentStock+delta < 0 {
		return false, nil
	}
	p.CurrentStock += delta
	return true, nil
}

func (r *stubProductRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].CurrentStock
}

func (r *stubProductRepo) setStock(id uuid.UUID, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[id].CurrentStock = n
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Customers ────────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newStubCustomerRepo(customers ...entity.Customer) *stubCustomerRepo {
	r := &stubCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
	for i := range customers {
		c := customers[i]
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.customers[c.ID] = &c
	}
	return r
}

func (r *stubCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *stubCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *stubCustomerRepo) GetByEmail(_ context.Context, email string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.Email != nil && strings.EqualFold(*c.Email, email) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) List(_ context.Context, _ *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	out := []entity.Customer{}
	for _, c := range r.customers {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Bills ────────────────────────────────────────────────────────────────────

// stubBillRepo shares the product stub so stock moves like the real
// transaction would.
type stubBillRepo struct {
	products *stubProductRepo
	bills    map[uuid.UUID]*entity.Bill
	failWith error
	// billNoCollisions makes the next inserts report a taken bill number.
	billNoCollisions int
	triedBillNos     []string
}

func newStubBillRepo(products *stubProductRepo) *stubBillRepo {
	return &stubBillRepo{products: products, bills: make(map[uuid.UUID]*entity.Bill)}
}

func (r *stubBillRepo) CreateWithStock(_ context.Context, bill *entity.Bill) ([]uuid.UUID, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}

	r.products.mu.Lock()
	defer r.products.mu.Unlock()

	r.triedBillNos = append(r.triedBillNos, bill.BillNo)
	if r.billNoCollisions > 0 {
		r.billNoCollisions--
		return nil, repository.ErrDuplicateBillNo
	}

	var failed []uuid.UUID
	for _, it := range bill.Items {
		p, ok := r.products.products[it.ProductID]
		if !ok || p.CurrentStock < it.Quantity {
			failed = append(failed, it.ProductID)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for _, it := range bill.Items {
		r.products.products[it.ProductID].CurrentStock -= it.Quantity
	}
	cp := *bill
	r.bills[bill.ID] = &cp
	return nil, nil
}

func (r *stubBillRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Bill, error) {
	b, ok := r.bills[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *stubBillRepo) GetByBillNo(_ context.Context, billNo string) (*entity.Bill, error) {
	for _, b := range r.bills {
		if b.BillNo == billNo {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubBillRepo) List(_ context.Context, params *repository.BillFilterParams) ([]entity.Bill, int64, error) {
	out := []entity.Bill{}
	for _, b := range r.bills {
		if params.Status != nil && b.Status != *params.Status {
			continue
		}
		if params.CustomerID != nil && b.CustomerID != *params.CustomerID {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *stubBillRepo) CancelAndRestock(_ context.Context, id uuid.UUID) (bool, error) {
	b, ok := r.bills[id]
	if !ok || b.Status != enum.BillStatusPaid {
		return false, nil
	}
	b.Status = enum.BillStatusCancelled

	r.products.mu.Lock()
	defer r.products.mu.Unlock()
	for _, it := range b.Items {
		if p, ok := r.products.products[it.ProductID]; ok {
			p.CurrentStock += it.Quantity
		}
	}
	return true, nil
}

var _ repository.BillRepository = (*stubBillRepo)(nil)

// ── Raw materials and recipes ────────────────────────────────────────────────

type stubMaterialRepo struct {
	materials map[uuid.UUID]*entity.RawMaterial
}

func newStubMaterialRepo(materials ...entity.RawMaterial) *stubMaterialRepo {
	r := &stubMaterialRepo{materials: make(map[uuid.UUID]*entity.RawMaterial)}
	for i := range materials {
		m := materials[i]
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		r.materials[m.ID] = &m
	}
	return r
}

func (r *stubMaterialRepo) Create(_ context.Context, m *entity.RawMaterial) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	cp := *m
	r.materials[m.ID] = &cp
	return nil
}

func (r *stubMaterialRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.RawMaterial, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *stubMaterialRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.RawMaterial, error) {
	out := []entity.RawMaterial{}
	for _, id := range ids {
		if m, ok := r.materials[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMaterialRepo) GetByName(_ context.Context, name string) (*entity.RawMaterial, error) {
	for _, m := range r.materials {
		if strings.EqualFold(m.Name, name) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubMaterialRepo) Update(_ context.Context, m *entity.RawMaterial) error {
	cp := *m
	r.materials[m.ID] = &cp
	return nil
}

func (r *stubMaterialRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.materials, id)
	return nil
}

func (r *stubMaterialRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.RawMaterial, int64, error) {
	out := []entity.RawMaterial{}
	for _, m := range r.materials {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

var _ repository.RawMaterialRepository = (*stubMaterialRepo)(nil)

type stubRecipeRepo struct {
	recipes map[uuid.UUID]*entity.Recipe
}

func newStubRecipeRepo() *stubRecipeRepo {
	return &stubRecipeRepo{recipes: make(map[uuid.UUID]*entity.Recipe)}
}

func (r *stubRecipeRepo) Create(_ context.Context, rec *entity.Recipe) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	cp := *rec
	cp.Materials = append([]entity.RecipeMaterial(nil), rec.Materials...)
	for i := range cp.Materials {
		cp.Materials[i].RecipeID = rec.ID
	}
	r.recipes[rec.ID] = &cp
	return nil
}

func (r *stubRecipeRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Recipe, error) {
	rec, ok := r.recipes[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *stubRecipeRepo) GetByName(_ context.Context, name string) (*entity.Recipe, error) {
	for _, rec := range r.recipes {
		if strings.EqualFold(rec.Name, name) {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubRecipeRepo) Update(ctx context.Context, rec *entity.Recipe) error {
	return r.Create(ctx, rec)
}

func (r *stubRecipeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.recipes, id)
	return nil
}

func (r *stubRecipeRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Recipe, int64, error) {
	out := []entity.Recipe{}
	for _, rec := range r.recipes {
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

var _ repository.RecipeRepository = (*stubRecipeRepo)(nil)

// ── Users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.User, int64, error) {
	out := []entity.User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Analytics ────────────────────────────────────────────────────────────────

type stubAnalyticsRepo struct {
	inventory repository.InventorySummary
	sales     repository.SalesSummary
	customers int64
	top       []repository.TopProductResult
	err       error

	dailyFrom, dailyTo time.Time
}

func (r *stubAnalyticsRepo) InventorySummary(_ context.Context) (*repository.InventorySummary, error) {
	if r.err != nil {
		return nil, r.err
	}
	inv := r.inventory
	return &inv, nil
}

func (r *stubAnalyticsRepo) SalesSummary(_ context.Context, _ time.Time) (*repository.SalesSummary, error) {
	s := r.sales
	return &s, nil
}

func (r *stubAnalyticsRepo) CustomerCount(_ context.Context) (int64, error) {
	return r.customers, nil
}

func (r *stubAnalyticsRepo) DailySales(_ context.Context, from, to time.Time) ([]repository.DailySalesResult, error) {
	r.dailyFrom, r.dailyTo = from, to
	var out []repository.DailySalesResult
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		out = append(out, repository.DailySalesResult{Date: d, Revenue: decimal.NewFromInt(10), BillCount: 1})
	}
	return out, nil
}

func (r *stubAnalyticsRepo) TopProducts(_ context.Context, limit int) ([]repository.TopProductResult, error) {
	if len(r.top) > limit {
		return r.top[:limit], nil
	}
	return r.top, nil
}

var _ repository.AnalyticsRepository = (*stubAnalyticsRepo)(nil)

var errStubFailure = errors.New("stub failure")
