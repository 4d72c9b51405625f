package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gachwala/storefront/internal/model"
	"github.com/gachwala/storefront/internal/repository"
)

type mockUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) ListByRoles(_ context.Context, roles ...model.Role) ([]model.User, error) {
	var out []model.User
	for _, u := range m.users {
		for _, r := range roles {
			if u.Role == r {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, user *model.User) error {
	u, ok := m.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Name, u.Phone, u.Address = user.Name, user.Phone, user.Address
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type mockCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, c *model.Category) error {
	for _, existing := range m.categories {
		if existing.CategoryID == c.CategoryID {
			return repository.ErrDuplicate
		}
	}
	c.ID = uuid.New()
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range m.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, c *model.Category) error {
	if _, ok := m.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepo) DeleteAll(_ context.Context) error {
	m.categories = make(map[uuid.UUID]*model.Category)
	return nil
}

type mockProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, p *model.Product) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) List(_ context.Context, categoryID string) ([]model.Product, error) {
	var out []model.Product
	for _, p := range m.products {
		if categoryID == "" || p.CategoryID == categoryID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	var n int64
	for _, p := range m.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (m *mockProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) DeleteAll(_ context.Context) error {
	m.products = make(map[uuid.UUID]*model.Product)
	return nil
}

type mockOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	events map[uuid.UUID][]model.OrderEvent
	// staleCAS makes the next UpdateStatus report a lost race.
	staleCAS bool
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders: make(map[uuid.UUID]*model.Order),
		events: make(map[uuid.UUID][]model.OrderEvent),
	}
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]model.Order, error) {
	var out []model.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.OrderStatus) (bool, error) {
	if m.staleCAS {
		m.staleCAS = false
		return false, nil
	}
	o, ok := m.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (m *mockOrderRepo) AppendEvent(_ context.Context, e *model.OrderEvent) error {
	for _, existing := range m.events[e.OrderID] {
		if existing.ID == e.ID {
			return nil
		}
	}
	m.events[e.OrderID] = append(m.events[e.OrderID], *e)
	return nil
}

func (m *mockOrderRepo) ListEvents(_ context.Context, orderID uuid.UUID) ([]model.OrderEvent, error) {
	return m.events[orderID], nil
}

type mockPublisher struct {
	mu   sync.Mutex
	msgs []model.OrderEventMessage
	err  error
}

func (m *mockPublisher) Publish(_ context.Context, msg model.OrderEventMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msg)
	return nil
}
