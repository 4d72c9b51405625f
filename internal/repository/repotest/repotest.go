// Package repotest provides an in-memory repository.Store for tests of the
// layers above the database.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gachwala/storefront/internal/model"
	"github.com/gachwala/storefront/internal/repository"
)

// NewStore returns an empty store whose repositories share one lock.
func NewStore() *repository.Store {
	db := &memDB{
		users:      make(map[uuid.UUID]model.User),
		categories: make(map[uuid.UUID]model.Category),
		products:   make(map[uuid.UUID]model.Product),
		orders:     make(map[uuid.UUID]model.Order),
		events:     make(map[uuid.UUID][]model.OrderEvent),
	}
	return &repository.Store{
		Users:      userRepo{db},
		Categories: categoryRepo{db},
		Products:   productRepo{db},
		Orders:     orderRepo{db},
	}
}

type memDB struct {
	mu         sync.Mutex
	users      map[uuid.UUID]model.User
	categories map[uuid.UUID]model.Category
	products   map[uuid.UUID]model.Product
	orders     map[uuid.UUID]model.Order
	events     map[uuid.UUID][]model.OrderEvent
}

func stamp() time.Time { return time.Now().UTC() }

type userRepo struct{ db *memDB }

func (r userRepo) Create(_ context.Context, u *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = uuid.New()
	u.CreatedAt, u.UpdatedAt = stamp(), stamp()
	r.db.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) ListByRoles(_ context.Context, roles ...model.Role) ([]model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []model.User{}
	for _, u := range r.db.users {
		for _, role := range roles {
			if u.Role == role {
				out = append(out, u)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r userRepo) UpdateProfile(_ context.Context, u *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name, stored.Phone, stored.Address = u.Name, u.Phone, u.Address
	stored.UpdatedAt = stamp()
	r.db.users[u.ID] = stored
	return nil
}

func (r userRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.PasswordHash = hash
	stored.UpdatedAt = stamp()
	r.db.users[id] = stored
	return nil
}

func (r userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.users, id)
	return nil
}

type categoryRepo struct{ db *memDB }

func (r categoryRepo) Create(_ context.Context, c *model.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.categories {
		if existing.CategoryID == c.CategoryID {
			return repository.ErrDuplicate
		}
	}
	c.ID = uuid.New()
	c.CreatedAt, c.UpdatedAt = stamp(), stamp()
	r.db.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r categoryRepo) List(_ context.Context) ([]model.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]model.Category, 0, len(r.db.categories))
	for _, c := range r.db.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r categoryRepo) Update(_ context.Context, c *model.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.db.categories {
		if id != c.ID && existing.CategoryID == c.CategoryID {
			return repository.ErrDuplicate
		}
	}
	c.UpdatedAt = stamp()
	r.db.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.categories, id)
	return nil
}

func (r categoryRepo) DeleteAll(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.categories = make(map[uuid.UUID]model.Category)
	return nil
}

type productRepo struct{ db *memDB }

func (r productRepo) Create(_ context.Context, p *model.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt, p.UpdatedAt = stamp(), stamp()
	r.db.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) List(_ context.Context, categoryID string) ([]model.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []model.Product{}
	for _, p := range r.db.products {
		if categoryID == "" || p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r productRepo) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, p := range r.db.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r productRepo) Update(_ context.Context, p *model.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	p.UpdatedAt = stamp()
	r.db.products[p.ID] = *p
	return nil
}

func (r productRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.products, id)
	return nil
}

func (r productRepo) DeleteAll(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.products = make(map[uuid.UUID]model.Product)
	return nil
}

type orderRepo struct{ db *memDB }

func (r orderRepo) Create(_ context.Context, o *model.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o.ID = uuid.New()
	o.CreatedAt, o.UpdatedAt = stamp(), stamp()
	stored := *o
	stored.Items = append([]model.OrderItem(nil), o.Items...)
	r.db.orders[o.ID] = stored
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r orderRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	return r.list(func(o model.Order) bool { return o.UserID == userID }), nil
}

func (r orderRepo) ListAll(_ context.Context) ([]model.Order, error) {
	return r.list(func(model.Order) bool { return true }), nil
}

func (r orderRepo) list(keep func(model.Order) bool) []model.Order {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []model.Order{}
	for _, o := range r.db.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r orderRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.OrderStatus) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = stamp()
	r.db.orders[id] = o
	return true, nil
}

func (r orderRepo) AppendEvent(_ context.Context, e *model.OrderEvent) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.events[e.OrderID] {
		if existing.ID == e.ID {
			return nil
		}
	}
	r.db.events[e.OrderID] = append(r.db.events[e.OrderID], *e)
	return nil
}

func (r orderRepo) ListEvents(_ context.Context, orderID uuid.UUID) ([]model.OrderEvent, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := append([]model.OrderEvent{}, r.db.events[orderID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}
