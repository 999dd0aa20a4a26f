package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/utils"
)

// MemoryUsers is an in-process UserStore for the memory storage mode and tests.
type MemoryUsers struct {
	mu     sync.RWMutex
	nextID uint64
	byMail map[string]model.Account
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{byMail: make(map[string]model.Account)}
}

func (m *MemoryUsers) Create(_ context.Context, email, name, password string, role model.Role, cost int) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.Account{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byMail[email]; ok {
		return model.Account{}, ErrEmailExists
	}
	m.nextID++
	now := time.Now().UTC()
	u := model.Account{
		ID: m.nextID, Email: email, Name: name, PasswordHash: hash, Role: role,
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	m.byMail[email] = u
	return u, nil
}

func (m *MemoryUsers) GetByEmail(_ context.Context, email string) (model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byMail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.Account{}, ErrNotFound
	}
	return u, nil
}

// MemoryProducts is an in-process ProductStore.
type MemoryProducts struct {
	mu    sync.RWMutex
	items map[string]model.Product
}

// NewMemoryProducts returns a store holding seed.
func NewMemoryProducts(seed []model.Product) *MemoryProducts {
	m := &MemoryProducts{items: make(map[string]model.Product, len(seed))}
	for _, p := range seed {
		m.items[p.ID] = p
	}
	return m
}

func (m *MemoryProducts) List(context.Context) ([]model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Product, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryProducts) Get(_ context.Context, id string) (model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.items[id]
	if !ok {
		return model.Product{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryProducts) Create(_ context.Context, in model.ProductInput) (model.Product, error) {
	p := model.Product{ID: uuid.NewString(), ProductInput: in}
	m.mu.Lock()
	m.items[p.ID] = p
	m.mu.Unlock()
	return p, nil
}

func (m *MemoryProducts) Update(_ context.Context, id string, in model.ProductInput) (model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return model.Product{}, ErrNotFound
	}
	p := model.Product{ID: id, ProductInput: in}
	m.items[id] = p
	return p, nil
}

func (m *MemoryProducts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// MemoryCarts is an in-process CartStore.
type MemoryCarts struct {
	mu    sync.Mutex
	items map[string]model.CartItem
}

func NewMemoryCarts() *MemoryCarts {
	return &MemoryCarts{items: make(map[string]model.CartItem)}
}

func (m *MemoryCarts) Add(_ context.Context, customerID string, p model.Product, quantity int) (model.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := newCartItem(uuid.NewString(), customerID, p, quantity)
	for _, it := range m.items {
		if it.CustomerID == customerID && it.ProductID == p.ID {
			item = it
			item.Quantity += quantity
			break
		}
	}
	if err := checkStock(p, item.Quantity); err != nil {
		return model.CartItem{}, err
	}
	m.items[item.ID] = item
	return item, nil
}

func (m *MemoryCarts) List(_ context.Context, customerID string) ([]model.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.CartItem{}
	for _, it := range m.items {
		if it.CustomerID == customerID {
			out = append(out, it)
		}
	}
	sortItems(out)
	return out, nil
}

func (m *MemoryCarts) Get(_ context.Context, itemID string) (model.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[itemID]
	if !ok {
		return model.CartItem{}, ErrNotFound
	}
	return it, nil
}

func (m *MemoryCarts) Remove(_ context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[itemID]; !ok {
		return ErrNotFound
	}
	delete(m.items, itemID)
	return nil
}

func sortItems(items []model.CartItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].ProductName != items[j].ProductName {
			return items[i].ProductName < items[j].ProductName
		}
		return items[i].ID < items[j].ID
	})
}
