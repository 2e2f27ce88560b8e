// Package catalog holds the product list and its stock bookkeeping.
//
// The manager is a trusted-caller API: admin authorization is enforced at
// the command dispatcher, not re-checked here.
package catalog

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Huiyue420/line-store-bot/internal/jsonstore"
)

// StockWarningThreshold is the stock level at or below which a product is
// flagged as running low.
const StockWarningThreshold = 5

var (
	ErrNotFound          = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Product struct {
	Price       int       `json:"price"`
	Stock       int       `json:"stock"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedBy   string    `json:"created_by"`
}

type Manager struct {
	mu       sync.Mutex
	path     string
	products map[string]*Product

	now func() time.Time
}

func NewManager(path string) *Manager {
	m := &Manager{path: path, products: make(map[string]*Product), now: time.Now}
	if err := jsonstore.Load(path, &m.products); err != nil {
		log.Printf("[catalog] load %s: %v (starting empty)", path, err)
		m.products = make(map[string]*Product)
	}
	return m
}

func (m *Manager) save() {
	if err := jsonstore.Save(m.path, m.products); err != nil {
		log.Printf("[catalog] save %s: %v", m.path, err)
	}
}

// Item returns a copy of the named product.
func (m *Manager) Item(name string) (Product, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[name]
	if !ok {
		return Product{}, false
	}
	return *p, true
}

// Menu renders the full catalog sorted by product name.
func (m *Manager) Menu() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.products) == 0 {
		return "There are no items for sale right now."
	}

	names := make([]string, 0, len(m.products))
	for name := range m.products {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("🛍️ Menu:\n\n")
	for _, name := range names {
		p := m.products[name]
		fmt.Fprintf(&b, "📦 %s\n💰 Price: $%d\n📊 Stock: %s %d\n", name, p.Price, stockIndicator(p.Stock), p.Stock)
		if p.Description != "" {
			fmt.Fprintf(&b, "📝 Description: %s\n", p.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// AddItem inserts a new product. The adminID is recorded as creator.
func (m *Manager) AddItem(adminID, name string, price, stock int, description string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.products[name]; exists {
		return fmt.Sprintf("Item %s already exists.", name)
	}
	if price <= 0 {
		return "Price must be greater than 0."
	}
	if stock < 0 {
		return "Stock cannot be negative."
	}

	now := m.now()
	m.products[name] = &Product{
		Price:       price,
		Stock:       stock,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   adminID,
	}
	m.save()

	return fmt.Sprintf("✅ Item added\n📦 Name: %s\n💰 Price: $%d\n📊 Stock: %d\n📝 Description: %s",
		name, price, stock, description)
}

// EditItem applies the supplied fields; nil means leave unchanged. Only
// fields that actually differ are reported.
func (m *Manager) EditItem(adminID, name string, price, stock *int, description *string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[name]
	if !ok {
		return fmt.Sprintf("Item not found: %s", name)
	}

	var changes []string
	if price != nil {
		if *price <= 0 {
			return "Price must be greater than 0."
		}
		if *price != p.Price {
			changes = append(changes, fmt.Sprintf("price: $%d → $%d", p.Price, *price))
			p.Price = *price
		}
	}
	if stock != nil {
		if *stock < 0 {
			return "Stock cannot be negative."
		}
		if *stock != p.Stock {
			changes = append(changes, fmt.Sprintf("stock: %d → %d", p.Stock, *stock))
			p.Stock = *stock
		}
	}
	if description != nil && *description != p.Description {
		changes = append(changes, "description updated")
		p.Description = *description
	}

	if len(changes) == 0 {
		return "No changes."
	}

	p.UpdatedAt = m.now()
	m.save()

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Item %s updated:\n", name)
	for _, c := range changes {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	if stock != nil && *stock <= StockWarningThreshold {
		fmt.Fprintf(&b, "\n⚠️ Warning: stock is at or below %d.", StockWarningThreshold)
	}
	return strings.TrimSpace(b.String())
}

// DeleteItem removes a product and reports its last known price and stock.
func (m *Manager) DeleteItem(adminID, name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[name]
	if !ok {
		return fmt.Sprintf("Item not found: %s", name)
	}
	delete(m.products, name)
	m.save()
	return fmt.Sprintf("✅ Item deleted\n📦 Name: %s\n💰 Price: $%d\n📊 Stock: %d", name, p.Price, p.Stock)
}

// UpdateStock applies a signed stock delta. This is the only mutation
// primitive the order engine uses for reservation and release.
func (m *Manager) UpdateStock(name string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	newStock := p.Stock + delta
	if newStock < 0 {
		return fmt.Errorf("%w: %s", ErrInsufficientStock, name)
	}
	p.Stock = newStock
	p.UpdatedAt = m.now()
	m.save()

	if newStock <= StockWarningThreshold {
		log.Printf("[catalog] low stock: %s has %d left (threshold %d)", name, newStock, StockWarningThreshold)
	}
	return nil
}

func stockIndicator(stock int) string {
	switch {
	case stock == 0:
		return "❌"
	case stock <= StockWarningThreshold:
		return "⚠️"
	default:
		return "✅"
	}
}
