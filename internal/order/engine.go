// Package order implements order creation, listing and the status state
// machine, with compensating stock adjustments on cancellation and
// restoration.
//
// Like the catalog, the engine is a trusted-caller API: the command
// dispatcher has already authorized admin-only operations by the time
// they reach it.
package order

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Huiyue420/line-store-bot/internal/catalog"
	"github.com/Huiyue420/line-store-bot/internal/jsonstore"
)

type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"` // captured at order time
	Subtotal int    `json:"subtotal"`
}

type Order struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	Items     []Item    `json:"items"`
	Total     int       `json:"total"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Request is one requested line of a new order, before prices are known.
type Request struct {
	Name     string
	Quantity int
}

// Engine owns the orders-by-user document and drives stock reservation
// through the catalog. All operations run under one mutex so the
// check-reserve-append cycle is a single critical section.
type Engine struct {
	mu      sync.Mutex
	path    string
	catalog *catalog.Manager
	orders  map[string][]*Order
	nextID  int

	now func() time.Time
}

func NewEngine(path string, cat *catalog.Manager) *Engine {
	e := &Engine{path: path, catalog: cat, orders: make(map[string][]*Order), now: time.Now}
	if err := jsonstore.Load(path, &e.orders); err != nil {
		log.Printf("[order] load %s: %v (starting empty)", path, err)
		e.orders = make(map[string][]*Order)
	}
	// Orders are never deleted, so max(id)+1 keeps the numbering
	// sequential and gapless across restarts.
	e.nextID = 1
	for _, list := range e.orders {
		for _, o := range list {
			if o.ID >= e.nextID {
				e.nextID = o.ID + 1
			}
		}
	}
	return e
}

func (e *Engine) save() {
	if err := jsonstore.Save(e.path, e.orders); err != nil {
		log.Printf("[order] save %s: %v", e.path, err)
	}
}

// CreateOrder validates every requested item before reserving anything,
// captures current catalog prices, reserves stock and appends the order.
func (e *Engine) CreateOrder(userID string, reqs []Request) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range reqs {
		p, ok := e.catalog.Item(r.Name)
		if !ok {
			return fmt.Sprintf("Item %s does not exist.", r.Name)
		}
		if p.Stock < r.Quantity {
			return fmt.Sprintf("Not enough stock for %s (%d left).", r.Name, p.Stock)
		}
	}

	total := 0
	items := make([]Item, 0, len(reqs))
	for _, r := range reqs {
		p, _ := e.catalog.Item(r.Name)
		sub := p.Price * r.Quantity
		items = append(items, Item{Name: r.Name, Quantity: r.Quantity, Price: p.Price, Subtotal: sub})
		total += sub
	}

	reserved := 0
	for _, r := range reqs {
		if err := e.catalog.UpdateStock(r.Name, -r.Quantity); err != nil {
			// Release whatever was already reserved; failures here are
			// swallowed since there is nothing better to do with them.
			for _, rr := range reqs[:reserved] {
				if rerr := e.catalog.UpdateStock(rr.Name, rr.Quantity); rerr != nil {
					log.Printf("[order] compensating restock %s: %v", rr.Name, rerr)
				}
			}
			return fmt.Sprintf("Could not create the order: %v", err)
		}
		reserved++
	}

	now := e.now()
	o := &Order{
		ID:        e.nextID,
		UserID:    userID,
		Items:     items,
		Total:     total,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.nextID++
	e.orders[userID] = append(e.orders[userID], o)
	e.save()

	var b strings.Builder
	b.WriteString("✅ Order created!\n\n")
	fmt.Fprintf(&b, "📦 Order #%d\n🛍️ Items:\n", o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  - %s x %d = $%d\n", it.Name, it.Quantity, it.Subtotal)
	}
	fmt.Fprintf(&b, "\n💰 Total: $%d", o.Total)
	return b.String()
}

// UserOrders lists the caller's orders, most recent first.
func (e *Engine) UserOrders(userID string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	list := e.orders[userID]
	if len(list) == 0 {
		return "You have no orders yet."
	}

	var b strings.Builder
	b.WriteString("📋 Your orders:\n\n")
	for i := len(list) - 1; i >= 0; i-- {
		writeOrder(&b, list[i], false)
	}
	return strings.TrimSpace(b.String())
}

// ViewOrders lists every user's orders, optionally filtered by exact
// status match, most recent first.
func (e *Engine) ViewOrders(adminID string, status Status) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	all := e.allOrders()
	if len(all) == 0 {
		return "There are no orders yet."
	}
	if status != "" {
		filtered := all[:0:0]
		for _, o := range all {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		if len(filtered) == 0 {
			return fmt.Sprintf("There are no orders with status %s.", status)
		}
		all = filtered
	}

	var b strings.Builder
	b.WriteString("📋 All orders:\n\n")
	for i := len(all) - 1; i >= 0; i-- {
		writeOrder(&b, all[i], true)
	}
	return strings.TrimSpace(b.String())
}

// UpdateStatus transitions an order through the state machine, releasing
// the stock reservation on cancellation and re-reserving on restoration.
func (e *Engine) UpdateStatus(adminID string, orderID int, newStatus Status) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !ValidStatus(newStatus) {
		return "Invalid status. Valid statuses: pending, confirmed, cancelled, completed."
	}

	var target *Order
	for _, list := range e.orders {
		for _, o := range list {
			if o.ID == orderID {
				target = o
				break
			}
		}
		if target != nil {
			break
		}
	}
	if target == nil {
		return fmt.Sprintf("Order #%d not found.", orderID)
	}

	old := target.Status
	if !CanTransition(old, newStatus) {
		return fmt.Sprintf("Cannot change order from %s to %s.", old, newStatus)
	}

	switch {
	case newStatus == StatusCancelled && old != StatusCancelled:
		// Release the reservation. Items are soft references, so a
		// product deleted since ordering just logs.
		for _, it := range target.Items {
			if err := e.catalog.UpdateStock(it.Name, it.Quantity); err != nil {
				log.Printf("[order] restock %s for order #%d: %v", it.Name, orderID, err)
			}
		}
	case old == StatusCancelled && newStatus != StatusCancelled:
		// Re-validate everything before touching stock so a shortage
		// aborts the whole transition.
		for _, it := range target.Items {
			p, ok := e.catalog.Item(it.Name)
			if !ok || p.Stock < it.Quantity {
				return fmt.Sprintf("Cannot restore order: not enough stock for %s.", it.Name)
			}
		}
		for _, it := range target.Items {
			if err := e.catalog.UpdateStock(it.Name, -it.Quantity); err != nil {
				log.Printf("[order] re-reserve %s for order #%d: %v", it.Name, orderID, err)
			}
		}
	}

	target.Status = newStatus
	target.UpdatedAt = e.now()
	e.save()

	return fmt.Sprintf("✅ Order #%d status updated\nOld status: %s %s\nNew status: %s %s",
		orderID, statusEmoji(old), old, statusEmoji(newStatus), newStatus)
}

func (e *Engine) allOrders() []*Order {
	var all []*Order
	for _, list := range e.orders {
		all = append(all, list...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

func writeOrder(b *strings.Builder, o *Order, withUser bool) {
	fmt.Fprintf(b, "📦 Order #%d\n", o.ID)
	if withUser {
		fmt.Fprintf(b, "👤 User: %s\n", o.UserID)
	}
	fmt.Fprintf(b, "📅 Created: %s\n", o.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(b, "🔄 Status: %s %s\n🛍️ Items:\n", statusEmoji(o.Status), o.Status)
	for _, it := range o.Items {
		fmt.Fprintf(b, "  - %s x %d = $%d\n", it.Name, it.Quantity, it.Subtotal)
	}
	fmt.Fprintf(b, "💰 Total: $%d\n\n", o.Total)
}
