package bot

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Huiyue420/line-store-bot/internal/auth"
	"github.com/Huiyue420/line-store-bot/internal/catalog"
	"github.com/Huiyue420/line-store-bot/internal/order"
	"github.com/Huiyue420/line-store-bot/internal/userstate"
)

const adminPassword = "hunter2"

func newHandler(t *testing.T) (*Handler, *catalog.Manager) {
	t.Helper()
	dir := t.TempDir()
	states := userstate.NewStore(filepath.Join(dir, "user_state.json"))
	authSvc := auth.New(states, auth.HashPassword(adminPassword))
	cat := catalog.NewManager(filepath.Join(dir, "menu.json"))
	eng := order.NewEngine(filepath.Join(dir, "orders.json"), cat)
	return New(authSvc, cat, eng), cat
}

func loginAdmin(t *testing.T, h *Handler, userID string) {
	t.Helper()
	resp := h.Handle("!admin "+adminPassword, userID)
	if !strings.Contains(resp, "admin mode") {
		t.Fatalf("admin login failed: %s", resp)
	}
}

func TestAdminLoginFlow(t *testing.T) {
	h, _ := newHandler(t)

	if resp := h.Handle("!admin", "U1"); !strings.Contains(resp, "password") {
		t.Fatalf("bare !admin should prompt for password: %s", resp)
	}
	if resp := h.Handle("!admin wrong", "U1"); !strings.Contains(resp, "Wrong password") {
		t.Fatalf("wrong password: %s", resp)
	}
	loginAdmin(t, h, "U1")

	if resp := h.Handle("logout", "U1"); !strings.Contains(resp, "Logged out") {
		t.Fatalf("logout: %s", resp)
	}
	if resp := h.Handle("logout", "U1"); !strings.Contains(resp, "not an administrator") {
		t.Fatalf("logout without session: %s", resp)
	}
}

func TestHelpVariants(t *testing.T) {
	h, _ := newHandler(t)

	plain := h.Handle("help", "U1")
	if strings.Contains(plain, "edit menu") {
		t.Fatalf("non-admin help leaks admin commands:\n%s", plain)
	}

	loginAdmin(t, h, "U1")
	admin := h.Handle("help", "U1")
	if !strings.Contains(admin, "edit menu") || !strings.Contains(admin, "update order") {
		t.Fatalf("admin help missing admin commands:\n%s", admin)
	}
}

func TestAdminGateDenial(t *testing.T) {
	h, cat := newHandler(t)
	loginAdmin(t, h, "admin")
	h.Handle("edit menu add Coffee 50 10", "admin")

	for _, cmd := range []string{
		"edit menu delete Coffee",
		"edit menu add Tea 30 5",
		"view orders",
		"update order 1 confirmed",
	} {
		if resp := h.Handle(cmd, "U1"); resp != adminRequiredMsg {
			t.Fatalf("%q: expected denial sentinel, got %q", cmd, resp)
		}
	}
	if _, ok := cat.Item("Coffee"); !ok {
		t.Fatalf("catalog changed by denied command")
	}
}

func TestEndToEndOrderFlow(t *testing.T) {
	h, cat := newHandler(t)
	loginAdmin(t, h, "admin")

	resp := h.Handle("edit menu add Coffee 50 10 fresh roasted beans", "admin")
	if !strings.Contains(resp, "Item added") || !strings.Contains(resp, "fresh roasted beans") {
		t.Fatalf("add: %s", resp)
	}

	resp = h.Handle("order Coffee 3", "U1")
	if !strings.Contains(resp, "Total: $150") {
		t.Fatalf("order: %s", resp)
	}
	if p, _ := cat.Item("Coffee"); p.Stock != 7 {
		t.Fatalf("stock = %d, want 7", p.Stock)
	}

	resp = h.Handle("myorders", "U1")
	if !strings.Contains(resp, "pending") || !strings.Contains(resp, "$150") {
		t.Fatalf("myorders: %s", resp)
	}

	resp = h.Handle("view orders pending", "admin")
	if !strings.Contains(resp, "Order #1") || !strings.Contains(resp, "User: U1") {
		t.Fatalf("view orders: %s", resp)
	}

	resp = h.Handle("update order 1 confirmed", "admin")
	if !strings.Contains(resp, "pending") || !strings.Contains(resp, "confirmed") {
		t.Fatalf("update order should report old and new status: %s", resp)
	}
}

func TestEditMenuPositionalFields(t *testing.T) {
	h, cat := newHandler(t)
	loginAdmin(t, h, "admin")
	h.Handle("edit menu add Coffee 50 10 fresh", "admin")

	// Only the price is given; stock and description stay put.
	h.Handle("edit menu edit Coffee 60", "admin")
	p, _ := cat.Item("Coffee")
	if p.Price != 60 || p.Stock != 10 || p.Description != "fresh" {
		t.Fatalf("trailing fields should be unchanged: %+v", p)
	}

	h.Handle("edit menu edit Coffee 60 4 dark roast", "admin")
	p, _ = cat.Item("Coffee")
	if p.Stock != 4 || p.Description != "dark roast" {
		t.Fatalf("full edit not applied: %+v", p)
	}

	if resp := h.Handle("edit menu edit Coffee", "admin"); !strings.Contains(resp, "at least one field") {
		t.Fatalf("edit without fields: %s", resp)
	}
	if resp := h.Handle("edit menu rename Coffee", "admin"); !strings.Contains(resp, "Unknown action") {
		t.Fatalf("unknown action: %s", resp)
	}
}

func TestOrderParseErrors(t *testing.T) {
	h, _ := newHandler(t)
	if resp := h.Handle("order Coffee", "U1"); !strings.Contains(resp, "Order format") {
		t.Fatalf("unbalanced pairs: %s", resp)
	}
	if resp := h.Handle("order Coffee zero", "U1"); !strings.Contains(resp, "positive integer") {
		t.Fatalf("non-numeric quantity: %s", resp)
	}
	if resp := h.Handle("order Coffee 0", "U1"); !strings.Contains(resp, "positive integer") {
		t.Fatalf("zero quantity: %s", resp)
	}
	if resp := h.Handle("order Coffee -1", "U1"); !strings.Contains(resp, "positive integer") {
		t.Fatalf("negative quantity: %s", resp)
	}
}

func TestUpdateOrderParseErrors(t *testing.T) {
	h, _ := newHandler(t)
	loginAdmin(t, h, "admin")
	if resp := h.Handle("update order 1", "admin"); !strings.Contains(resp, "Usage") {
		t.Fatalf("wrong arity: %s", resp)
	}
	if resp := h.Handle("update order one confirmed", "admin"); !strings.Contains(resp, "must be a number") {
		t.Fatalf("non-numeric id: %s", resp)
	}
}

func TestInvalidCommand(t *testing.T) {
	h, _ := newHandler(t)
	for _, cmd := range []string{"hello", "MENU", "Order Coffee 1", ""} {
		if resp := h.Handle(cmd, "U1"); resp != invalidCmdMsg {
			t.Fatalf("%q: expected invalid-command reply, got %q", cmd, resp)
		}
	}
}

func TestUnicodeProductNames(t *testing.T) {
	h, _ := newHandler(t)
	loginAdmin(t, h, "admin")
	h.Handle("edit menu add 咖啡 50 10 熱的", "admin")

	menu := h.Handle("menu", "U1")
	if !strings.Contains(menu, "咖啡") || !strings.Contains(menu, "熱的") {
		t.Fatalf("menu lost unicode text:\n%s", menu)
	}
	if resp := h.Handle("order 咖啡 2", "U1"); !strings.Contains(resp, "Total: $100") {
		t.Fatalf("unicode order failed: %s", resp)
	}
}

func TestMultiItemOrderCommand(t *testing.T) {
	h, _ := newHandler(t)
	loginAdmin(t, h, "admin")
	h.Handle("edit menu add Coffee 50 10", "admin")
	h.Handle("edit menu add Tea 30 10", "admin")

	resp := h.Handle("order Coffee 2 Tea 1", "U1")
	if !strings.Contains(resp, "Total: $130") {
		t.Fatalf("multi-item order: %s", resp)
	}
}

func TestLockoutThroughCommands(t *testing.T) {
	h, _ := newHandler(t)
	for i := 0; i < 3; i++ {
		h.Handle("!admin nope", "U1")
	}
	if resp := h.Handle("!admin nope", "U1"); !strings.Contains(resp, "locked for 15 minutes") {
		t.Fatalf("expected lockout: %s", resp)
	}
	if resp := h.Handle(fmt.Sprintf("!admin %s", adminPassword), "U1"); !strings.Contains(resp, "Try again in") {
		t.Fatalf("expected remaining-time rejection: %s", resp)
	}
}
