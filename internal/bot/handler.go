// Package bot is the command interpreter: it parses raw chat text into
// commands, enforces admin authorization at this single choke point, and
// turns every outcome into user-facing reply text.
package bot

import (
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/Huiyue420/line-store-bot/internal/auth"
	"github.com/Huiyue420/line-store-bot/internal/catalog"
	"github.com/Huiyue420/line-store-bot/internal/order"
)

const (
	adminRequiredMsg = "This command requires administrator privileges."
	genericErrorMsg  = "Sorry, something went wrong while handling your request. Please try again later."
	invalidCmdMsg    = "Invalid command. Type help for usage."
)

// Handler dispatches commands against the auth service, catalog and order
// engine. It serializes commands with a mutex: the whole system is built
// for at most one in-flight command at a time against the shared state.
type Handler struct {
	mu      sync.Mutex
	auth    *auth.Service
	catalog *catalog.Manager
	orders  *order.Engine
}

func New(authSvc *auth.Service, cat *catalog.Manager, eng *order.Engine) *Handler {
	return &Handler{auth: authSvc, catalog: cat, orders: eng}
}

// Handle processes one raw text command from the given user and returns
// the reply text. It never panics outward: unexpected failures are logged
// with context and collapsed into a generic apology.
func (h *Handler) Handle(text, userID string) (resp string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[bot] panic handling command user=%s text=%q: %v", userID, text, r)
			resp = genericErrorMsg
		}
	}()
	h.mu.Lock()
	defer h.mu.Unlock()

	text = strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(text, "!admin"):
		parts := strings.Fields(text)
		if len(parts) == 1 {
			return "Please provide the admin password."
		}
		_, msg := h.auth.Login(userID, parts[1])
		return msg

	case text == "logout":
		if !h.auth.IsAdmin(userID) {
			return "You are not an administrator."
		}
		return h.auth.Logout(userID)

	case text == "menu":
		return h.catalog.Menu()

	case text == "help":
		if h.auth.IsAdmin(userID) {
			return adminHelpText
		}
		return helpText

	case strings.HasPrefix(text, "order "):
		reqs, err := parseOrderCommand(text)
		if err != nil {
			return err.Error()
		}
		return h.orders.CreateOrder(userID, reqs)

	case text == "myorders":
		return h.orders.UserOrders(userID)

	case strings.HasPrefix(text, "edit menu "):
		if !h.auth.IsAdmin(userID) {
			return adminRequiredMsg
		}
		cmd, err := parseEditMenuCommand(text)
		if err != nil {
			return err.Error()
		}
		switch cmd.action {
		case "add":
			return h.catalog.AddItem(userID, cmd.name, *cmd.price, *cmd.stock, *cmd.description)
		case "edit":
			return h.catalog.EditItem(userID, cmd.name, cmd.price, cmd.stock, cmd.description)
		default:
			return h.catalog.DeleteItem(userID, cmd.name)
		}

	case strings.HasPrefix(text, "view orders"):
		if !h.auth.IsAdmin(userID) {
			return adminRequiredMsg
		}
		var status order.Status
		if parts := strings.Fields(text); len(parts) > 2 {
			status = order.Status(parts[2])
		}
		return h.orders.ViewOrders(userID, status)

	case strings.HasPrefix(text, "update order "):
		if !h.auth.IsAdmin(userID) {
			return adminRequiredMsg
		}
		parts := strings.Fields(text)
		if len(parts) != 4 {
			return "Usage: update order <id> <status>"
		}
		id, err := strconv.Atoi(parts[2])
		if err != nil {
			return "Order id must be a number."
		}
		return h.orders.UpdateStatus(userID, id, order.Status(parts[3]))

	default:
		return invalidCmdMsg
	}
}

const helpText = `🤖 Store bot usage

General commands:
- menu: show the item list
- order <item> <quantity> [<item> <quantity> ...]: place an order
- myorders: show your orders
- help: show this message

Contact an administrator if you need assistance.`

const adminHelpText = `🤖 Store bot usage (admin mode)

General commands:
- menu: show the item list
- order <item> <quantity> [<item> <quantity> ...]: place an order
- myorders: show your orders
- help: show this message

Admin commands:
- !admin <password>: enter admin mode
- edit menu add <name> <price> <stock> [<description>]: add an item
- edit menu edit <name> [<price> [<stock> [<description>]]]: edit an item
- edit menu delete <name>: delete an item
- view orders [<status>]: list all orders
- update order <id> <status>: change an order's status
- logout: leave admin mode`
