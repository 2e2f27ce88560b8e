package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Huiyue420/line-store-bot/internal/order"
)

// parseOrderCommand turns "order <name> <qty> [<name> <qty> ...]" into
// order requests. Name/quantity pairs must balance.
func parseOrderCommand(text string) ([]order.Request, error) {
	parts := strings.Fields(text)[1:]
	if len(parts) == 0 || len(parts)%2 != 0 {
		return nil, errors.New("Order format: order <item> <quantity> [<item> <quantity> ...]")
	}

	reqs := make([]order.Request, 0, len(parts)/2)
	for i := 0; i < len(parts); i += 2 {
		qty, err := strconv.Atoi(parts[i+1])
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("Quantity must be a positive integer: %s", parts[i+1])
		}
		reqs = append(reqs, order.Request{Name: parts[i], Quantity: qty})
	}
	return reqs, nil
}

// editMenuCommand is a parsed "edit menu ..." command. Price, stock and
// description are nil when the command left them out.
type editMenuCommand struct {
	action      string // add, edit, delete
	name        string
	price       *int
	stock       *int
	description *string
}

// parseEditMenuCommand handles the three positional forms:
//
//	edit menu add <name> <price> <stock> [<description...>]
//	edit menu edit <name> [<price> [<stock> [<description...>]]]
//	edit menu delete <name>
func parseEditMenuCommand(text string) (*editMenuCommand, error) {
	parts := strings.Fields(text)
	if len(parts) < 4 {
		return nil, errors.New("Invalid command format.")
	}

	cmd := &editMenuCommand{action: parts[2], name: parts[3]}
	switch cmd.action {
	case "add":
		if len(parts) < 6 {
			return nil, errors.New("Adding an item requires a price and a stock count.")
		}
		price, err1 := strconv.Atoi(parts[4])
		stock, err2 := strconv.Atoi(parts[5])
		if err1 != nil || err2 != nil || price <= 0 || stock < 0 {
			return nil, errors.New("Price must be a positive integer and stock a non-negative integer.")
		}
		cmd.price, cmd.stock = &price, &stock
		desc := strings.Join(parts[6:], " ")
		cmd.description = &desc
		return cmd, nil

	case "edit":
		if len(parts) < 5 {
			return nil, errors.New("Editing an item requires at least one field.")
		}
		price, err := strconv.Atoi(parts[4])
		if err != nil || price <= 0 {
			return nil, errors.New("Price must be a positive integer and stock a non-negative integer.")
		}
		cmd.price = &price
		if len(parts) > 5 {
			stock, err := strconv.Atoi(parts[5])
			if err != nil || stock < 0 {
				return nil, errors.New("Price must be a positive integer and stock a non-negative integer.")
			}
			cmd.stock = &stock
		}
		if len(parts) > 6 {
			desc := strings.Join(parts[6:], " ")
			cmd.description = &desc
		}
		return cmd, nil

	case "delete":
		return cmd, nil

	default:
		return nil, fmt.Errorf("Unknown action: %s", cmd.action)
	}
}
