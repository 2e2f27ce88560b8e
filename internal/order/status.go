package order

// Status is an order's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusCompleted: true, StatusCancelled: true},
	StatusCancelled: {StatusPending: true}, // a cancelled order can be restored
	StatusCompleted: {},
}

// CanTransition reports whether the state machine allows from → to.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// ValidStatus reports whether s names a known lifecycle state.
func ValidStatus(s Status) bool {
	_, ok := validNext[s]
	return ok
}

func statusEmoji(s Status) string {
	switch s {
	case StatusPending:
		return "⏳"
	case StatusConfirmed:
		return "✅"
	case StatusCancelled:
		return "❌"
	case StatusCompleted:
		return "🎉"
	default:
		return "❓"
	}
}
