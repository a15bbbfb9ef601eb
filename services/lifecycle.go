package services

import "github.com/Krishnachaitanya-dev/madmax/models"

// OrderStatuses lists every valid order status in lifecycle order.
var OrderStatuses = []string{
	models.StatusPending,
	models.StatusPickedUp,
	models.StatusProcessing,
	models.StatusReady,
	models.StatusDelivered,
}

// statusFlow is the strict forward transition table. Delivered has no
// successor: it is the terminal state.
var statusFlow = map[string]string{
	models.StatusPending:    models.StatusPickedUp,
	models.StatusPickedUp:   models.StatusProcessing,
	models.StatusProcessing: models.StatusReady,
	models.StatusReady:      models.StatusDelivered,
}

// NextStatus returns the status that follows current in the lifecycle.
// ok is false when current is delivered (already completed, callers surface
// a no-op notification) or is not a recognized status. Pure; persisting the
// result is the caller's concern.
func NextStatus(current string) (next string, ok bool) {
	next, ok = statusFlow[current]
	return next, ok
}

// IsValidStatus reports whether s is one of the five order statuses.
func IsValidStatus(s string) bool {
	if s == models.StatusDelivered {
		return true
	}
	_, ok := statusFlow[s]
	return ok
}

// IsTerminalStatus reports whether s is the end of the lifecycle.
func IsTerminalStatus(s string) bool {
	return s == models.StatusDelivered
}
