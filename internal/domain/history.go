package domain

import (
	"strconv"
	"strings"
)

// MaxGatewayHistory bounds how many session ids are remembered per
// transaction. Late webhooks referencing older sessions are rejected.
const MaxGatewayHistory = 10

// GatewayHistory is the ordered list of session ids ever associated with one
// order transaction, newest first. It replaces the comma-joined string bag
// the legacy plugin kept in order-transaction custom fields.
type GatewayHistory struct {
	ids []int
}

// NewGatewayHistory builds a history from ids given newest first.
func NewGatewayHistory(ids ...int) GatewayHistory {
	h := GatewayHistory{}
	for i := len(ids) - 1; i >= 0; i-- {
		h.Append(ids[i])
	}
	return h
}

// ParseGatewayHistory decodes the comma-joined persistence form. Empty
// segments, duplicates and non-numeric garbage are dropped rather than
// rejected; legacy records contain all three.
func ParseGatewayHistory(s string) GatewayHistory {
	h := GatewayHistory{}
	parts := strings.Split(s, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		id, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || id <= 0 {
			continue
		}
		h.Append(id)
	}
	return h
}

// Append records id as the most recent session, evicting the oldest entry
// once the bound is reached. Re-appending an existing id moves it to the
// front instead of duplicating it.
func (h *GatewayHistory) Append(id int) {
	h.Remove(id)
	h.ids = append([]int{id}, h.ids...)
	if len(h.ids) > MaxGatewayHistory {
		h.ids = h.ids[:MaxGatewayHistory]
	}
}

// Remove drops id from the history. Removing an absent id is a no-op, which
// keeps supersede passes idempotent under webhook redelivery.
func (h *GatewayHistory) Remove(id int) {
	for i, existing := range h.ids {
		if existing == id {
			h.ids = append(h.ids[:i:i], h.ids[i+1:]...)
			return
		}
	}
}

// Contains reports whether id was ever recorded and not yet evicted.
func (h GatewayHistory) Contains(id int) bool {
	for _, existing := range h.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Latest returns the most recent session id, or 0 if the history is empty.
func (h GatewayHistory) Latest() int {
	if len(h.ids) == 0 {
		return 0
	}
	return h.ids[0]
}

// IDs returns the ids newest first. The slice is a copy.
func (h GatewayHistory) IDs() []int {
	out := make([]int, len(h.ids))
	copy(out, h.ids)
	return out
}

func (h GatewayHistory) Len() int {
	return len(h.ids)
}

// String renders the comma-joined persistence form, newest first.
func (h GatewayHistory) String() string {
	parts := make([]string, len(h.ids))
	for i, id := range h.ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
