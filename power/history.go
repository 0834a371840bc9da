package power

import (
	"fmt"
	"time"

	"github.com/solar3s/ippower/internal/syncutil"
)

// Change is a setting observed to go from one value to another.
type Change struct {
	Time    time.Time
	Setting Setting
	From    Value
	To      Value
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s: %s -> %s", c.Time.Format(time.TimeOnly), c.Setting, c.From, c.To)
}

// Diff returns the changes between two states, in the order of Settings.
func Diff(t time.Time, from, to State) []Change {
	var changes []Change
	for _, s := range Settings {
		if from.Get(s) != to.Get(s) {
			changes = append(changes, Change{Time: t, Setting: s, From: from.Get(s), To: to.Get(s)})
		}
	}
	return changes
}

// DefaultHistorySize is the number of changes a History keeps by default.
const DefaultHistorySize = 256

// History keeps the latest changes, oldest first.
type History struct {
	mu      syncutil.RWMutex
	size    int
	changes []Change
}

func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{size: size}
}

func (h *History) Record(changes ...Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.changes = append(h.changes, changes...)
	if over := len(h.changes) - h.size; over > 0 {
		h.changes = append([]Change(nil), h.changes[over:]...)
	}
}

func (h *History) Changes() []Change {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Change(nil), h.changes...)
}

// LastChanged returns when s was last seen changing.
func (h *History) LastChanged(s Setting) (time.Time, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for i := len(h.changes) - 1; i >= 0; i-- {
		if h.changes[i].Setting == s {
			return h.changes[i].Time, true
		}
	}
	return time.Time{}, false
}
