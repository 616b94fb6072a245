// Package changelog contains the pure rules for Liquibase changelog
// identifiers, file names and column fragments.
package changelog

import (
	"sync"
	"time"
)

// IDLayout is the timestamp layout of changelog identifiers (one-second resolution).
const IDLayout = "20060102150405"

// Clock hands out strictly increasing changelog identifiers. When two
// identifiers are requested within the same second the second one is bumped
// past the first.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// NewClock creates a Clock reading time from now.
func NewClock(now func() time.Time) *Clock {
	return &Clock{now: now}
}

var processClock = NewClock(time.Now)

// ProcessClock returns the clock shared by the whole process.
func ProcessClock() *Clock {
	return processClock
}

// Next returns the next identifier.
func (c *Clock) Next() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Second)
	if !t.After(c.last) {
		t = c.last.Add(time.Second)
	}
	c.last = t
	return t.Format(IDLayout)
}

// FileName returns the changelog file name for an identifier and suffix.
// e.g., ("20240102030405", "added_entity_Order") -> "20240102030405_added_entity_Order.xml"
func FileName(id, suffix string) string {
	return id + "_" + suffix + ".xml"
}

// EntitySuffix is the suffix of the changelog that created an entity.
func EntitySuffix(entityName string) string {
	return "added_entity_" + entityName
}
