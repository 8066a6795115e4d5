package cart

import (
	"context"
	"encoding/json"
	"log"
)

// Store is one cart persistence backend. Load reports found=false when the
// backend has nothing for the session; a present-but-corrupt value degrades
// to an empty cart inside the backend (found=true, empty items) and is never
// surfaced as an error.
type Store interface {
	Load(ctx context.Context, sessionID string) (items []LineItem, found bool, err error)
	Save(ctx context.Context, sessionID string, items []LineItem) error
	Clear(ctx context.Context, sessionID string) error
}

// Stores is a priority-ordered list of backends: reads take the first
// backend that has a value, writes go to every backend. Adding a third
// backend means appending to the list, not touching call sites.
type Stores []Store

// Load returns the cart of the first backend holding one. A backend that
// errors (e.g. the database is down) is logged and skipped so a later
// backend can still resume the cart.
func (s Stores) Load(ctx context.Context, sessionID string) *Cart {
	for _, st := range s {
		items, found, err := st.Load(ctx, sessionID)
		if err != nil {
			log.Printf("cart store load failed, trying next backend: %v", err)
			continue
		}
		if found {
			return FromItems(items)
		}
	}
	return New()
}

// Persist writes the cart to every backend. An empty cart actively clears
// all backends instead of persisting an empty list, so storage stays bounded
// and a cleared cart never resumes as a phantom. The last backend error is
// returned after every backend has been attempted.
func (s Stores) Persist(ctx context.Context, sessionID string, c *Cart) error {
	var lastErr error
	if c.IsEmpty() {
		for _, st := range s {
			if err := st.Clear(ctx, sessionID); err != nil {
				log.Printf("cart store clear failed: %v", err)
				lastErr = err
			}
		}
		return lastErr
	}

	items := c.Items()
	for _, st := range s {
		if err := st.Save(ctx, sessionID, items); err != nil {
			log.Printf("cart store save failed: %v", err)
			lastErr = err
		}
	}
	return lastErr
}

// decodeItems parses a persisted cart payload. Anything that is not a JSON
// array of line items counts as corrupt and degrades to an empty cart; the
// user never sees an error because of a bad cookie.
func decodeItems(raw []byte) []LineItem {
	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("discarding corrupt persisted cart: %v", err)
		return []LineItem{}
	}
	if items == nil {
		return []LineItem{}
	}
	return items
}
