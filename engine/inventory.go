package engine

import "github.com/nathoo/arcanum/types"

// Inventory is a map-backed item store. The full game fronts the
// entity-component container's item state with the same query surface;
// this implementation backs the terminal front ends and tests.
type Inventory struct {
	items    map[string]int
	onChange func(types.Change)
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{items: map[string]int{}}
}

// SetChangeHandler registers the single change handler for item mutations
// (namespace "inventory").
func (inv *Inventory) SetChangeHandler(h func(types.Change)) {
	inv.onChange = h
}

// HasItem reports whether at least count of the item is held.
// count <= 1 means "at least one".
func (inv *Inventory) HasItem(itemID string, count int) bool {
	if count < 1 {
		count = 1
	}
	return inv.items[itemID] >= count
}

// Count returns how many of the item are held.
func (inv *Inventory) Count(itemID string) int {
	return inv.items[itemID]
}

// Add puts count of the item into the inventory.
func (inv *Inventory) Add(itemID string, count int) {
	if count < 1 {
		count = 1
	}
	old := inv.items[itemID]
	inv.items[itemID] = old + count
	inv.notify(itemID, old, inv.items[itemID])
}

// Remove takes up to count of the item out of the inventory.
func (inv *Inventory) Remove(itemID string, count int) {
	old, ok := inv.items[itemID]
	if !ok {
		return
	}
	if count < 1 {
		count = 1
	}
	remaining := old - count
	if remaining <= 0 {
		delete(inv.items, itemID)
		remaining = 0
	} else {
		inv.items[itemID] = remaining
	}
	inv.notify(itemID, old, remaining)
}

// Items returns a plain copy of the held items.
func (inv *Inventory) Items() map[string]int {
	out := make(map[string]int, len(inv.items))
	for k, v := range inv.items {
		out[k] = v
	}
	return out
}

// Load replaces the inventory from a snapshot without notifications.
func (inv *Inventory) Load(snapshot map[string]int) {
	inv.items = make(map[string]int, len(snapshot))
	for k, v := range snapshot {
		if v > 0 {
			inv.items[k] = v
		}
	}
}

func (inv *Inventory) notify(itemID string, old, new int) {
	if inv.onChange != nil {
		inv.onChange(types.Change{Namespace: "inventory", Key: itemID, OldValue: old, NewValue: new})
	}
}
