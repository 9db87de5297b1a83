package ops

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"smartdip/internal/raster"
)

// Request is one queued operation in the backend's wire form.
type Request struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// Result is one processed image returned by the backend.
type Result struct {
	Operation   string
	Description string
	Image       *raster.Image
	Width       int
	Height      int
}

// Item is a queued operation with its validated parameters.
type Item struct {
	ID        int
	Operation Operation
	Params    map[string]any
}

// Request returns the item's wire form.
func (it Item) Request() Request {
	params := make(map[string]any, len(it.Params))
	for k, v := range it.Params {
		params[k] = v
	}
	return Request{Type: it.Operation.Name, Params: params}
}

// Queue is the ordered list of operations to run on the current image.
// The backend applies them in order, each to the previous result.
type Queue struct {
	mu       sync.RWMutex
	items    []Item
	nextID   int
	onChange func()
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{nextID: 1}
}

// OnChange registers a callback invoked after every mutation.
func (q *Queue) OnChange(fn func()) {
	q.mu.Lock()
	q.onChange = fn
	q.mu.Unlock()
}

func (q *Queue) changed() {
	q.mu.RLock()
	fn := q.onChange
	q.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Add validates params against the named operation and appends it.
func (q *Queue) Add(name string, params map[string]any) (Item, error) {
	op, err := Lookup(name)
	if err != nil {
		return Item{}, err
	}
	norm, err := op.Normalize(params)
	if err != nil {
		return Item{}, err
	}

	q.mu.Lock()
	it := Item{ID: q.nextID, Operation: op, Params: norm}
	q.nextID++
	q.items = append(q.items, it)
	q.mu.Unlock()

	q.changed()
	return it, nil
}

// Update replaces the parameters of the item at index.
func (q *Queue) Update(index int, params map[string]any) error {
	q.mu.Lock()
	if index < 0 || index >= len(q.items) {
		q.mu.Unlock()
		return fmt.Errorf("queue index %d out of range", index)
	}
	norm, err := q.items[index].Operation.Normalize(params)
	if err != nil {
		q.mu.Unlock()
		return err
	}
	q.items[index].Params = norm
	q.mu.Unlock()

	q.changed()
	return nil
}

// Remove deletes the item at index.
func (q *Queue) Remove(index int) error {
	q.mu.Lock()
	if index < 0 || index >= len(q.items) {
		q.mu.Unlock()
		return fmt.Errorf("queue index %d out of range", index)
	}
	q.items = append(q.items[:index], q.items[index+1:]...)
	q.mu.Unlock()

	q.changed()
	return nil
}

// Move relocates the item at from to position to.
func (q *Queue) Move(from, to int) error {
	q.mu.Lock()
	n := len(q.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		q.mu.Unlock()
		return fmt.Errorf("queue move %d->%d out of range", from, to)
	}
	it := q.items[from]
	q.items = append(q.items[:from], q.items[from+1:]...)
	q.items = append(q.items[:to], append([]Item{it}, q.items[to:]...)...)
	q.mu.Unlock()

	q.changed()
	return nil
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
	q.changed()
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.items)
}

// Items returns a snapshot of the queue.
func (q *Queue) Items() []Item {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]Item, len(q.items))
	copy(out, q.items)
	return out
}

// Requests returns the queue in the backend's wire form.
func (q *Queue) Requests() []Request {
	items := q.Items()
	reqs := make([]Request, len(items))
	for i, it := range items {
		reqs[i] = it.Request()
	}
	return reqs
}

// Recipe is the saved form of a queue.
type Recipe struct {
	Operations []Request `json:"operations"`
}

// Export writes the queue as an indented JSON recipe.
func (q *Queue) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Recipe{Operations: q.Requests()}); err != nil {
		return fmt.Errorf("failed to encode recipe: %w", err)
	}
	return nil
}

// Import replaces the queue with a recipe. Every entry is validated first; on
// error the queue is left unchanged.
func (q *Queue) Import(r io.Reader) error {
	var recipe Recipe
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&recipe); err != nil {
		return fmt.Errorf("failed to decode recipe: %w", err)
	}

	items := make([]Item, 0, len(recipe.Operations))
	for i, req := range recipe.Operations {
		op, err := Lookup(req.Type)
		if err != nil {
			return fmt.Errorf("recipe entry %d: %w", i, err)
		}
		norm, err := op.Normalize(req.Params)
		if err != nil {
			return fmt.Errorf("recipe entry %d: %w", i, err)
		}
		items = append(items, Item{Operation: op, Params: norm})
	}

	q.mu.Lock()
	for i := range items {
		items[i].ID = q.nextID
		q.nextID++
	}
	q.items = items
	q.mu.Unlock()

	q.changed()
	return nil
}
