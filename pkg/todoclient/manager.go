package todoclient

import (
	"fmt"
	"strings"
	"sync"
)

type FilterStatus string

const (
	FilterAll       FilterStatus = "all"
	FilterPending   FilterStatus = "pending"
	FilterCompleted FilterStatus = "completed"
)

// Filters in display order
var Filters = []FilterStatus{FilterAll, FilterPending, FilterCompleted}

func ParseFilter(s string) (FilterStatus, error) {
	switch f := FilterStatus(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterAll, FilterPending, FilterCompleted:
		return f, nil
	case "":
		return FilterAll, nil
	default:
		return "", fmt.Errorf("unknown filter %q (want all, pending or completed)", s)
	}
}

// Next cycles all → pending → completed → all
func (f FilterStatus) Next() FilterStatus {
	for i, x := range Filters {
		if x == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

func (f FilterStatus) match(t Todo) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Manager caches the server's records keyed by id and keeps them in list
// order (newest first). A call that fails leaves the cache as it was.
type Manager struct {
	api API

	mu    sync.RWMutex
	byID  map[string]Todo
	order []string
}

func NewManager(api API) *Manager {
	return &Manager{
		api:  api,
		byID: make(map[string]Todo),
	}
}

// Fetch replaces the cache with the server's list.
func (m *Manager) Fetch() ([]Todo, error) {
	todos, err := m.api.List()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Todo, len(todos))
	order := make([]string, 0, len(todos))
	for _, t := range todos {
		if _, dup := byID[t.ID]; !dup {
			order = append(order, t.ID)
		}
		byID[t.ID] = t
	}

	m.mu.Lock()
	m.byID, m.order = byID, order
	m.mu.Unlock()

	return m.Records(), nil
}

// Add rejects a blank task locally, without a request.
func (m *Manager) Add(task, dueDate string) (Todo, error) {
	if strings.TrimSpace(task) == "" {
		return Todo{}, &Error{Kind: KindValidation, Message: "task is required"}
	}

	todo, err := m.api.Create(CreateInput{Task: task, DueDate: dueDate})
	if err != nil {
		return Todo{}, err
	}

	m.mu.Lock()
	if _, exists := m.byID[todo.ID]; !exists {
		m.order = append([]string{todo.ID}, m.order...)
	}
	m.byID[todo.ID] = todo
	m.mu.Unlock()

	return todo, nil
}

// Edit sends only the non-nil fields.
func (m *Manager) Edit(id string, in UpdateInput) (Todo, error) {
	if in.Task != nil && strings.TrimSpace(*in.Task) == "" {
		return Todo{}, &Error{Kind: KindValidation, Message: "task must not be empty"}
	}
	return m.update(id, in)
}

// Toggle flips the cached completed flag; the record must have been fetched.
func (m *Manager) Toggle(id string) (Todo, error) {
	cur, ok := m.Get(id)
	if !ok {
		return Todo{}, &Error{Kind: KindNotFound, Message: "todo " + id + " is not loaded"}
	}
	completed := !cur.Completed
	return m.update(id, UpdateInput{Completed: &completed})
}

func (m *Manager) update(id string, in UpdateInput) (Todo, error) {
	todo, err := m.api.Update(id, in)
	if err != nil {
		return Todo{}, err
	}

	m.mu.Lock()
	if _, exists := m.byID[todo.ID]; !exists {
		m.order = append([]string{todo.ID}, m.order...)
	}
	m.byID[todo.ID] = todo
	m.mu.Unlock()

	return todo, nil
}

func (m *Manager) Delete(id string) error {
	if err := m.api.Delete(id); err != nil {
		return err
	}

	m.mu.Lock()
	m.remove(id)
	m.mu.Unlock()
	return nil
}

// ClearAll deletes every record on the server and empties the cache.
func (m *Manager) ClearAll() (int64, error) {
	n, err := m.api.DeleteAll()
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	m.byID = make(map[string]Todo)
	m.order = nil
	m.mu.Unlock()
	return n, nil
}

// remove caller holds mu
func (m *Manager) remove(id string) {
	if _, ok := m.byID[id]; !ok {
		return
	}
	delete(m.byID, id)
	for i, x := range m.order {
		if x == id {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Manager) Get(id string) (Todo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.byID[id]
	return t, ok
}

// Records a copy of the cache in list order
func (m *Manager) Records() []Todo {
	return m.Filter(FilterAll)
}

// Filter returns a fresh slice in list order; the cache is not touched.
func (m *Manager) Filter(status FilterStatus) []Todo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Todo, 0, len(m.order))
	for _, id := range m.order {
		if t := m.byID[id]; status.match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Stats counts completed and pending records in the cache
func (m *Manager) Stats() (done, pending int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.byID {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
