package ids

import (
	"fmt"
	"regexp"
	"sync"
)

// Category selects which display-id counter a call operates on.
type Category string

const (
	CategoryEquipment Category = "equipment"
	CategoryUser      Category = "user"
)

var prefixes = map[Category]string{
	CategoryEquipment: "EQ",
	CategoryUser:      "USR",
}

var patterns = map[Category]*regexp.Regexp{
	CategoryEquipment: regexp.MustCompile(`^EQ\d{6}$`),
	CategoryUser:      regexp.MustCompile(`^USR\d{6}$`),
}

// CounterStore persists the last issued counter per category so display ids
// survive restarts.
type CounterStore interface {
	Load(category Category) (int, error)
	Save(category Category, value int) error
}

// Generator issues unique, monotonically increasing display identifiers
// per category. It is constructed once at startup and passed to the stores
// that need it; the mutex makes concurrent callers safe.
type Generator struct {
	mu       sync.Mutex
	store    CounterStore
	counters map[Category]int
}

// NewGenerator creates a generator, loading the last issued counters from
// the store. A counter missing from the store starts at zero, so the first
// generated id ends in 000001.
func NewGenerator(store CounterStore) (*Generator, error) {
	g := &Generator{
		store:    store,
		counters: make(map[Category]int),
	}
	for category := range prefixes {
		last, err := store.Load(category)
		if err != nil {
			return nil, fmt.Errorf("load %s counter: %w", category, err)
		}
		g.counters[category] = last
	}
	return g, nil
}

// Generate returns the next display id for a category, persisting the
// incremented counter before returning.
func (g *Generator) Generate(category Category) (string, error) {
	prefix, ok := prefixes[category]
	if !ok {
		return "", fmt.Errorf("unknown id category: %s", category)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	next := g.counters[category] + 1
	if err := g.store.Save(category, next); err != nil {
		return "", fmt.Errorf("save %s counter: %w", category, err)
	}
	g.counters[category] = next
	return fmt.Sprintf("%s%06d", prefix, next), nil
}

// Validate reports whether id is exactly the category prefix followed by
// six digits.
func Validate(category Category, id string) bool {
	pattern, ok := patterns[category]
	if !ok {
		return false
	}
	return pattern.MatchString(id)
}

// MemoryCounterStore is an in-memory CounterStore for tests and for running
// without persistence.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[Category]int
}

// NewMemoryCounterStore creates an empty in-memory counter store.
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{counters: make(map[Category]int)}
}

// Load returns the stored counter for a category, zero if absent.
func (s *MemoryCounterStore) Load(category Category) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[category], nil
}

// Save stores the counter for a category.
func (s *MemoryCounterStore) Save(category Category, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[category] = value
	return nil
}
