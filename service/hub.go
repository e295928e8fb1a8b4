package service

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
)

var (
	ErrDuplicate  = errors.New("service already registered")
	ErrMissingDep = errors.New("dependency not registered")
	ErrCycle      = errors.New("service dependency cycle")
)

// Hub runs a set of services in dependency order
// Init and Start walk the order forward, Stop walks it backward
type Hub struct {
	mu      sync.Mutex
	byName  map[string]Service
	names   []string // Registration order
	order   []string
	running int // Prefix of order that has started
}

func NewHub() *Hub {
	return &Hub{byName: make(map[string]Service)}
}

// Register adds svc; names must be unique
func (h *Hub) Register(svc Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, ok := h.byName[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	h.byName[name] = svc
	h.names = append(h.names, name)
	h.order = nil
	return nil
}

// InitAll resolves the order and initialises every service with args
// A failure stops the services initialised so far, newest first
func (h *Hub) InitAll(args ...any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	order, err := h.resolve()
	if err != nil {
		return err
	}
	h.order = order

	for i, name := range order {
		if err := h.byName[name].Init(args...); err != nil {
			h.stopRange(i)
			return fmt.Errorf("init %s: %w", name, err)
		}
	}
	return nil
}

// StartAll starts services in order; on failure the started ones are stopped
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.running = 0
	for _, name := range h.order {
		if err := h.byName[name].Start(); err != nil {
			h.stopRange(h.running)
			h.running = 0
			return fmt.Errorf("start %s: %w", name, err)
		}
		h.running++
	}
	return nil
}

// StopAll stops running services in reverse order, logging failures
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopRange(h.running)
	h.running = 0
}

// Order returns the resolved order, empty before InitAll
func (h *Hub) Order() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.order)
}

// stopRange stops order[:n] newest first
func (h *Hub) stopRange(n int) {
	for i := n - 1; i >= 0; i-- {
		name := h.order[i]
		if err := h.byName[name].Stop(); err != nil {
			log.Printf("service %s: stop: %v", name, err)
		}
	}
}

// resolve orders services depth-first so every dependency precedes its dependents
// Roots are visited in name order, dependencies in declared order
func (h *Hub) resolve() ([]string, error) {
	const (
		unseen = iota
		visiting
		done
	)
	state := make(map[string]int, len(h.byName))
	order := make([]string, 0, len(h.byName))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %v", ErrCycle, append(path, name))
		}
		state[name] = visiting
		for _, dep := range h.byName[name].Dependencies() {
			if _, ok := h.byName[dep]; !ok {
				return fmt.Errorf("%w: %s needs %s", ErrMissingDep, name, dep)
			}
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		order = append(order, name)
		return nil
	}

	roots := slices.Sorted(slices.Values(h.names))
	for _, name := range roots {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}
