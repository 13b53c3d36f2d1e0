package board

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"StarTrade/internal/model"
	"StarTrade/pkg/logger"
)

// DefaultGroups is the layout of a fresh board.
var DefaultGroups = []string{"watchlist", "portfolio"}

// Manager holds the grouped-symbol layout and mirrors it to disk after every change.
type Manager struct {
	mu       sync.Mutex
	state    *model.BoardState
	filePath string
	log      *zap.Logger
}

// NewManager creates a Manager, loading or initializing state from disk. An empty
// filePath keeps the board in memory only.
func NewManager(filePath string, groups []string) (*Manager, error) {
	state := &model.BoardState{}
	if filePath != "" {
		var err error
		if state, err = LoadState(filePath); err != nil {
			return nil, fmt.Errorf("load board: %w", err)
		}
	}

	// Initialize if fresh state
	if len(state.Groups) == 0 {
		if len(groups) == 0 {
			groups = DefaultGroups
		}
		for _, g := range groups {
			state.Groups = append(state.Groups, model.Group{Name: g, Symbols: []string{}})
		}
	}

	m := &Manager{state: state, filePath: filePath, log: logger.Named("board")}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Groups returns a deep copy of the current layout.
func (m *Manager) Groups() []model.Group {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Group, len(m.state.Groups))
	for i, g := range m.state.Groups {
		out[i] = model.Group{Name: g.Name, Symbols: append([]string{}, g.Symbols...)}
	}
	return out
}

// Symbols returns every symbol on the board in group order.
func (m *Manager) Symbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for _, g := range m.state.Groups {
		out = append(out, g.Symbols...)
	}
	return out
}

// Add inserts symbol into group at index (clamped). A symbol already on the board
// is moved instead.
func (m *Manager) Add(group, symbol string, index int) error {
	symbol = normalize(symbol)
	if symbol == "" {
		return fmt.Errorf("empty symbol")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	gi := m.groupIndex(group)
	if gi < 0 {
		return fmt.Errorf("%w: %s", model.ErrUnknownGroup, group)
	}
	if from, pos := m.locate(symbol); from >= 0 {
		m.removeAt(from, pos)
	}
	m.insertAt(gi, symbol, index)
	return m.persist("add", symbol)
}

// Remove deletes symbol from group.
func (m *Manager) Remove(group, symbol string) error {
	symbol = normalize(symbol)

	m.mu.Lock()
	defer m.mu.Unlock()

	gi := m.groupIndex(group)
	if gi < 0 {
		return fmt.Errorf("%w: %s", model.ErrUnknownGroup, group)
	}
	pos := indexOf(m.state.Groups[gi].Symbols, symbol)
	if pos < 0 {
		return fmt.Errorf("%w: %s not in %s", model.ErrUnknownSymbol, symbol, group)
	}
	m.removeAt(gi, pos)
	return m.persist("remove", symbol)
}

// Move places symbol in toGroup at toIndex (clamped). Within one group this is a reorder.
func (m *Manager) Move(symbol, toGroup string, toIndex int) error {
	symbol = normalize(symbol)

	m.mu.Lock()
	defer m.mu.Unlock()

	gi := m.groupIndex(toGroup)
	if gi < 0 {
		return fmt.Errorf("%w: %s", model.ErrUnknownGroup, toGroup)
	}
	from, pos := m.locate(symbol)
	if from < 0 {
		return fmt.Errorf("%w: %s", model.ErrUnknownSymbol, symbol)
	}
	m.removeAt(from, pos)
	m.insertAt(gi, symbol, toIndex)
	return m.persist("move", symbol)
}

func (m *Manager) groupIndex(name string) int {
	for i, g := range m.state.Groups {
		if g.Name == name {
			return i
		}
	}
	return -1
}

func (m *Manager) locate(symbol string) (group, pos int) {
	for gi, g := range m.state.Groups {
		if p := indexOf(g.Symbols, symbol); p >= 0 {
			return gi, p
		}
	}
	return -1, -1
}

func (m *Manager) removeAt(gi, pos int) {
	s := m.state.Groups[gi].Symbols
	m.state.Groups[gi].Symbols = append(s[:pos:pos], s[pos+1:]...)
}

func (m *Manager) insertAt(gi int, symbol string, index int) {
	s := m.state.Groups[gi].Symbols
	if index < 0 || index > len(s) {
		index = len(s)
	}
	out := make([]string, 0, len(s)+1)
	out = append(out, s[:index]...)
	out = append(out, symbol)
	out = append(out, s[index:]...)
	m.state.Groups[gi].Symbols = out
}

// persist mirrors the layout to disk. The in-memory change stands even if the write fails.
func (m *Manager) persist(action, symbol string) error {
	if err := m.save(); err != nil {
		m.log.Error("failed to save board state", zap.String("action", action), zap.String("symbol", symbol), zap.Error(err))
		return fmt.Errorf("save board: %w", err)
	}
	return nil
}

func (m *Manager) save() error {
	if m.filePath == "" {
		return nil
	}
	return SaveState(m.filePath, m.state)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
