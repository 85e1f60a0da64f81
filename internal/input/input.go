package input

import "sync"

// Action represents a logical viewer action, not a physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionLookSlower
	ActionLookFaster
	ActionMoveSlower
	ActionMoveFaster
	ActionRadiusDown
	ActionRadiusUp
	ActionToggleShading
	ActionToggleProfiling
	ActionQuit
	ActionCount // Sentinel value for array sizing
)

// Key is a physical key code as reported by the windowing layer
type Key int

// Manager maps physical keys to logical actions and tracks their state
type Manager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[Key][]Action

	currentState [ActionCount]bool

	// Just pressed/released flags (reset each frame)
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

// NewManager creates a manager with the given bindings
func NewManager(bindings map[Key][]Action) *Manager {
	m := &Manager{keyToActions: make(map[Key][]Action)}
	for key, actions := range bindings {
		for _, a := range actions {
			m.Bind(key, a)
		}
	}
	return m
}

// Bind binds a physical key to a logical action
func (m *Manager) Bind(key Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// Unbind removes all action bindings for a key
func (m *Manager) Unbind(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keyToActions, key)
}

// HandleKey records a key transition; repeats count as held
func (m *Manager) HandleKey(key Key, pressed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, act := range m.keyToActions[key] {
		// Detect edges immediately when event arrives
		if pressed && !m.currentState[act] {
			m.justPressed[act] = true
		}
		if !pressed && m.currentState[act] {
			m.justReleased[act] = true
		}
		m.currentState[act] = pressed
	}
}

// PostUpdate must be called at the end of each frame to reset edge flags
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.justPressed[:])
	clear(m.justReleased[:])
}

// IsActive returns true if the action is currently being held down
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justPressed[action]
}

// JustReleased returns true only if the action was released in the current frame
func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justReleased[action]
}

// Axis returns +1, -1 or 0 depending on which of two opposing actions is held
func (m *Manager) Axis(positive, negative Action) float32 {
	var v float32
	if m.IsActive(positive) {
		v++
	}
	if m.IsActive(negative) {
		v--
	}
	return v
}
