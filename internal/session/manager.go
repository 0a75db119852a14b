package session

import "sync"

// Manager 持有当前活动会话。控制台是单用户进程，同一时刻至多一个会话；
// 会话在标签页生命周期内有效，进程退出即消失（无本地持久化）。
type Manager struct {
	mu      sync.RWMutex
	current *Session
}

// NewManager 构造空的会话管理器。
func NewManager() *Manager {
	return &Manager{}
}

// Set 替换当前会话。
func (m *Manager) Set(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
}

// Current 返回当前会话；未登录或已过期时返回 nil。
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil || !m.current.Valid() {
		return nil
	}
	return m.current
}

// Clear 注销当前会话。
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}
