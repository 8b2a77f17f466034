package agent

import (
	"container/list"
	"sync"
)

const (
	// memoryWindow is how many exchanges a session keeps. Older turns fall
	// off so the prompt stays a bounded size.
	memoryWindow = 10
	maxSessions  = 500
)

// Exchange is one user turn and the model's reply.
type Exchange struct {
	User  string
	Model string
}

type session struct {
	userID    int64
	exchanges []Exchange
}

// memory holds per-user conversation windows. Least recently used sessions
// are evicted once maxSessions is reached.
type memory struct {
	mu       sync.Mutex
	sessions map[int64]*list.Element
	order    *list.List
}

func newMemory() *memory {
	return &memory{
		sessions: make(map[int64]*list.Element),
		order:    list.New(),
	}
}

func (m *memory) History(userID int64) []Exchange {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.sessions[userID]
	if !ok {
		return nil
	}
	m.order.MoveToFront(el)

	s := el.Value.(*session)
	out := make([]Exchange, len(s.exchanges))
	copy(out, s.exchanges)
	return out
}

func (m *memory) Append(userID int64, user, model string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.sessions[userID]
	if !ok {
		el = m.order.PushFront(&session{userID: userID})
		m.sessions[userID] = el
		if m.order.Len() > maxSessions {
			oldest := m.order.Back()
			m.order.Remove(oldest)
			delete(m.sessions, oldest.Value.(*session).userID)
		}
	} else {
		m.order.MoveToFront(el)
	}

	s := el.Value.(*session)
	s.exchanges = append(s.exchanges, Exchange{User: user, Model: model})
	if len(s.exchanges) > memoryWindow {
		s.exchanges = s.exchanges[len(s.exchanges)-memoryWindow:]
	}
}

func (m *memory) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.sessions[userID]; ok {
		m.order.Remove(el)
		delete(m.sessions, userID)
	}
}
