package server

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Turn is one user-message/assistant-response pair. The stored assistant
// response is the cleaned reply with any structured JSON already stripped.
type Turn struct {
	ID                string
	Timestamp         time.Time
	UserMessage       string
	AssistantResponse string
}

type session struct {
	userID string
	turns  []Turn
}

// SessionStore owns all conversation state for the process. Sessions are
// created lazily on first append, hold at most maxTurns turns each (oldest
// dropped first), and the user-key set itself is bounded: once maxUsers
// distinct users are tracked, the least-recently-used session is evicted.
// All mutation goes through guarded methods; callers never see live slices.
type SessionStore struct {
	mu       sync.Mutex
	maxTurns int
	maxUsers int
	sessions map[string]*list.Element
	order    *list.List // front = most recently used
}

func NewSessionStore(maxTurns, maxUsers int) *SessionStore {
	if maxTurns <= 0 {
		maxTurns = 10
	}
	if maxUsers <= 0 {
		maxUsers = 10000
	}
	return &SessionStore{
		maxTurns: maxTurns,
		maxUsers: maxUsers,
		sessions: make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Context renders the stored turns for userID as alternating "User:" /
// "Assistant:" lines in chronological order. Users with no session get the
// empty string. Reading counts as use for LRU purposes.
func (s *SessionStore) Context(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.sessions[userID]
	if !ok {
		return ""
	}
	s.order.MoveToFront(elem)

	sess := elem.Value.(*session)
	var b strings.Builder
	for _, turn := range sess.turns {
		b.WriteString("User: ")
		b.WriteString(turn.UserMessage)
		b.WriteString("\n")
		b.WriteString("Assistant: ")
		b.WriteString(turn.AssistantResponse)
		b.WriteString("\n")
	}
	return b.String()
}

// Append records a completed exchange for userID, creating the session if
// absent and truncating to the most recent maxTurns turns.
func (s *SessionStore) Append(userID, userMessage, assistantResponse string) Turn {
	turn := Turn{
		ID:                uuid.NewString(),
		Timestamp:         time.Now().UTC(),
		UserMessage:       userMessage,
		AssistantResponse: assistantResponse,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.sessions[userID]
	if !ok {
		if len(s.sessions) >= s.maxUsers {
			s.evictOldestLocked()
		}
		elem = s.order.PushFront(&session{userID: userID})
		s.sessions[userID] = elem
	} else {
		s.order.MoveToFront(elem)
	}

	sess := elem.Value.(*session)
	sess.turns = append(sess.turns, turn)
	if len(sess.turns) > s.maxTurns {
		sess.turns = append([]Turn(nil), sess.turns[len(sess.turns)-s.maxTurns:]...)
	}
	return turn
}

// Turns returns a copy of the stored turns for userID in chronological order.
func (s *SessionStore) Turns(userID string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.sessions[userID]
	if !ok {
		return nil
	}
	sess := elem.Value.(*session)
	out := make([]Turn, len(sess.turns))
	copy(out, sess.turns)
	return out
}

// Users reports how many distinct user sessions are currently tracked.
func (s *SessionStore) Users() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) evictOldestLocked() {
	oldest := s.order.Back()
	if oldest == nil {
		return
	}
	sess := oldest.Value.(*session)
	s.order.Remove(oldest)
	delete(s.sessions, sess.userID)
}
