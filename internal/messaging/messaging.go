// Package messaging is an in-memory stand-in for the platform's messaging
// service. Conversations and messages live only for the process lifetime;
// there is no transport, ordering guarantee or delivery state behind them.
package messaging

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mudassir044/au-pair-connect-frontend/internal/platform"
)

// Participant is the other party in a conversation.
type Participant struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Conversation is a message thread between the signed-in user and one
// participant.
type Conversation struct {
	ID          string      `json:"id"`
	Participant Participant `json:"participant"`
	LastMessage string      `json:"lastMessage"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Message is one entry in a conversation. Mine marks messages sent by the
// signed-in user.
type Message struct {
	ID     string    `json:"id"`
	Body   string    `json:"body"`
	Mine   bool      `json:"mine"`
	SentAt time.Time `json:"sentAt"`
}

// Store holds per-client conversation fixtures. Each browser client gets
// its own seeded thread set on first access.
type Store struct {
	mu     sync.Mutex
	byUser map[string][]*Conversation
	msgs   map[string][]Message
	now    func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byUser: make(map[string][]*Conversation),
		msgs:   make(map[string][]Message),
		now:    time.Now,
	}
}

// seeds returns the fixture participants shown to a user of the given role.
// An au pair talks to families, a family talks to au pairs.
func seeds(role platform.Role) []Participant {
	if role == platform.RoleAuPair {
		return []Participant{
			{Name: "The Bergström Family", Role: "host_family"},
			{Name: "The Rossi Family", Role: "host_family"},
		}
	}
	return []Participant{
		{Name: "Sofia Martinez", Role: "au_pair"},
		{Name: "Emma Dubois", Role: "au_pair"},
	}
}

// ConversationsFor returns the user's conversations, most recent first,
// seeding fixtures on first access.
func (s *Store) ConversationsFor(userID string, role platform.Role) []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	convs, ok := s.byUser[userID]
	if !ok {
		for _, p := range seeds(role) {
			c := &Conversation{
				ID:          uuid.NewString(),
				Participant: p,
				LastMessage: "Hi! Thanks for connecting.",
				UpdatedAt:   s.now(),
			}
			convs = append(convs, c)
			s.msgs[c.ID] = []Message{{
				ID:     uuid.NewString(),
				Body:   "Hi! Thanks for connecting.",
				SentAt: s.now(),
			}}
		}
		s.byUser[userID] = convs
	}

	out := make([]Conversation, len(convs))
	for i, c := range convs {
		out[i] = *c
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

// Messages returns the messages of one conversation in send order, or nil
// when the conversation does not exist.
func (s *Store) Messages(conversationID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, ok := s.msgs[conversationID]
	if !ok {
		return nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Send appends a message from the signed-in user and bumps the
// conversation. Returns false when the conversation does not exist.
func (s *Store) Send(userID, conversationID, body string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.msgs[conversationID]; !ok {
		return false
	}
	s.msgs[conversationID] = append(s.msgs[conversationID], Message{
		ID:     uuid.NewString(),
		Body:   body,
		Mine:   true,
		SentAt: s.now(),
	})
	for _, c := range s.byUser[userID] {
		if c.ID == conversationID {
			c.LastMessage = body
			c.UpdatedAt = s.now()
		}
	}
	return true
}
