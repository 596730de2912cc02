package domain

// Role labels one side of an exchange.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is a single message within a session.
type Turn struct {
	Role Role
	Text string
}

// Conversation is the append-only turn history for one session. It is owned
// by the session that created it and is never shared across concurrent
// requests, so no locking happens here.
type Conversation struct {
	turns []Turn
}

// Append records a turn.
func (c *Conversation) Append(role Role, text string) {
	c.turns = append(c.turns, Turn{Role: role, Text: text})
}

// Turns returns a copy of the recorded turns in order.
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of recorded turns.
func (c *Conversation) Len() int {
	return len(c.turns)
}
