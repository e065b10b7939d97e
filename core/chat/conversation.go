package chat

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/rafidain/schoollink/core/school"
)

var ErrNotLive = errors.New("conversation is not live")

type State int

const (
	StateIdle State = iota
	StateLive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLive:
		return "live"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Conversation is the live view of the messages between two participants.
// It refreshes from the store on every hub signal and on every resync tick.
type Conversation struct {
	messenger *Messenger
	self      Participant
	other     Participant

	// OnUpdate, when set before Open, receives a snapshot after every change of the visible list.
	OnUpdate func(msgs []school.Message)

	mu      sync.Mutex
	state   State
	msgs    []school.Message
	pending map[string]school.Message // spliced locally, not yet seen in a refresh
	sub     *Subscription
	done    chan struct{}
}

func newConversation(m *Messenger, self, other Participant) *Conversation {
	return &Conversation{
		messenger: m,
		self:      self,
		other:     other,
		pending:   make(map[string]school.Message),
		done:      make(chan struct{}),
	}
}

func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Messages returns a snapshot of the visible list, oldest first.
func (c *Conversation) Messages() []school.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]school.Message(nil), c.msgs...)
}

// Open fetches the conversation, then keeps it fresh until Close is called or ctx is done.
func (c *Conversation) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return errors.Errorf("cannot open a %s conversation", c.state)
	}
	// subscribe before the first fetch so no write falls in between
	c.sub = c.messenger.hub.Subscribe(c.self.ID, c.other.ID)
	c.state = StateLive
	c.mu.Unlock()

	c.refresh()
	go c.run(ctx)
	return nil
}

func (c *Conversation) run(ctx context.Context) {
	var tick <-chan time.Time
	if d := c.messenger.conf.ResyncInterval; d > 0 {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			c.Close()
			return
		case <-c.done:
			return
		case _, ok := <-c.sub.C():
			if !ok {
				return
			}
			c.refresh()
		case <-tick:
			c.refresh()
		}
	}
}

// Close stops the refreshes and unsubscribes. It is safe to call more than once.
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return
	}
	if c.sub != nil {
		c.sub.Close()
	}
	c.state = StateClosed
	close(c.done)
}

// Send sends text to the other participant and shows the message without waiting for a refresh.
func (c *Conversation) Send(ctx context.Context, text string) (school.Message, error) {
	if c.State() != StateLive {
		return school.Message{}, ErrNotLive
	}
	msg, err := c.messenger.Send(ctx, c.self, c.other, text, c.splice)
	if err != nil {
		return school.Message{}, err
	}
	c.splice(msg)
	return msg, nil
}

// refresh replaces the visible list with the stored conversation, keeping local messages the store has not returned yet.
func (c *Conversation) refresh() {
	fetched := c.messenger.store.GetMessages(c.self.ID, c.other.ID)

	c.mu.Lock()
	if c.state != StateLive {
		c.mu.Unlock()
		return
	}
	seen := make(map[string]bool, len(fetched))
	for _, m := range fetched {
		seen[m.ID] = true
		delete(c.pending, m.ID)
	}
	for id, m := range c.pending {
		if !seen[id] {
			fetched = append(fetched, m)
		}
	}
	sortMessages(fetched)
	changed := !sameMessages(c.msgs, fetched)
	c.msgs = fetched
	snapshot := append([]school.Message(nil), fetched...)
	c.mu.Unlock()

	if changed {
		c.notify(snapshot)
	}
}

// splice adds msg to the visible list unless it is already there.
func (c *Conversation) splice(msg school.Message) {
	c.mu.Lock()
	if c.state != StateLive {
		c.mu.Unlock()
		return
	}
	for _, m := range c.msgs {
		if m.ID == msg.ID {
			c.mu.Unlock()
			return
		}
	}
	c.pending[msg.ID] = msg
	c.msgs = append(c.msgs, msg)
	sortMessages(c.msgs)
	snapshot := append([]school.Message(nil), c.msgs...)
	c.mu.Unlock()

	c.notify(snapshot)
}

func (c *Conversation) notify(msgs []school.Message) {
	if c.OnUpdate != nil {
		c.OnUpdate(msgs)
	}
}

func sortMessages(msgs []school.Message) {
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Timestamp.Before(msgs[j].Timestamp) })
}

func sameMessages(a, b []school.Message) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Read != b[i].Read {
			return false
		}
	}
	return true
}
