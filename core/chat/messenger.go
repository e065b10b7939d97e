package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/rafidain/schoollink/core"
	"github.com/rafidain/schoollink/core/school"
)

var ErrEmptyMessage = errors.New("message is empty")

type (
	// Store is the message side of the data-access service.
	Store interface {
		SendMessage(ctx context.Context, msg school.Message) error
		GetMessages(userID, otherID string) []school.Message
	}

	Participant struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// Messenger sends messages and plays the scripted bots.
	Messenger struct {
		store  Store
		hub    *Hub
		conf   core.ChatConfig
		logger core.Logger
		now    func() time.Time

		replies sync.WaitGroup
	}
)

func NewMessenger(store Store, hub *Hub, conf core.ChatConfig, logger core.Logger) *Messenger {
	return &Messenger{
		store:  store,
		hub:    hub,
		conf:   conf,
		logger: logger,
		now:    time.Now,
	}
}

// IsBot reports whether id names a scripted-bot participant.
func (m *Messenger) IsBot(id string) bool {
	return m.conf.BotPrefix != "" && strings.HasPrefix(id, m.conf.BotPrefix)
}

// Send stores a message from sender to recipient.
// When recipient is a bot, its canned reply is stored after the configured delay and passed to onReply.
func (m *Messenger) Send(ctx context.Context, sender, recipient Participant, text string, onReply func(school.Message)) (school.Message, error) {
	text = core.CleanString(text)
	if text == "" {
		return school.Message{}, ErrEmptyMessage
	}

	msg := school.Message{
		ID:          core.NewID(),
		SenderID:    sender.ID,
		SenderName:  sender.Name,
		RecipientID: recipient.ID,
		Content:     text,
		Timestamp:   m.now().UTC(),
	}
	if err := m.store.SendMessage(ctx, msg); err != nil {
		return school.Message{}, errors.Wrap(err, "sending message")
	}

	if m.IsBot(recipient.ID) {
		m.replies.Add(1)
		time.AfterFunc(m.conf.BotReplyDelay, func() {
			defer m.replies.Done()
			m.reply(recipient, sender, onReply)
		})
	}
	return msg, nil
}

// reply outlives the request that triggered it.
func (m *Messenger) reply(bot, to Participant, onReply func(school.Message)) {
	msg := school.Message{
		ID:          core.NewID(),
		SenderID:    bot.ID,
		SenderName:  bot.Name,
		RecipientID: to.ID,
		Content:     m.conf.BotReply,
		Timestamp:   m.now().UTC(),
	}
	if err := m.store.SendMessage(context.Background(), msg); err != nil {
		if m.logger != nil {
			m.logger.Error(fmt.Sprintf("storing reply of %s: %v", bot.ID, err), err)
		}
		return
	}
	if onReply != nil {
		onReply(msg)
	}
}

// Wait blocks until every scheduled bot reply is stored.
func (m *Messenger) Wait() {
	m.replies.Wait()
}

// Conversation returns an idle view of self's conversation with other. Call Open to start it.
func (m *Messenger) Conversation(self, other Participant) *Conversation {
	return newConversation(m, self, other)
}
