package school

import (
	"context"
	"sort"
	"time"

	"github.com/rafidain/schoollink/core"
)

// GetMessages returns the conversation between userID and otherID, oldest first.
// The result is the same whichever side asks, and reading never marks messages as read.
func (svc *Service) GetMessages(userID, otherID string) []Message {
	svc.mu.RLock()
	msgs := filter(svc.messages, func(m Message) bool { return m.Between(userID, otherID) })
	svc.mu.RUnlock()

	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Timestamp.Before(msgs[j].Timestamp) })
	return msgs
}

// SendMessage waits for the simulated round-trip, then stores msg and publishes it.
// Once called it always completes: cancelling ctx neither cuts the wait short nor drops the write.
// Messages are not deduplicated: callers own id uniqueness.
func (svc *Service) SendMessage(ctx context.Context, msg Message) error {
	ctx = context.WithoutCancel(ctx)
	time.Sleep(svc.latency.Send)

	svc.mu.Lock()
	msgs := append(svc.messages, msg)
	if err := core.Save(ctx, svc.store, core.KeyMessages, msgs); err != nil {
		svc.mu.Unlock()
		return err
	}
	svc.messages = msgs
	svc.mu.Unlock()

	if svc.publisher != nil {
		svc.publisher.Publish(msg)
	}
	return nil
}
