package realtimefakes

import (
	"context"
	"sync"

	"github.com/feltops/clubportal/realtime"
)

var _ realtime.Transport = (*FakeTransport)(nil)

// FakeTransport records subscriptions and lets tests push events into them.
type FakeTransport struct {
	lock   sync.RWMutex
	subs   map[string]*realtime.Subscription
	closed bool

	SubscribeErr error
}

func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		subs: make(map[string]*realtime.Subscription),
	}
}

func (ft *FakeTransport) Subscribe(ctx context.Context, ch realtime.Channel) (*realtime.Subscription, error) {
	if ft.SubscribeErr != nil {
		return nil, ft.SubscribeErr
	}
	ft.lock.Lock()
	defer ft.lock.Unlock()
	topic := ch.Topic()
	sub := realtime.NewSubscription(ch, 64, func() {
		ft.lock.Lock()
		delete(ft.subs, topic)
		ft.lock.Unlock()
	})
	ft.subs[topic] = sub
	return sub, nil
}

func (ft *FakeTransport) Close() error {
	ft.lock.Lock()
	subs := make([]*realtime.Subscription, 0, len(ft.subs))
	for _, sub := range ft.subs {
		subs = append(subs, sub)
	}
	ft.closed = true
	ft.lock.Unlock()
	for _, sub := range subs {
		sub.Close()
	}
	return nil
}

// Push delivers an event on the channel subscribed for topic; it reports
// whether a subscriber existed and accepted it.
func (ft *FakeTransport) Push(topic string, ev realtime.Event) bool {
	ft.lock.RLock()
	sub := ft.subs[topic]
	ft.lock.RUnlock()
	if sub == nil {
		return false
	}
	return sub.Deliver(ev)
}

// OpenChannels lists the currently subscribed topics.
func (ft *FakeTransport) OpenChannels() []string {
	ft.lock.RLock()
	defer ft.lock.RUnlock()
	topics := make([]string, 0, len(ft.subs))
	for topic := range ft.subs {
		topics = append(topics, topic)
	}
	return topics
}
