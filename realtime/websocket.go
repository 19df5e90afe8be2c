package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/feltops/clubportal/internal/errors"
)

const (
	defaultWriteTimeout = 3 * time.Second
	defaultMaxBackoff   = 30 * time.Second
	subscriptionBuffer  = 64
)

// wireFrame is the channel protocol: joins and leaves go up, change and
// status frames come down, demuxed by topic.
type wireFrame struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"` // "join" | "leave" | "change" | "status"
	Payload json.RawMessage `json:"payload,omitempty"`
}

var _ Transport = (*WSTransport)(nil)

// WSTransport is the websocket client for the hosted realtime service. A
// single connection carries every channel; a dropped connection is redialed
// with capped backoff and all open channels are re-joined, since a headless
// process has no page reload to fall back on.
type WSTransport struct {
	url          string
	key          string
	log          zerolog.Logger
	writeTimeout time.Duration
	maxBackoff   time.Duration

	lock   sync.Mutex
	conn   *websocket.Conn
	subs   map[string]*Subscription
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// TransportOption modifies the WSTransport instance.
type TransportOption func(*WSTransport)

func WithTransportLogger(log zerolog.Logger) TransportOption {
	return func(t *WSTransport) { t.log = log }
}

func WithWriteTimeout(d time.Duration) TransportOption {
	return func(t *WSTransport) { t.writeTimeout = d }
}

func WithMaxBackoff(d time.Duration) TransportOption {
	return func(t *WSTransport) { t.maxBackoff = d }
}

// DialTransport connects to the realtime service. The key, when set, is
// passed as a query parameter the way the hosted service expects.
func DialTransport(ctx context.Context, url, key string, options ...TransportOption) (*WSTransport, error) {
	runCtx, cancel := context.WithCancel(context.Background())
	t := &WSTransport{
		url:          url,
		key:          key,
		log:          zerolog.Nop(),
		writeTimeout: defaultWriteTimeout,
		maxBackoff:   defaultMaxBackoff,
		subs:         make(map[string]*Subscription),
		ctx:          runCtx,
		cancel:       cancel,
	}
	for _, opt := range options {
		opt(t)
	}

	conn, err := t.dial(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	t.conn = conn

	t.wg.Add(1)
	go t.readLoop()
	return t, nil
}

func (t *WSTransport) dial(ctx context.Context) (*websocket.Conn, error) {
	url := t.url
	if t.key != "" {
		url += "?apikey=" + t.key
	}
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "[WSTransport dial] %s", t.url)
	}
	return conn, nil
}

// Subscribe joins a channel. Events arrive on the returned subscription
// until it is closed or the transport shuts down.
func (t *WSTransport) Subscribe(ctx context.Context, ch Channel) (*Subscription, error) {
	t.lock.Lock()
	if t.closed {
		t.lock.Unlock()
		return nil, errors.ErrTransportClosed
	}
	topic := ch.Topic()
	sub := NewSubscription(ch, subscriptionBuffer, func() {
		t.leave(topic)
	})
	t.subs[topic] = sub
	conn := t.conn
	t.lock.Unlock()

	if err := t.writeFrame(conn, wireFrame{Topic: topic, Event: "join", Payload: joinPayload(ch)}); err != nil {
		t.lock.Lock()
		delete(t.subs, topic)
		t.lock.Unlock()
		return nil, errors.Wrapf(err, "[WSTransport Subscribe] join %s", topic)
	}
	return sub, nil
}

func joinPayload(ch Channel) json.RawMessage {
	payload := struct {
		Resource string `json:"resource"`
		ClubID   string `json:"club_id,omitempty"`
	}{Resource: ch.Resource}
	if !ch.Unfiltered {
		payload.ClubID = ch.ClubID
	}
	data, _ := json.Marshal(payload)
	return data
}

func (t *WSTransport) leave(topic string) {
	t.lock.Lock()
	delete(t.subs, topic)
	conn := t.conn
	closed := t.closed
	t.lock.Unlock()
	if closed || conn == nil {
		return
	}
	if err := t.writeFrame(conn, wireFrame{Topic: topic, Event: "leave"}); err != nil {
		t.log.Debug().Str("topic", topic).Err(err).Msg("leave frame failed")
	}
}

func (t *WSTransport) writeFrame(conn *websocket.Conn, frame wireFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(t.ctx, t.writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}

func (t *WSTransport) readLoop() {
	defer t.wg.Done()
	for {
		t.lock.Lock()
		conn := t.conn
		closed := t.closed
		t.lock.Unlock()
		if closed {
			return
		}

		_, data, err := conn.Read(t.ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				t.log.Info().Msg("realtime connection closed")
			default:
				t.log.Warn().Err(err).Msg("realtime read failed")
			}
			if !t.reconnect() {
				return
			}
			continue
		}

		var frame wireFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			t.log.Debug().Err(err).Msg("bad realtime frame")
			continue
		}
		t.dispatch(frame)
	}
}

func (t *WSTransport) dispatch(frame wireFrame) {
	switch frame.Event {
	case "change":
		var ev Event
		if err := json.Unmarshal(frame.Payload, &ev); err != nil {
			t.log.Debug().Str("topic", frame.Topic).Err(err).Msg("bad change payload")
			return
		}
		t.lock.Lock()
		sub := t.subs[frame.Topic]
		t.lock.Unlock()
		if sub == nil {
			return
		}
		if !sub.Deliver(ev) {
			t.log.Warn().Str("topic", frame.Topic).Msg("subscriber buffer full, event dropped")
		}
	case "status":
		// Channel status changes are surfaced in the log only; there is no
		// recovery beyond the reconnect loop.
		t.log.Info().Str("topic", frame.Topic).RawJSON("status", frame.Payload).Msg("channel status")
	}
}

// reconnect redials with capped exponential backoff and re-joins every open
// channel. Returns false once the transport is closed.
func (t *WSTransport) reconnect() bool {
	backoff := time.Second
	for {
		select {
		case <-t.ctx.Done():
			return false
		case <-time.After(backoff):
		}

		conn, err := t.dial(t.ctx)
		if err != nil {
			t.log.Warn().Err(err).Dur("backoff", backoff).Msg("realtime redial failed")
			backoff *= 2
			if backoff > t.maxBackoff {
				backoff = t.maxBackoff
			}
			continue
		}

		t.lock.Lock()
		if t.closed {
			t.lock.Unlock()
			_ = conn.Close(websocket.StatusNormalClosure, "shutdown")
			return false
		}
		t.conn = conn
		topics := make([]*Subscription, 0, len(t.subs))
		for _, sub := range t.subs {
			topics = append(topics, sub)
		}
		t.lock.Unlock()

		rejoined := true
		for _, sub := range topics {
			topic := sub.Channel().Topic()
			if err := t.writeFrame(conn, wireFrame{Topic: topic, Event: "join", Payload: joinPayload(sub.Channel())}); err != nil {
				t.log.Warn().Str("topic", topic).Err(err).Msg("rejoin failed")
				rejoined = false
				break
			}
		}
		if !rejoined {
			backoff *= 2
			if backoff > t.maxBackoff {
				backoff = t.maxBackoff
			}
			continue
		}

		t.log.Info().Int("channels", len(topics)).Msg("realtime reconnected")
		return true
	}
}

// Close tears down the connection and every open subscription.
func (t *WSTransport) Close() error {
	t.lock.Lock()
	if t.closed {
		t.lock.Unlock()
		return nil
	}
	t.closed = true
	conn := t.conn
	subs := make([]*Subscription, 0, len(t.subs))
	for _, sub := range t.subs {
		subs = append(subs, sub)
	}
	t.lock.Unlock()

	t.cancel()
	for _, sub := range subs {
		sub.Close()
	}
	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "shutdown")
	}
	t.wg.Wait()
	return nil
}
