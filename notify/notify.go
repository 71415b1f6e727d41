// Package notify fans events out to subscribers. The track graph publishes
// rebuild and switch events through a Multiplexer so UIs and servers can
// drop stale Path references instead of holding them.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

const sendTimeout = 200 * time.Millisecond

type subscriber[E any] struct {
	ch   chan E
	name string
}

// Multiplexer is the subscribe side. Only the matching Sender can publish.
type Multiplexer[E any] struct {
	name string

	lock        sync.Mutex
	subscribers []subscriber[E]
}

// Sender is the publish side of a Multiplexer.
type Sender[E any] struct {
	m *Multiplexer[E]
}

// New returns a linked Sender and Multiplexer. name shows up in timeout
// logs.
func New[E any](name string) (*Sender[E], *Multiplexer[E]) {
	m := &Multiplexer[E]{name: name}
	return &Sender[E]{m: m}, m
}

// Send publishes e to all current subscribers. Delivery happens on a
// separate goroutine; a subscriber that fails to receive within the send
// timeout is skipped and logged, never blocked on forever.
func (s *Sender[E]) Send(e E) {
	go s.m.send(e)
}

// Subscribe registers c to receive future events. name identifies the
// subscriber in timeout logs.
func (m *Multiplexer[E]) Subscribe(name string, c chan E) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.subscribers = append(m.subscribers, subscriber[E]{ch: c, name: name})
}

// Unsubscribe removes c. Panics if c was never subscribed: that is a
// bookkeeping bug in the caller.
func (m *Multiplexer[E]) Unsubscribe(c chan E) {
	m.lock.Lock()
	defer m.lock.Unlock()
	i := slices.IndexFunc(m.subscribers, func(sub subscriber[E]) bool { return sub.ch == c })
	if i == -1 {
		panic("notify: unsubscribe of channel that was never subscribed")
	}
	m.subscribers = slices.Delete(m.subscribers, i, i+1)
}

func (m *Multiplexer[E]) send(e E) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, sub := range m.subscribers {
		select {
		case sub.ch <- e:
		case <-time.After(sendTimeout):
			zap.S().Warnf("notify: multiplexer %s: subscriber %s timed out on %#v", m.name, sub.name, e)
		}
	}
}
