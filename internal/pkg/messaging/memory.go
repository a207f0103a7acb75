package messaging

import (
	"context"
	"errors"
	"slices"
	"sync"
)

const memoryQueueSize = 64

var ErrClosed = errors.New("messaging: broker closed")

// Memory is an in-process broker. Every subscriber of a destination gets a
// copy, except that a group shares one copy between its members. A publish
// with no subscriber is dropped.
type Memory struct {
	mu     sync.RWMutex
	subs   map[string][]*memorySub
	closed bool
}

type memorySub struct {
	group string
	queue chan *memoryMessage
}

func NewMemory() *Memory {
	return &Memory{subs: map[string][]*memorySub{}}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) error {
	if destination == "" {
		return ErrDestinationRequired
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}

	groups := map[string]struct{}{}
	for _, sub := range m.subs[destination] {
		if sub.group != "" {
			if _, dup := groups[sub.group]; dup {
				continue
			}
			groups[sub.group] = struct{}{}
		}

		select {
		case sub.queue <- &memoryMessage{source: destination, out: msg}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (m *Memory) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	co, err := prepare(source, handler, opts)
	if err != nil {
		return err
	}

	sub := &memorySub{group: co.group, queue: make(chan *memoryMessage, memoryQueueSize)}
	m.subscribe(source, sub)
	defer m.unsubscribe(source, sub)

	wait := workers(ctx, co.workers, sub.queue, func(msg *memoryMessage) {
		//nolint:errcheck // settling in memory cannot fail
		_ = process(ctx, DriverMemory, handler, msg, co.autoAck)
	})

	<-ctx.Done()
	wait()
	return ctx.Err()
}

func (m *Memory) subscribe(source string, sub *memorySub) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[source] = append(m.subs[source], sub)
}

func (m *Memory) unsubscribe(source string, sub *memorySub) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[source] = slices.DeleteFunc(m.subs[source], func(s *memorySub) bool { return s == sub })
}

type memoryMessage struct {
	settle
	source string
	out    OutgoingMessage
}

func (m *memoryMessage) Body() []byte               { return m.out.Body }
func (m *memoryMessage) Key() []byte                { return m.out.Key }
func (m *memoryMessage) Header(key string) string   { return m.out.Headers[key] }
func (m *memoryMessage) Source() string             { return m.source }
func (m *memoryMessage) Ack(context.Context) error  { m.first(); return nil }
func (m *memoryMessage) Nack(context.Context) error { m.first(); return nil }
