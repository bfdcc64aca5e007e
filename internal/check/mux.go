package check

import "sync"

// Mux is the many-producer/single-consumer update conduit. Send never
// blocks: updates queue in memory until the consumer drains them. This
// trades bounded memory for never stalling a check task behind a slow
// consumer.
type Mux struct {
	mu     sync.Mutex
	buf    []Update
	closed bool

	wake chan struct{}
	out  chan Update
}

func NewMux() *Mux {
	m := &Mux{
		wake: make(chan struct{}, 1),
		out:  make(chan Update),
	}
	go m.pump()
	return m
}

// Send enqueues an update. Updates from a single producer are delivered
// in send order. Send after Close is a no-op.
func (m *Mux) Send(u Update) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.buf = append(m.buf, u)
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Close marks the end of production. The consumer channel closes once
// everything already sent has been delivered.
func (m *Mux) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Updates returns the consumer side. It closes after Close once all
// queued updates have been received.
func (m *Mux) Updates() <-chan Update {
	return m.out
}

func (m *Mux) pump() {
	for {
		m.mu.Lock()
		batch := m.buf
		m.buf = nil
		closed := m.closed
		m.mu.Unlock()

		for _, u := range batch {
			m.out <- u
		}

		if closed {
			// Anything sent between the snapshot and the closed flag
			// was rejected by Send, so the buffer stays empty.
			close(m.out)
			return
		}

		<-m.wake
	}
}
