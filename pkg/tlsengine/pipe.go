package tlsengine

import (
	"bytes"
	"io"
	"net"
	"sync"
	"time"
)

// byteQueue is an unbounded, goroutine-safe byte buffer used as one
// direction of the in-memory bridge between crypto/tls.Conn and this
// engine. Unlike net.Pipe, Write never blocks: crypto/tls's internal
// handshake goroutine must be able to deposit outbound bytes without
// waiting for this engine to be actively reading them, since the
// engine only drains on demand, once per inbound frame.
type byteQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    bytes.Buffer
	closed bool
}

func newByteQueue() *byteQueue {
	q := &byteQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *byteQueue) Write(b []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return 0, io.ErrClosedPipe
	}
	n, _ := q.buf.Write(b)
	q.cond.Broadcast()
	return n, nil
}

// Read blocks until at least one byte is available or the queue is
// closed.
func (q *byteQueue) Read(b []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.buf.Len() == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.buf.Len() == 0 {
		return 0, io.EOF
	}
	return q.buf.Read(b)
}

// readDeadline behaves like Read but returns (0, os.ErrDeadlineExceeded)
// if no bytes become available before deadline elapses.
func (q *byteQueue) readDeadline(b []byte, deadline time.Time) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.buf.Len() == 0 && !q.closed {
		timer := time.AfterFunc(time.Until(deadline), func() {
			q.mu.Lock()
			q.cond.Broadcast()
			q.mu.Unlock()
		})
		defer timer.Stop()
		for q.buf.Len() == 0 && !q.closed && time.Now().Before(deadline) {
			q.cond.Wait()
		}
	}
	if q.buf.Len() == 0 {
		if q.closed {
			return 0, io.EOF
		}
		return 0, errTimeout{}
	}
	return q.buf.Read(b)
}

// drainAvailable returns and clears whatever is currently buffered,
// without blocking.
func (q *byteQueue) drainAvailable() []byte {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.buf.Len() == 0 {
		return nil
	}
	out := make([]byte, q.buf.Len())
	q.buf.Read(out)
	return out
}

func (q *byteQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

type errTimeout struct{}

func (errTimeout) Error() string   { return "tlsengine: i/o timeout" }
func (errTimeout) Timeout() bool   { return true }
func (errTimeout) Temporary() bool { return true }

// pipeAddr is a net.Addr stand-in for the in-memory bridge, which has
// no real network address.
type pipeAddr struct{}

func (pipeAddr) Network() string { return "memory" }
func (pipeAddr) String() string  { return "tlsengine-bridge" }

// pipeConn is one endpoint of a bidirectional in-memory connection
// built from two byteQueues. crypto/tls.Client is handed one endpoint;
// Engine drives the other directly.
type pipeConn struct {
	readQ, writeQ *byteQueue
	deadline      time.Time
	mu            sync.Mutex
}

func (p *pipeConn) Read(b []byte) (int, error) {
	p.mu.Lock()
	dl := p.deadline
	p.mu.Unlock()
	if dl.IsZero() {
		return p.readQ.Read(b)
	}
	return p.readQ.readDeadline(b, dl)
}

func (p *pipeConn) Write(b []byte) (int, error) { return p.writeQ.Write(b) }
func (p *pipeConn) Close() error {
	p.readQ.close()
	p.writeQ.close()
	return nil
}
func (p *pipeConn) LocalAddr() net.Addr  { return pipeAddr{} }
func (p *pipeConn) RemoteAddr() net.Addr { return pipeAddr{} }
func (p *pipeConn) SetDeadline(t time.Time) error {
	return p.SetReadDeadline(t)
}
func (p *pipeConn) SetReadDeadline(t time.Time) error {
	p.mu.Lock()
	p.deadline = t
	p.mu.Unlock()
	return nil
}
func (p *pipeConn) SetWriteDeadline(time.Time) error { return nil }

// newBridge returns two connected net.Conn endpoints: local is handed
// to crypto/tls.Client, and wire is read/written directly by Engine to
// move handshake and application-data bytes in and out of
// SSL_HANDSHAKE / encrypted frames.
func newBridge() (local, wire *pipeConn) {
	toTLS := newByteQueue()
	fromTLS := newByteQueue()
	local = &pipeConn{readQ: toTLS, writeQ: fromTLS}
	wire = &pipeConn{readQ: fromTLS, writeQ: toTLS}
	return local, wire
}
