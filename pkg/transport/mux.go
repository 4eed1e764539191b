// Package transport implements the single-connection mux that sits
// between the wire and the session driver: one serialized reader, one
// serialized writer, and an in-band TLS engine, each independently
// mutexed with a fixed lock order (writer before TLS engine, reader
// before TLS engine, reader and writer never held at once) so a
// handshake flight can never interleave with an application-data
// write and a slow reader can never stall a writer.
package transport

import (
	"io"
	"sync"

	"github.com/pion/logging"

	"github.com/headunit/aaengine/pkg/frame"
)

// tlsProcessor is the engine surface the mux needs: frame.TLSProcessor
// plus a way to know whether traffic should be encrypted yet.
// *tlsengine.Engine satisfies this without transport importing
// tlsengine, keeping the dependency one-directional.
type tlsProcessor interface {
	frame.TLSProcessor
	Established() bool
}

// lockedTLS serializes all access to the underlying engine behind a
// single mutex, acquired only after the caller already holds the
// reader or writer mutex, per the package's fixed lock order.
type lockedTLS struct {
	mu    *sync.Mutex
	inner tlsProcessor
}

func (l *lockedTLS) Encrypt(p []byte) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.Encrypt(p)
}

func (l *lockedTLS) Decrypt(p []byte) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.Decrypt(p)
}

// Mux is the single-connection frame transport for one session.
type Mux struct {
	conn   io.ReadWriteCloser
	engine tlsProcessor
	log    logging.LeveledLogger

	readerMu sync.Mutex
	readCodec *frame.Codec

	writerMu  sync.Mutex
	writeCodec *frame.Codec

	tlsMu sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}
}

// New builds a Mux over conn. engine may be nil during tests that
// never exercise encrypted traffic; Send/ReadMessage return
// frame.ErrTLSProcessing if an encrypted segment is attempted with a
// nil engine.
func New(conn io.ReadWriteCloser, engine tlsProcessor, log logging.LeveledLogger) *Mux {
	return &Mux{
		conn:       conn,
		engine:     engine,
		log:        log,
		readCodec:  frame.NewCodec(),
		writeCodec: frame.NewCodec(),
		closed:     make(chan struct{}),
	}
}

func (m *Mux) lockedEngine() frame.TLSProcessor {
	if m.engine == nil {
		return nil
	}
	return &lockedTLS{mu: &m.tlsMu, inner: m.engine}
}

// ReadMessage blocks until one fully reassembled, decrypted message is
// available on any channel, or the transport errors out.
func (m *Mux) ReadMessage() (*frame.Message, error) {
	m.readerMu.Lock()
	defer m.readerMu.Unlock()

	select {
	case <-m.closed:
		return nil, ErrClosed
	default:
	}

	return m.readCodec.Decode(m.conn, m.lockedEngine())
}

// Send implements channel.Sender: it encrypts and frames payload for
// channelID, fragmenting if needed, and writes it to the wire.
// Messages are sent encrypted once the TLS handshake has established
// (spec.md §3: the frame-level encrypted bit, not the control bit,
// gates this), and in the clear before then — version exchange and
// the handshake itself always precede that point.
func (m *Mux) Send(channelID uint8, control bool, payload []byte) error {
	m.writerMu.Lock()
	defer m.writerMu.Unlock()

	select {
	case <-m.closed:
		return ErrClosed
	default:
	}

	encrypted := m.engine != nil && m.engine.Established()
	out := frame.OutboundFrame{
		ChannelID: channelID,
		Control:   control,
		Encrypted: encrypted,
		Payload:   payload,
	}
	return m.writeCodec.Encode(m.conn, out, m.lockedEngine())
}

// Close tears down the underlying connection. Safe to call more than
// once.
func (m *Mux) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.closed)
		err = m.conn.Close()
	})
	return err
}
