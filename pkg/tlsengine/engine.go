// Package tlsengine drives a standard crypto/tls client handshake and
// record layer entirely in memory, with no socket of its own. The
// head-unit-to-mobile-device TLS handshake is tunneled inside
// SSL_HANDSHAKE control-channel frames rather than run over a raw
// connection, so the engine exchanges handshake and application-data
// bytes with its caller through Advance/Encrypt/Decrypt instead of
// Read/Write on a net.Conn.
package tlsengine

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"sync"
	"time"

	"github.com/pion/logging"
)

// defaultActivityTimeout bounds how long Advance waits for the
// handshake goroutine to produce output after being fed a flight. All
// processing is local (no network round trip), so this only fires
// against a hung or malicious peer.
const defaultActivityTimeout = 10 * time.Second

// drainWindow bounds how long Decrypt waits for a second or
// subsequent record to appear while draining one inbound frame's
// worth of application data, and how long a handshake step waits for
// more of a flight once some of it has been produced.
const drainWindow = 5 * time.Millisecond

// Config configures an Engine.
type Config struct {
	// ServerName is sent as SNI. It is not checked against the peer's
	// certificate. Android Auto head units accept any leaf the mobile
	// device presents (identity is established out of band during
	// Bluetooth pairing), so the zero value is typical.
	ServerName string

	// TrustStore, when non-nil, is used to verify the signature chain
	// of whatever certificate the peer presents, without requiring the
	// leaf itself to chain to a known root or match ServerName. See
	// NewAcceptAnyLeafConfig.
	TrustStore *x509.CertPool

	// ActivityTimeout overrides defaultActivityTimeout, mostly for
	// tests that want fast failure on a stuck handshake.
	ActivityTimeout time.Duration

	LoggerFactory logging.LoggerFactory
}

// NewAcceptAnyLeafConfig builds a tls.Config that accepts any
// certificate chain the mobile device presents, while still verifying
// the chain's signatures against trustStore. This matches the head
// unit's trust model: the mobile device's identity was already
// established out of band during pairing, so the certificate itself
// only needs to be a validly-signed artifact, not one rooted in a
// well-known CA or matching a hostname.
func NewAcceptAnyLeafConfig(trustStore *x509.CertPool, clientCert tls.Certificate) *tls.Config {
	cfg := &tls.Config{
		InsecureSkipVerify: true, // we supply our own VerifyPeerCertificate below
		Certificates:       []tls.Certificate{clientCert},
		MinVersion:         tls.VersionTLS12,
	}
	cfg.VerifyPeerCertificate = func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			return fmt.Errorf("tlsengine: peer presented no certificate")
		}
		leaf, err := x509.ParseCertificate(rawCerts[0])
		if err != nil {
			return fmt.Errorf("tlsengine: parse peer certificate: %w", err)
		}
		inters := x509.NewCertPool()
		for _, raw := range rawCerts[1:] {
			if c, err := x509.ParseCertificate(raw); err == nil {
				inters.AddCert(c)
			}
		}
		opts := x509.VerifyOptions{
			Roots:         trustStore,
			Intermediates: inters,
			KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
		}
		_, err = leaf.Verify(opts)
		return err
	}
	return cfg
}

// Engine wraps a crypto/tls client handshake state machine whose
// transport is an in-memory bridge rather than a socket.
type Engine struct {
	log logging.LeveledLogger

	tlsConn *tls.Conn
	wire    *pipeConn

	activityTimeout time.Duration

	mu          sync.Mutex
	started     bool
	closed      bool
	established bool
	handshakeErr error
	doneCh      chan struct{}
}

// New builds an Engine ready to handshake once StartHandshake is
// called. No bytes are produced or consumed until then.
func New(cfg Config) *Engine {
	local, wire := newBridge()

	tlsCfg := &tls.Config{
		ServerName:         cfg.ServerName,
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS12,
	}
	if cfg.TrustStore != nil {
		tlsCfg.RootCAs = cfg.TrustStore
		tlsCfg.VerifyPeerCertificate = NewAcceptAnyLeafConfig(cfg.TrustStore, tls.Certificate{}).VerifyPeerCertificate
	}

	timeout := cfg.ActivityTimeout
	if timeout <= 0 {
		timeout = defaultActivityTimeout
	}

	var log logging.LeveledLogger
	if cfg.LoggerFactory != nil {
		log = cfg.LoggerFactory.NewLogger("tlsengine")
	}

	return &Engine{
		log:             log,
		tlsConn:         tls.Client(local, tlsCfg),
		wire:            wire,
		activityTimeout: timeout,
		doneCh:          make(chan struct{}),
	}
}

// NewWithConfig is like New but accepts a fully-formed *tls.Config
// (e.g. one built with NewAcceptAnyLeafConfig), overriding the
// certificate verification policy New applies by default.
func NewWithConfig(tlsCfg *tls.Config, activityTimeout time.Duration, factory logging.LoggerFactory) *Engine {
	local, wire := newBridge()
	if activityTimeout <= 0 {
		activityTimeout = defaultActivityTimeout
	}
	var log logging.LeveledLogger
	if factory != nil {
		log = factory.NewLogger("tlsengine")
	}
	return &Engine{
		log:             log,
		tlsConn:         tls.Client(local, tlsCfg),
		wire:            wire,
		activityTimeout: activityTimeout,
		doneCh:          make(chan struct{}),
	}
}

// StartHandshake kicks off the handshake goroutine and returns the
// first flight of handshake bytes (the ClientHello and anything that
// immediately follows it) to be sent as the first SSL_HANDSHAKE frame.
func (e *Engine) StartHandshake(ctx context.Context) ([]byte, error) {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	e.started = true
	e.mu.Unlock()

	go func() {
		err := e.tlsConn.HandshakeContext(ctx)
		e.mu.Lock()
		if err != nil {
			e.handshakeErr = fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
		} else {
			e.established = true
		}
		e.mu.Unlock()
		close(e.doneCh)
	}()

	return e.drainAfterWrite(nil)
}

// Advance feeds inbound SSL_HANDSHAKE bytes to the handshake and
// returns whatever outbound bytes the handshake produces in response,
// plus whether the handshake has now completed.
func (e *Engine) Advance(inbound []byte) (established bool, outbound []byte, err error) {
	outbound, err = e.drainAfterWrite(inbound)
	return e.Established(), outbound, err
}

func (e *Engine) drainAfterWrite(inbound []byte) ([]byte, error) {
	if len(inbound) > 0 {
		if _, err := e.wire.Write(inbound); err != nil {
			return nil, err
		}
	}

	deadline := time.Now().Add(e.activityTimeout)
	var out bytes.Buffer
	buf := make([]byte, 4096)

	for {
		wait := time.Now().Add(drainWindow)
		if wait.After(deadline) {
			wait = deadline
		}
		n, rerr := e.wire.readQ.readDeadline(buf, wait)
		if n > 0 {
			out.Write(buf[:n])
		}
		if rerr == nil {
			// Keep draining whatever else is already queued, waiting
			// only a drainWindow for more; a flight is often written in
			// one Write call from crypto/tls but may span a couple of
			// records.
			out.Write(e.wire.readQ.drainAvailable())
			continue
		}
		if _, isTO := rerr.(errTimeout); isTO {
			select {
			case <-e.doneCh:
				e.mu.Lock()
				herr := e.handshakeErr
				e.mu.Unlock()
				return out.Bytes(), herr
			default:
			}
			if out.Len() > 0 {
				return out.Bytes(), nil
			}
			if !time.Now().Before(deadline) {
				return nil, ErrHandshakeTimeout
			}
			continue
		}
		return out.Bytes(), fmt.Errorf("%w: %v", ErrHandshakeFailed, rerr)
	}
}

// Established reports whether the handshake has completed
// successfully.
func (e *Engine) Established() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.established
}

// Encrypt writes plaintext as TLS application data and returns the
// ciphertext record(s) produced. The handshake must have completed.
func (e *Engine) Encrypt(plaintext []byte) ([]byte, error) {
	if !e.Established() {
		return nil, ErrNotEstablished
	}
	if _, err := e.tlsConn.Write(plaintext); err != nil {
		return nil, fmt.Errorf("tlsengine: write application data: %w", err)
	}
	return e.wire.readQ.drainAvailable(), nil
}

// Decrypt feeds ciphertext to the TLS record layer and returns the
// application-data plaintext it yields. The handshake must have
// completed.
func (e *Engine) Decrypt(ciphertext []byte) ([]byte, error) {
	if !e.Established() {
		return nil, ErrNotEstablished
	}
	if _, err := e.wire.Write(ciphertext); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	buf := make([]byte, 16*1024)
	first := true
	for {
		deadline := time.Now().Add(drainWindow)
		if first {
			deadline = time.Now().Add(e.activityTimeout)
		}
		if err := e.tlsConn.SetReadDeadline(deadline); err != nil {
			return out.Bytes(), err
		}
		n, err := e.tlsConn.Read(buf)
		if n > 0 {
			out.Write(buf[:n])
		}
		if err != nil {
			if ne, ok := err.(interface{ Timeout() bool }); ok && ne.Timeout() {
				break
			}
			_ = e.tlsConn.SetReadDeadline(time.Time{})
			return out.Bytes(), fmt.Errorf("tlsengine: read application data: %w", err)
		}
		first = false
	}
	_ = e.tlsConn.SetReadDeadline(time.Time{})
	return out.Bytes(), nil
}

// Close tears down the bridge. Pending handshake goroutines observe
// their underlying conn closed and return promptly.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()
	return e.tlsConn.Close()
}
