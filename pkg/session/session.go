// Package session implements the session driver: it assembles the
// sub-channel handlers an Integration's capabilities call for, runs
// the version exchange and in-band TLS handshake, and then serially
// dispatches every reassembled message to its channel's handler until
// the connection ends (spec.md §4.6).
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pion/logging"

	"github.com/headunit/aaengine/pkg/channel"
	"github.com/headunit/aaengine/pkg/handlers"
	"github.com/headunit/aaengine/pkg/integration"
	"github.com/headunit/aaengine/pkg/tlsengine"
	"github.com/headunit/aaengine/pkg/transport"
	"github.com/headunit/aaengine/pkg/wire"
)

// Session drives one accepted connection from VERSION_REQUEST through
// to the error or peer shutdown that ends it.
type Session struct {
	ID string

	cfg     Config
	integ   integration.Integration
	log     logging.LeveledLogger
	metrics *metrics

	mux    *transport.Mux
	engine *tlsengine.Engine

	descriptors []channel.Descriptor
	byChannel   map[uint8]channel.Handler
	byKind      map[channel.Kind]uint8

	control *handlers.Control

	handshakeStart time.Time
}

// New assembles a Session over conn. Which optional sub-channels
// exist is decided entirely by which capability interfaces integ
// implements; conn is taken over fully (closed when the session
// ends).
func New(ctx context.Context, conn io.ReadWriteCloser, cfg Config, integ integration.Integration) (*Session, error) {
	var log logging.LeveledLogger
	if cfg.LoggerFactory != nil {
		log = cfg.LoggerFactory.NewLogger("session")
	}

	id := uuid.NewString()

	engine := tlsengine.NewWithConfig(cfg.TLSConfig, cfg.HandshakeTimeout, cfg.LoggerFactory)
	mux := transport.New(conn, engine, log)

	s := &Session{
		ID:        id,
		cfg:       cfg,
		integ:     integ,
		log:       log,
		metrics:   metricsFor(cfg.Registerer),
		mux:       mux,
		engine:    engine,
		byChannel: make(map[uint8]channel.Handler),
		byKind:    make(map[channel.Kind]uint8),
	}

	s.buildHandlers(ctx)
	return s, nil
}

func (s *Session) nextChannelID() uint8 {
	return uint8(len(s.descriptors))
}

func (s *Session) add(kind channel.Kind, h channel.Handler) {
	id := s.nextChannelID()
	s.descriptors = append(s.descriptors, channel.Descriptor{ChannelID: id, Kind: kind, Handler: h})
	s.byChannel[id] = h
	s.byKind[kind] = id
}

func (s *Session) buildHandlers(ctx context.Context) {
	s.control = handlers.NewControl(ctx, s.nextChannelID(), s.mux, s.childLog("control"), s.engine, s.cfg.Identity, s.integ, s.wireDescriptors, s.onAuthComplete)
	s.descriptors = append(s.descriptors, channel.Descriptor{ChannelID: 0, Kind: channel.KindControl, Handler: s.control})
	s.byChannel[0] = s.control
	s.byKind[channel.KindControl] = 0

	if cap, ok := s.integ.(integration.InputCapability); ok {
		s.add(channel.KindInput, handlers.NewInput(s.nextChannelID(), s.mux, s.childLog("input"), cap))
	}
	if cap, ok := s.integ.(integration.SensorCapability); ok {
		s.add(channel.KindSensor, handlers.NewSensor(s.nextChannelID(), s.mux, s.childLog("sensor"), cap))
	}
	if cap, ok := s.integ.(integration.VideoCapability); ok {
		s.add(channel.KindVideo, handlers.NewVideo(s.nextChannelID(), s.mux, s.childLog("video"), cap, s.cfg.videoConfigs()))
	}
	if cap, ok := s.integ.(integration.AudioCapability); ok {
		s.add(channel.KindMediaAudio, handlers.NewAudio(s.nextChannelID(), channel.KindMediaAudio, s.mux, s.childLog("media_audio"), cap, s.cfg.mediaAudioConfigs()))
	}
	if cap, ok := s.integ.(integration.AudioCapability); ok {
		s.add(channel.KindSpeechAudio, handlers.NewAudio(s.nextChannelID(), channel.KindSpeechAudio, s.mux, s.childLog("speech_audio"), cap, s.cfg.speechAudioConfigs()))
	}
	if cap, ok := s.integ.(integration.AudioCapability); ok {
		s.add(channel.KindSystemAudio, handlers.NewAudio(s.nextChannelID(), channel.KindSystemAudio, s.mux, s.childLog("system_audio"), cap, s.cfg.systemAudioConfigs()))
	}
	if cap, ok := s.integ.(integration.AVInputCapability); ok {
		s.add(channel.KindAVInput, handlers.NewAVInput(s.nextChannelID(), s.mux, s.childLog("av_input"), cap, s.cfg.avInputConfigs()))
	}
	if cap, ok := s.integ.(integration.BluetoothCapability); ok {
		s.add(channel.KindBluetooth, handlers.NewBluetooth(s.nextChannelID(), s.mux, s.childLog("bluetooth"), cap))
	}
	if cap, ok := s.integ.(integration.NavigationCapability); ok {
		s.add(channel.KindNavigation, handlers.NewNavigation(s.nextChannelID(), s.mux, s.childLog("navigation"), cap))
	}
	if cap, ok := s.integ.(integration.MediaStatusCapability); ok {
		s.add(channel.KindMediaStatus, handlers.NewMediaStatus(s.nextChannelID(), s.mux, s.childLog("media_status"), cap))
	}
}

func (s *Session) childLog(component string) logging.LeveledLogger {
	if s.cfg.LoggerFactory == nil {
		return nil
	}
	return s.cfg.LoggerFactory.NewLogger(component)
}

func (s *Session) wireDescriptors() []wire.ChannelDescription {
	out := make([]wire.ChannelDescription, 0, len(s.descriptors))
	for _, d := range s.descriptors {
		out = append(out, wire.ChannelDescription{ChannelID: uint32(d.ChannelID), Kind: int32(d.Kind), Capability: d.Handler.Describe()})
	}
	return out
}

func (s *Session) onAuthComplete() {
	if !s.handshakeStart.IsZero() {
		s.metrics.handshakeSeconds.Observe(time.Since(s.handshakeStart).Seconds())
	}
	if s.log != nil {
		s.log.Infof("session %s: handshake complete", s.ID)
	}
}

// Run sends VERSION_REQUEST and then dispatches inbound messages until
// an error, context cancellation, or peer shutdown ends the session.
// The returned error is always non-nil; callers should inspect it with
// errors.Is against channel.ErrPeerShutdown to distinguish an orderly
// end from a fault.
func (s *Session) Run(ctx context.Context) error {
	defer s.mux.Close()

	s.metrics.sessionsOpened.Inc()
	s.handshakeStart = time.Now()

	if err := s.control.SendVersionRequest(s.cfg.ProtocolMajor, s.cfg.ProtocolMinor); err != nil {
		s.recordClose("send_error")
		return fmt.Errorf("session: send version request: %w", err)
	}

	go func() {
		<-ctx.Done()
		_ = s.mux.Close()
	}()

	for {
		msg, err := s.mux.ReadMessage()
		if err != nil {
			s.recordClose(closeReason(err))
			return err
		}
		s.metrics.framesReceived.Inc()

		h, ok := s.byChannel[msg.ChannelID]
		if !ok {
			s.recordClose("unknown_channel")
			return fmt.Errorf("%w: %d", ErrNoChannelForMessage, msg.ChannelID)
		}

		if err := h.Receive(*msg); err != nil {
			s.recordClose(closeReason(err))
			return err
		}
	}
}

func closeReason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, channel.ErrPeerShutdown):
		return "peer_shutdown"
	default:
		return "error"
	}
}

func (s *Session) recordClose(reason string) {
	s.metrics.sessionsClosed.WithLabelValues(reason).Inc()
}

// Descriptors returns the channel list this session assembled, for
// tests and the outbound pump.
func (s *Session) Descriptors() []channel.Descriptor { return s.descriptors }

// ChannelIDFor returns the channel id assigned to kind, if the session
// has one.
func (s *Session) ChannelIDFor(kind channel.Kind) (uint8, bool) {
	id, ok := s.byKind[kind]
	return id, ok
}

// Sender exposes the session's transport as a channel.Sender, for the
// outbound pump.
func (s *Session) Sender() channel.Sender { return s.mux }
