// Package handlers implements the per-sub-channel behavior of each
// channel kind defined in pkg/channel: decoding the messages valid for
// that channel's state, driving integration callbacks, and encoding
// whatever response the protocol requires.
package handlers

import (
	"context"
	"fmt"

	"github.com/pion/logging"

	"github.com/headunit/aaengine/pkg/channel"
	"github.com/headunit/aaengine/pkg/frame"
	"github.com/headunit/aaengine/pkg/integration"
	"github.com/headunit/aaengine/pkg/wire"
)

// HandshakeDriver is the subset of *tlsengine.Engine the control
// handler needs to tunnel the TLS handshake through SSL_HANDSHAKE
// frames. Declared here, rather than imported from tlsengine directly
// as a concrete type, so this package does not need to know about
// crypto/tls configuration.
type HandshakeDriver interface {
	StartHandshake(ctx context.Context) ([]byte, error)
	Advance(inbound []byte) (established bool, outbound []byte, err error)
	Established() bool
}

// Control implements the control channel: version exchange, the
// in-band TLS handshake, service discovery, audio/navigation focus,
// voice session notification, keepalive ping, and shutdown.
type Control struct {
	channelID uint8
	sender    channel.Sender
	log       logging.LeveledLogger

	ctx      context.Context
	driver   HandshakeDriver
	identity integration.Identity
	callback integration.ControlCapability

	descriptors func() []wire.ChannelDescription

	onAuthComplete func()
}

// NewControl builds the control handler. descriptors is called lazily
// when a SERVICE_DISCOVERY_REQUEST arrives, so the full channel list
// (including the control channel's own id) can be supplied by the
// session driver after every handler has been constructed.
func NewControl(ctx context.Context, channelID uint8, sender channel.Sender, log logging.LeveledLogger, driver HandshakeDriver, identity integration.Identity, callback integration.ControlCapability, descriptors func() []wire.ChannelDescription, onAuthComplete func()) *Control {
	return &Control{
		channelID:      channelID,
		sender:         sender,
		log:            log,
		ctx:            ctx,
		driver:         driver,
		identity:       identity,
		callback:       callback,
		descriptors:    descriptors,
		onAuthComplete: onAuthComplete,
	}
}

func (c *Control) Kind() channel.Kind { return channel.KindControl }

func (c *Control) Describe() []byte { return nil }

// SendVersionRequest emits the head unit's VERSION_REQUEST. Called
// once by the session driver at session start, not in response to any
// inbound message (spec.md §9 open question 3: the head unit never
// answers an inbound VERSION_REQUEST).
func (c *Control) SendVersionRequest(major, minor uint16) error {
	env := wire.Envelope{Tag: wire.TagVersionRequest, Body: wire.VersionRequest{MajorVersion: major, MinorVersion: minor}.MarshalProto()}
	return c.sender.Send(c.channelID, true, env.Encode())
}

func (c *Control) Receive(msg frame.Message) error {
	env, err := wire.DecodeEnvelope(msg.Payload)
	if err != nil {
		return err
	}

	switch env.Tag {
	case wire.TagVersionResponse:
		return c.handleVersionResponse(env.Body)
	case wire.TagSSLHandshake:
		return c.handleSSLHandshake(env.Body)
	case wire.TagServiceDiscoveryRequest:
		return c.handleServiceDiscoveryRequest(env.Body)
	case wire.TagPingRequest:
		return c.handlePingRequest(env.Body)
	case wire.TagPingResponse:
		// Unsolicited keepalive echo; tolerated as a no-op rather than
		// an unknown-message error (SPEC_FULL.md §12).
		return nil
	case wire.TagAudioFocusRequest:
		return c.handleAudioFocusRequest(env.Body)
	case wire.TagNavigationFocusRequest:
		return c.handleNavigationFocusRequest(env.Body)
	case wire.TagVoiceSessionRequest:
		return c.handleVoiceSessionRequest(env.Body)
	case wire.TagShutdownRequest:
		return c.handleShutdownRequest(env.Body)
	case wire.TagVersionRequest:
		// The head unit only ever sends this; receiving one back is
		// invalid (spec.md §9 open question 3).
		return fmt.Errorf("%w: unexpected VERSION_REQUEST", channel.ErrUnexpectedMessage)
	default:
		return fmt.Errorf("%w: tag %d", channel.ErrUnexpectedMessage, env.Tag)
	}
}

func (c *Control) handleVersionResponse(body []byte) error {
	resp, err := wire.UnmarshalVersionResponse(body)
	if err != nil {
		return err
	}
	if resp.Status == wire.VersionMismatch {
		return fmt.Errorf("%w: peer reported %d.%d", channel.ErrVersionMismatch, resp.MajorVersion, resp.MinorVersion)
	}

	outbound, err := c.driver.StartHandshake(c.ctx)
	if err != nil {
		return err
	}
	return c.sendHandshake(outbound)
}

func (c *Control) handleSSLHandshake(body []byte) error {
	hs, err := wire.UnmarshalSSLHandshake(body)
	if err != nil {
		return err
	}

	wasEstablished := c.driver.Established()
	established, outbound, err := c.driver.Advance(hs.Payload)
	if err != nil {
		return err
	}
	if len(outbound) > 0 {
		if err := c.sendHandshake(outbound); err != nil {
			return err
		}
	}
	if established && !wasEstablished {
		if err := c.sendAuthComplete(); err != nil {
			return err
		}
		if c.onAuthComplete != nil {
			c.onAuthComplete()
		}
	}
	return nil
}

func (c *Control) sendHandshake(payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	env := wire.Envelope{Tag: wire.TagSSLHandshake, Body: wire.SSLHandshake{Payload: payload}.MarshalProto()}
	return c.sender.Send(c.channelID, true, env.Encode())
}

func (c *Control) sendAuthComplete() error {
	env := wire.Envelope{Tag: wire.TagAuthComplete, Body: wire.AuthComplete{Status: 0}.MarshalProto()}
	return c.sender.Send(c.channelID, true, env.Encode())
}

func (c *Control) handleServiceDiscoveryRequest(body []byte) error {
	if _, err := wire.UnmarshalServiceDiscoveryRequest(body); err != nil {
		return err
	}
	resp := wire.ServiceDiscoveryResponse{
		HeadUnitName:  c.identity.HeadUnitName,
		CarModel:      c.identity.CarModel,
		CarYear:       c.identity.CarYear,
		CarSerial:     c.identity.CarSerial,
		LeftHandDrive: c.identity.LeftHandDrive,
	}
	if c.descriptors != nil {
		resp.Channels = c.descriptors()
	}
	env := wire.Envelope{Tag: wire.TagServiceDiscoveryResponse, Body: resp.MarshalProto()}
	return c.sender.Send(c.channelID, true, env.Encode())
}

func (c *Control) handlePingRequest(body []byte) error {
	req, err := wire.UnmarshalPingRequest(body)
	if err != nil {
		return err
	}
	env := wire.Envelope{Tag: wire.TagPingResponse, Body: wire.PingResponse{Timestamp: req.Timestamp + 1}.MarshalProto()}
	return c.sender.Send(c.channelID, true, env.Encode())
}

// audioFocusGrant maps a requested focus type to the state the head
// unit grants, per spec.md §4.5.1: GAIN_NAVI is always upgraded to a
// full GAIN so navigation prompts are never ducked, RELEASE always
// yields LOSS, and every other (including unrecognized/NONE) type is
// granted as requested — the mapping is fixed protocol behavior, not
// an integration decision.
func audioFocusGrant(requested int32) int32 {
	switch requested {
	case wire.AudioFocusGainNavi:
		return wire.AudioFocusStateGain
	case wire.AudioFocusRelease:
		return wire.AudioFocusStateLoss
	default:
		return requested
	}
}

func (c *Control) handleAudioFocusRequest(body []byte) error {
	req, err := wire.UnmarshalAudioFocusRequest(body)
	if err != nil {
		return err
	}
	granted := audioFocusGrant(req.Type)
	if c.callback != nil {
		c.callback.OnAudioFocusRequest(req.Type, granted)
	}
	env := wire.Envelope{Tag: wire.TagAudioFocusResponse, Body: wire.AudioFocusResponse{Type: granted}.MarshalProto()}
	return c.sender.Send(c.channelID, false, env.Encode())
}

func (c *Control) handleNavigationFocusRequest(body []byte) error {
	if _, err := wire.UnmarshalNavigationFocusRequest(body); err != nil {
		return err
	}
	granted := c.callback.OnNavigationFocusRequest()
	t := wire.NavigationFocusRejected
	if granted {
		t = wire.NavigationFocusGranted
	}
	env := wire.Envelope{Tag: wire.TagNavigationFocusResponse, Body: wire.NavigationFocusResponse{Type: t}.MarshalProto()}
	return c.sender.Send(c.channelID, false, env.Encode())
}

func (c *Control) handleVoiceSessionRequest(body []byte) error {
	req, err := wire.UnmarshalVoiceSessionRequest(body)
	if err != nil {
		return err
	}
	c.callback.OnVoiceSessionRequest(req.Active)
	return nil
}

func (c *Control) handleShutdownRequest(body []byte) error {
	req, err := wire.UnmarshalShutdownRequest(body)
	if err != nil {
		return err
	}
	env := wire.Envelope{Tag: wire.TagShutdownResponse, Body: wire.ShutdownResponse{}.MarshalProto()}
	if err := c.sender.Send(c.channelID, true, env.Encode()); err != nil {
		return err
	}
	c.callback.OnShutdownRequested(req.Reason)
	return fmt.Errorf("%w: %s", channel.ErrPeerShutdown, req.Reason)
}
