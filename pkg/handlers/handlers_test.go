package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/headunit/aaengine/pkg/channel"
	"github.com/headunit/aaengine/pkg/frame"
	"github.com/headunit/aaengine/pkg/integration"
	"github.com/headunit/aaengine/pkg/wire"
)

// fakeSender records every Send call so tests can inspect what a
// handler emitted without a real transport.
type fakeSender struct {
	sent []sentMessage
}

type sentMessage struct {
	channelID uint8
	control   bool
	payload   []byte
}

func (f *fakeSender) Send(channelID uint8, control bool, payload []byte) error {
	f.sent = append(f.sent, sentMessage{channelID, control, payload})
	return nil
}

func (f *fakeSender) last() sentMessage {
	return f.sent[len(f.sent)-1]
}

func envelope(tag wire.Tag, body []byte) []byte {
	return wire.Envelope{Tag: tag, Body: body}.Encode()
}

func decodeLast(t *testing.T, f *fakeSender) wire.Envelope {
	t.Helper()
	env, err := wire.DecodeEnvelope(f.last().payload)
	if err != nil {
		t.Fatalf("decode sent envelope: %v", err)
	}
	return env
}

// fakeDriver is a HandshakeDriver stand-in that completes instantly
// with canned bytes, without running any real TLS.
type fakeDriver struct {
	established   bool
	startBytes    []byte
	advanceBytes  []byte
	becomesEstablished bool
	err           error
}

func (d *fakeDriver) StartHandshake(ctx context.Context) ([]byte, error) {
	return d.startBytes, d.err
}

func (d *fakeDriver) Advance(inbound []byte) (bool, []byte, error) {
	if d.err != nil {
		return d.established, nil, d.err
	}
	if d.becomesEstablished {
		d.established = true
	}
	return d.established, d.advanceBytes, nil
}

func (d *fakeDriver) Established() bool { return d.established }

type fakeControlCallback struct {
	requestedFocus []int32
	grantedFocus   []int32
	navigationGranted bool
	voiceActive       *bool
	shutdownReason    string
}

func (f *fakeControlCallback) OnAudioFocusRequest(requested, granted int32) {
	f.requestedFocus = append(f.requestedFocus, requested)
	f.grantedFocus = append(f.grantedFocus, granted)
}
func (f *fakeControlCallback) OnNavigationFocusRequest() bool    { return f.navigationGranted }
func (f *fakeControlCallback) OnVoiceSessionRequest(active bool) { f.voiceActive = &active }
func (f *fakeControlCallback) OnShutdownRequested(reason string) { f.shutdownReason = reason }

func TestControlVersionResponseStartsHandshake(t *testing.T) {
	sender := &fakeSender{}
	driver := &fakeDriver{startBytes: []byte("client-hello")}
	cb := &fakeControlCallback{}
	c := NewControl(context.Background(), 0, sender, nil, driver, integration.Identity{}, cb, nil, nil)

	resp := wire.VersionResponse{MajorVersion: 1, MinorVersion: 0, Status: wire.VersionMatch}
	err := c.Receive(frame.Message{ChannelID: 0, Payload: envelope(wire.TagVersionResponse, resp.MarshalProto())})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}

	env := decodeLast(t, sender)
	if env.Tag != wire.TagSSLHandshake {
		t.Fatalf("expected SSLHandshake frame sent, got tag %d", env.Tag)
	}
	hs, err := wire.UnmarshalSSLHandshake(env.Body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(hs.Payload) != "client-hello" {
		t.Fatalf("unexpected handshake payload %q", hs.Payload)
	}
}

func TestControlVersionMismatchErrors(t *testing.T) {
	sender := &fakeSender{}
	driver := &fakeDriver{}
	cb := &fakeControlCallback{}
	c := NewControl(context.Background(), 0, sender, nil, driver, integration.Identity{}, cb, nil, nil)

	resp := wire.VersionResponse{Status: wire.VersionMismatch}
	err := c.Receive(frame.Message{Payload: envelope(wire.TagVersionResponse, resp.MarshalProto())})
	if !errors.Is(err, channel.ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestControlSSLHandshakeCompletesAuth(t *testing.T) {
	sender := &fakeSender{}
	driver := &fakeDriver{becomesEstablished: true}
	cb := &fakeControlCallback{}
	authCompleted := false
	c := NewControl(context.Background(), 0, sender, nil, driver, integration.Identity{}, cb, nil, func() { authCompleted = true })

	hs := wire.SSLHandshake{Payload: []byte("client-finished")}
	err := c.Receive(frame.Message{Payload: envelope(wire.TagSSLHandshake, hs.MarshalProto())})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if !authCompleted {
		t.Fatalf("expected onAuthComplete to be called")
	}

	env := decodeLast(t, sender)
	if env.Tag != wire.TagAuthComplete {
		t.Fatalf("expected AuthComplete frame sent last, got tag %d", env.Tag)
	}
}

func TestControlServiceDiscovery(t *testing.T) {
	sender := &fakeSender{}
	cb := &fakeControlCallback{}
	identity := integration.Identity{HeadUnitName: "aaengine", CarModel: "Model X"}
	descriptors := func() []wire.ChannelDescription {
		return []wire.ChannelDescription{{ChannelID: 0, Kind: 0}}
	}
	c := NewControl(context.Background(), 0, sender, nil, &fakeDriver{}, identity, cb, descriptors, nil)

	req := wire.ServiceDiscoveryRequest{DeviceName: "phone"}
	if err := c.Receive(frame.Message{Payload: envelope(wire.TagServiceDiscoveryRequest, req.MarshalProto())}); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	env := decodeLast(t, sender)
	resp, err := wire.UnmarshalServiceDiscoveryResponse(env.Body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.HeadUnitName != "aaengine" || len(resp.Channels) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestControlPingEchoesTimestamp(t *testing.T) {
	sender := &fakeSender{}
	c := NewControl(context.Background(), 0, sender, nil, &fakeDriver{}, integration.Identity{}, &fakeControlCallback{}, nil, nil)

	req := wire.PingRequest{Timestamp: 123456}
	if err := c.Receive(frame.Message{Payload: envelope(wire.TagPingRequest, req.MarshalProto())}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	env := decodeLast(t, sender)
	resp, err := wire.UnmarshalPingResponse(env.Body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Timestamp != 123457 {
		t.Fatalf("expected timestamp incremented by 1, got %d", resp.Timestamp)
	}
}

func TestControlUnsolicitedPingResponseIsNoop(t *testing.T) {
	sender := &fakeSender{}
	c := NewControl(context.Background(), 0, sender, nil, &fakeDriver{}, integration.Identity{}, &fakeControlCallback{}, nil, nil)
	err := c.Receive(frame.Message{Payload: envelope(wire.TagPingResponse, wire.PingResponse{Timestamp: 1}.MarshalProto())})
	if err != nil {
		t.Fatalf("expected nil error for unsolicited ping response, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no response sent")
	}
}

func TestControlInboundVersionRequestRejected(t *testing.T) {
	sender := &fakeSender{}
	c := NewControl(context.Background(), 0, sender, nil, &fakeDriver{}, integration.Identity{}, &fakeControlCallback{}, nil, nil)
	req := wire.VersionRequest{MajorVersion: 1}
	err := c.Receive(frame.Message{Payload: envelope(wire.TagVersionRequest, req.MarshalProto())})
	if !errors.Is(err, channel.ErrUnexpectedMessage) {
		t.Fatalf("expected ErrUnexpectedMessage, got %v", err)
	}
}

func TestControlShutdownRequestEndsSession(t *testing.T) {
	sender := &fakeSender{}
	cb := &fakeControlCallback{}
	c := NewControl(context.Background(), 0, sender, nil, &fakeDriver{}, integration.Identity{}, cb, nil, nil)

	req := wire.ShutdownRequest{Reason: "ignition off"}
	err := c.Receive(frame.Message{Payload: envelope(wire.TagShutdownRequest, req.MarshalProto())})
	if !errors.Is(err, channel.ErrPeerShutdown) {
		t.Fatalf("expected ErrPeerShutdown, got %v", err)
	}
	if cb.shutdownReason != "ignition off" {
		t.Fatalf("expected callback notified of reason, got %q", cb.shutdownReason)
	}
	env := decodeLast(t, sender)
	if env.Tag != wire.TagShutdownResponse {
		t.Fatalf("expected ShutdownResponse sent, got tag %d", env.Tag)
	}
}

// TestControlAudioFocusMapping drives the fixed focus mapping
// (spec.md §4.5.1) through Control.Receive for every case: GAIN_NAVI
// is upgraded to a full GAIN, RELEASE always yields LOSS, and every
// other type (including NONE) is granted as requested.
func TestControlAudioFocusMapping(t *testing.T) {
	cases := []struct {
		requested int32
		want      int32
	}{
		{wire.AudioFocusNone, wire.AudioFocusStateNone},
		{wire.AudioFocusGain, wire.AudioFocusStateGain},
		{wire.AudioFocusGainTransient, wire.AudioFocusStateGainTransient},
		{wire.AudioFocusGainTransientMayDuck, wire.AudioFocusGainTransientMayDuck},
		{wire.AudioFocusGainNavi, wire.AudioFocusStateGain},
		{wire.AudioFocusRelease, wire.AudioFocusStateLoss},
	}
	for _, tc := range cases {
		sender := &fakeSender{}
		cb := &fakeControlCallback{}
		c := NewControl(context.Background(), 0, sender, nil, &fakeDriver{}, integration.Identity{}, cb, nil, nil)

		req := wire.AudioFocusRequest{Type: tc.requested}
		if err := c.Receive(frame.Message{Payload: envelope(wire.TagAudioFocusRequest, req.MarshalProto())}); err != nil {
			t.Fatalf("requested %d: Receive: %v", tc.requested, err)
		}
		env := decodeLast(t, sender)
		resp, err := wire.UnmarshalAudioFocusResponse(env.Body)
		if err != nil {
			t.Fatalf("requested %d: unmarshal: %v", tc.requested, err)
		}
		if resp.Type != tc.want {
			t.Fatalf("requested %d: expected granted %d, got %d", tc.requested, tc.want, resp.Type)
		}
		if len(cb.grantedFocus) != 1 || cb.grantedFocus[0] != tc.want || cb.requestedFocus[0] != tc.requested {
			t.Fatalf("requested %d: integration not notified correctly: %+v/%+v", tc.requested, cb.requestedFocus, cb.grantedFocus)
		}
	}
}

type fakeVideoCallback struct {
	accept     bool
	maxFreq    int32
	focus      []bool
	frames     [][]byte
	timestamps []uint64
}

func (f *fakeVideoCallback) OnVideoSetup(configIndex int32) (bool, int32) { return f.accept, f.maxFreq }
func (f *fakeVideoCallback) OnVideoFocus(hasFocus, unsolicited bool)      { f.focus = append(f.focus, hasFocus) }
func (f *fakeVideoCallback) OnVideoFrame(data []byte, timestamp uint64, hasTimestamp bool) {
	f.frames = append(f.frames, data)
	f.timestamps = append(f.timestamps, timestamp)
}

func TestVideoSetupAccepted(t *testing.T) {
	sender := &fakeSender{}
	cb := &fakeVideoCallback{accept: true, maxFreq: 60}
	h := NewVideo(3, sender, nil, cb, []int32{0, 1})

	req := wire.AVSetupRequest{ConfigIndex: 1}
	if err := h.Receive(frame.Message{Payload: envelope(wire.TagAVSetupRequest, req.MarshalProto())}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	env := decodeLast(t, sender)
	resp, err := wire.UnmarshalAVSetupResponse(env.Body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != 0 || resp.MaxFrequency != 60 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestVideoSetupRejectedReturnsError(t *testing.T) {
	sender := &fakeSender{}
	cb := &fakeVideoCallback{accept: false}
	h := NewVideo(3, sender, nil, cb, []int32{0})

	req := wire.AVSetupRequest{ConfigIndex: 5}
	err := h.Receive(frame.Message{Payload: envelope(wire.TagAVSetupRequest, req.MarshalProto())})
	if !errors.Is(err, ErrSetupRejected) {
		t.Fatalf("expected ErrSetupRejected, got %v", err)
	}
	// The response must still have been sent before the error surfaces.
	env := decodeLast(t, sender)
	resp, _ := wire.UnmarshalAVSetupResponse(env.Body)
	if resp.Status == 0 {
		t.Fatalf("expected non-zero rejection status")
	}
}

// TestVideoStartMediaAcksInOrder exercises spec.md §8 scenario S5: a
// start indication records the session, then each media frame is
// delivered to the integration and acknowledged with that session.
func TestVideoStartMediaAcksInOrder(t *testing.T) {
	sender := &fakeSender{}
	cb := &fakeVideoCallback{accept: true}
	h := NewVideo(3, sender, nil, cb, []int32{0})

	start := wire.AVStartIndication{Session: 7}
	if err := h.Receive(frame.Message{Payload: envelope(wire.TagAVStartIndication, start.MarshalProto())}); err != nil {
		t.Fatalf("start: %v", err)
	}

	timestamps := []uint64{100, 200, 300}
	for _, ts := range timestamps {
		ind := wire.AVMediaIndication{Data: []byte("frame"), Timestamp: ts, HasTimestamp: true}
		if err := h.Receive(frame.Message{Payload: envelope(wire.TagAVMediaIndication, ind.MarshalProto())}); err != nil {
			t.Fatalf("media: %v", err)
		}
	}

	if len(cb.frames) != 3 {
		t.Fatalf("expected 3 frames delivered, got %d", len(cb.frames))
	}
	for i, ts := range timestamps {
		if cb.timestamps[i] != ts {
			t.Fatalf("frame %d: expected timestamp %d, got %d", i, ts, cb.timestamps[i])
		}
	}

	if len(sender.sent) != 3 {
		t.Fatalf("expected 3 ack frames, got %d", len(sender.sent))
	}
	for i, s := range sender.sent {
		env, err := wire.DecodeEnvelope(s.payload)
		if err != nil {
			t.Fatalf("decode ack %d: %v", i, err)
		}
		if env.Tag != wire.TagAVMediaAckIndication {
			t.Fatalf("ack %d: expected AVMediaAckIndication, got tag %d", i, env.Tag)
		}
		ack, err := wire.UnmarshalAVMediaAckIndication(env.Body)
		if err != nil {
			t.Fatalf("unmarshal ack %d: %v", i, err)
		}
		if ack.Session != 7 {
			t.Fatalf("ack %d: expected session 7, got %d", i, ack.Session)
		}
	}
}

func TestVideoMediaBeforeStartIsError(t *testing.T) {
	sender := &fakeSender{}
	cb := &fakeVideoCallback{accept: true}
	h := NewVideo(3, sender, nil, cb, []int32{0})

	ind := wire.AVMediaIndication{Data: []byte("frame")}
	err := h.Receive(frame.Message{Payload: envelope(wire.TagAVMediaIndication, ind.MarshalProto())})
	if !errors.Is(err, channel.ErrVideoChannelNotOpen) {
		t.Fatalf("expected ErrVideoChannelNotOpen, got %v", err)
	}
}

type fakeAudioCallback struct {
	accept  bool
	maxFreq int32
	kinds   []channel.Kind
	frames  [][]byte
	started int
	stopped int
}

func (f *fakeAudioCallback) OnAudioSetup(kind channel.Kind, configIndex int32) (bool, int32) {
	f.kinds = append(f.kinds, kind)
	return f.accept, f.maxFreq
}
func (f *fakeAudioCallback) OnAudioFrame(kind channel.Kind, data []byte, timestamp uint64, hasTimestamp bool) {
	f.kinds = append(f.kinds, kind)
	f.frames = append(f.frames, data)
}
func (f *fakeAudioCallback) StartAudio(kind channel.Kind) { f.kinds = append(f.kinds, kind); f.started++ }
func (f *fakeAudioCallback) StopAudio(kind channel.Kind)  { f.kinds = append(f.kinds, kind); f.stopped++ }

func TestAudioMediaIndicationAcksAndDelivers(t *testing.T) {
	sender := &fakeSender{}
	cb := &fakeAudioCallback{accept: true}
	h := NewAudio(4, channel.KindMediaAudio, sender, nil, cb, []int32{0})

	ind := wire.AVMediaIndication{Data: []byte("pcm-bytes")}
	if err := h.Receive(frame.Message{Payload: envelope(wire.TagAVMediaIndication, ind.MarshalProto())}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(cb.frames) != 1 || string(cb.frames[0]) != "pcm-bytes" {
		t.Fatalf("expected frame delivered to callback, got %v", cb.frames)
	}
	env := decodeLast(t, sender)
	if env.Tag != wire.TagAVMediaAckIndication {
		t.Fatalf("expected ack sent, got tag %d", env.Tag)
	}
}

type fakeInputCallback struct {
	keyCodes      []int32
	touchScreen   bool
	supportedKeys []int32
	touchWidth    int32
	touchHeight   int32
	hasTouch      bool
}

func (f *fakeInputCallback) OnInputBindingNegotiated(keyCodes []int32, touchScreen bool) {
	f.keyCodes = keyCodes
	f.touchScreen = touchScreen
}

func (f *fakeInputCallback) SupportedKeyCodes() []int32 { return f.supportedKeys }

func (f *fakeInputCallback) TouchScreenSize() (int32, int32, bool) {
	return f.touchWidth, f.touchHeight, f.hasTouch
}

func TestInputBindingNegotiation(t *testing.T) {
	sender := &fakeSender{}
	cb := &fakeInputCallback{}
	h := NewInput(1, sender, nil, cb)

	req := wire.InputBindingRequest{KeyCodes: []int32{1, 2, 3}, TouchScreen: true}
	if err := h.Receive(frame.Message{Payload: envelope(wire.TagInputBindingRequest, req.MarshalProto())}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if !cb.touchScreen || len(cb.keyCodes) != 3 {
		t.Fatalf("callback not invoked correctly: %+v", cb)
	}
	env := decodeLast(t, sender)
	if env.Tag != wire.TagInputBindingResponse {
		t.Fatalf("expected binding response, got tag %d", env.Tag)
	}
}

type fakeSensorCallback struct {
	accept  bool
	sensors []int32
}

func (f *fakeSensorCallback) OnSensorStartRequested(sensorType int32) bool { return f.accept }

func (f *fakeSensorCallback) SupportedSensorTypes() []int32 { return f.sensors }

func TestSensorStartRejected(t *testing.T) {
	sender := &fakeSender{}
	h := NewSensor(2, sender, nil, &fakeSensorCallback{accept: false})

	req := wire.SensorStartRequest{SensorType: 7}
	if err := h.Receive(frame.Message{Payload: envelope(wire.TagSensorStartRequest, req.MarshalProto())}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	env := decodeLast(t, sender)
	resp, err := wire.UnmarshalSensorStartResponse(env.Body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status == 0 {
		t.Fatalf("expected non-zero rejection status")
	}
}

type fakeAVInputCallback struct {
	openErr, closeErr error
}

func (f *fakeAVInputCallback) OnAudioInputOpen(session int32) error  { return f.openErr }
func (f *fakeAVInputCallback) OnAudioInputClose(session int32) error { return f.closeErr }

func TestAVInputOpenFailureDistinguished(t *testing.T) {
	sender := &fakeSender{}
	cb := &fakeAVInputCallback{openErr: errors.New("mic busy")}
	h := NewAVInput(6, sender, nil, cb, []int32{0})

	req := wire.AVInputOpenRequest{Open: true, Session: 1}
	err := h.Receive(frame.Message{Payload: envelope(wire.TagAVInputOpenRequest, req.MarshalProto())})
	if !errors.Is(err, ErrAudioInputOpen) {
		t.Fatalf("expected ErrAudioInputOpen, got %v", err)
	}
}

func TestAVInputCloseFailureDistinguished(t *testing.T) {
	sender := &fakeSender{}
	cb := &fakeAVInputCallback{closeErr: errors.New("already closed")}
	h := NewAVInput(6, sender, nil, cb, []int32{0})

	req := wire.AVInputOpenRequest{Open: false, Session: 1}
	err := h.Receive(frame.Message{Payload: envelope(wire.TagAVInputOpenRequest, req.MarshalProto())})
	if !errors.Is(err, ErrAudioInputClose) {
		t.Fatalf("expected ErrAudioInputClose, got %v", err)
	}
}

func TestAVInputSetupRespondsLikeAudio(t *testing.T) {
	sender := &fakeSender{}
	h := NewAVInput(6, sender, nil, &fakeAVInputCallback{}, []int32{0, 2})

	req := wire.AVSetupRequest{ConfigIndex: 0}
	if err := h.Receive(frame.Message{Payload: envelope(wire.TagAVSetupRequest, req.MarshalProto())}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	env := decodeLast(t, sender)
	resp, err := wire.UnmarshalAVSetupResponse(env.Body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != 0 || resp.MaxUnacked != 10 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAudioStartStopIndicationNotifiesIntegration(t *testing.T) {
	sender := &fakeSender{}
	cb := &fakeAudioCallback{accept: true}
	h := NewAudio(4, channel.KindMediaAudio, sender, nil, cb, []int32{0})

	if err := h.Receive(frame.Message{Payload: envelope(wire.TagAVStartIndication, wire.AVStartIndication{Session: 1}.MarshalProto())}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := h.Receive(frame.Message{Payload: envelope(wire.TagAVStopIndication, wire.AVStopIndication{}.MarshalProto())}); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if cb.started != 1 || cb.stopped != 1 {
		t.Fatalf("expected 1 start and 1 stop, got started=%d stopped=%d", cb.started, cb.stopped)
	}
}

func TestVideoDescribeAdvertisesConfigs(t *testing.T) {
	h := NewVideo(3, &fakeSender{}, nil, &fakeVideoCallback{}, []int32{0, 1, 2})
	capab, err := wire.UnmarshalAVChannelCapability(h.Describe())
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(capab.Configs) != 3 {
		t.Fatalf("expected 3 configs advertised, got %+v", capab.Configs)
	}
}

func TestAudioDescribeDistinguishesChannelFormat(t *testing.T) {
	media := NewAudio(4, channel.KindMediaAudio, &fakeSender{}, nil, &fakeAudioCallback{}, []int32{0})
	speech := NewAudio(5, channel.KindSpeechAudio, &fakeSender{}, nil, &fakeAudioCallback{}, []int32{0})

	mediaCap, err := wire.UnmarshalAudioChannelCapability(media.Describe())
	if err != nil {
		t.Fatalf("unmarshal media: %v", err)
	}
	if mediaCap.SampleRate != 48000 || mediaCap.ChannelCount != 2 {
		t.Fatalf("expected media audio to advertise 48kHz stereo, got %+v", mediaCap)
	}

	speechCap, err := wire.UnmarshalAudioChannelCapability(speech.Describe())
	if err != nil {
		t.Fatalf("unmarshal speech: %v", err)
	}
	if speechCap.SampleRate != 16000 || speechCap.ChannelCount != 1 {
		t.Fatalf("expected speech audio to advertise 16kHz mono, got %+v", speechCap)
	}
}

// TestAudioCallbacksCarryDistinguishingKind confirms a single
// AudioCapability implementer can tell the three audio channels apart,
// since buildHandlers wires all three onto the same integration value.
func TestAudioCallbacksCarryDistinguishingKind(t *testing.T) {
	cb := &fakeAudioCallback{accept: true}
	media := NewAudio(4, channel.KindMediaAudio, &fakeSender{}, nil, cb, []int32{0})
	system := NewAudio(6, channel.KindSystemAudio, &fakeSender{}, nil, cb, []int32{0})

	if err := media.Receive(frame.Message{Payload: envelope(wire.TagAVStartIndication, wire.AVStartIndication{}.MarshalProto())}); err != nil {
		t.Fatalf("media start: %v", err)
	}
	if err := system.Receive(frame.Message{Payload: envelope(wire.TagAVStartIndication, wire.AVStartIndication{}.MarshalProto())}); err != nil {
		t.Fatalf("system start: %v", err)
	}
	if len(cb.kinds) != 2 || cb.kinds[0] != channel.KindMediaAudio || cb.kinds[1] != channel.KindSystemAudio {
		t.Fatalf("expected distinct kinds recorded, got %v", cb.kinds)
	}
}

func TestInputDescribeAdvertisesCapabilities(t *testing.T) {
	cb := &fakeInputCallback{supportedKeys: []int32{1, 2}, hasTouch: true, touchWidth: 800, touchHeight: 480}
	h := NewInput(1, &fakeSender{}, nil, cb)
	capab, err := wire.UnmarshalInputChannelCapability(h.Describe())
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(capab.KeyCodes) != 2 || !capab.TouchScreen || capab.TouchWidth != 800 || capab.TouchHeight != 480 {
		t.Fatalf("unexpected capability %+v", capab)
	}
}

func TestSensorDescribeAdvertisesSupportedTypes(t *testing.T) {
	h := NewSensor(2, &fakeSender{}, nil, &fakeSensorCallback{sensors: []int32{1, 2, 3}})
	capab, err := wire.UnmarshalSensorChannelCapability(h.Describe())
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(capab.SensorTypes) != 3 {
		t.Fatalf("expected 3 sensor types advertised, got %+v", capab.SensorTypes)
	}
}

// TestVideoFocusRequestEchoesUnfocusedMode exercises spec.md §4.5.4:
// the video channel must echo the requested mode rather than always
// reporting focus granted (unlike the audio-channel reuse case, which
// spec.md §4.5.5 always grants focus).
func TestVideoFocusRequestEchoesUnfocusedMode(t *testing.T) {
	sender := &fakeSender{}
	cb := &fakeVideoCallback{}
	h := NewVideo(3, sender, nil, cb, []int32{0})

	req := wire.VideoFocusRequest{Mode: wire.VideoFocusModeUnfocused}
	if err := h.Receive(frame.Message{Payload: envelope(wire.TagVideoFocusRequest, req.MarshalProto())}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	env := decodeLast(t, sender)
	ind, err := wire.UnmarshalVideoFocusIndication(env.Body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ind.HasFocus {
		t.Fatalf("expected focus not granted for an unfocused-mode request")
	}
	if len(cb.focus) != 1 || cb.focus[0] {
		t.Fatalf("expected integration notified of lost focus, got %+v", cb.focus)
	}
}

func TestAudioVideoFocusRequestGrantsFocus(t *testing.T) {
	sender := &fakeSender{}
	h := NewAudio(4, channel.KindMediaAudio, sender, nil, &fakeAudioCallback{accept: true}, []int32{0})

	req := wire.VideoFocusRequest{Mode: 1}
	if err := h.Receive(frame.Message{Payload: envelope(wire.TagVideoFocusRequest, req.MarshalProto())}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	env := decodeLast(t, sender)
	if env.Tag != wire.TagVideoFocusIndication {
		t.Fatalf("expected VideoFocusIndication, got tag %d", env.Tag)
	}
	ind, err := wire.UnmarshalVideoFocusIndication(env.Body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !ind.HasFocus {
		t.Fatalf("expected focus granted")
	}
}

type fakeBluetoothCallback struct {
	accept, alreadyPaired bool
}

func (f *fakeBluetoothCallback) OnPairingRequest(address string) (bool, bool) {
	return f.accept, f.alreadyPaired
}

func TestBluetoothPairingAccepted(t *testing.T) {
	sender := &fakeSender{}
	h := NewBluetooth(7, sender, nil, &fakeBluetoothCallback{accept: true, alreadyPaired: true})

	req := wire.BluetoothPairingRequest{Address: "AA:BB:CC:DD:EE:FF"}
	if err := h.Receive(frame.Message{Payload: envelope(wire.TagBluetoothPairingRequest, req.MarshalProto())}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	env := decodeLast(t, sender)
	resp, err := wire.UnmarshalBluetoothPairingResponse(env.Body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != 0 || !resp.AlreadyPaired {
		t.Fatalf("unexpected response %+v", resp)
	}
}

type fakeNavigationCallback struct {
	statuses []bool
	turns    []wire.NavigationTurnEvent
	distances []wire.NavigationDistanceEvent
}

func (f *fakeNavigationCallback) OnNavigationStatus(active bool) { f.statuses = append(f.statuses, active) }
func (f *fakeNavigationCallback) OnNavigationTurn(event wire.NavigationTurnEvent) {
	f.turns = append(f.turns, event)
}
func (f *fakeNavigationCallback) OnNavigationDistance(event wire.NavigationDistanceEvent) {
	f.distances = append(f.distances, event)
}

func TestNavigationTurnEventDeliveredWithoutResponse(t *testing.T) {
	sender := &fakeSender{}
	cb := &fakeNavigationCallback{}
	h := NewNavigation(8, sender, nil, cb)

	ev := wire.NavigationTurnEvent{RoadName: "Elm St", Side: wire.TurnSideRight, Angle: 45}
	if err := h.Receive(frame.Message{Payload: envelope(wire.TagNavigationTurnEvent, ev.MarshalProto())}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(cb.turns) != 1 || cb.turns[0].RoadName != "Elm St" {
		t.Fatalf("expected turn delivered, got %+v", cb.turns)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("navigation channel must never respond, got %d sends", len(sender.sent))
	}
}

type fakeMediaStatusCallback struct {
	playbacks []bool
	metadata  []string
}

func (f *fakeMediaStatusCallback) OnPlaybackStatus(playing bool, position int64) {
	f.playbacks = append(f.playbacks, playing)
}
func (f *fakeMediaStatusCallback) OnMetadata(title, artist, album string) {
	f.metadata = append(f.metadata, title)
}

func TestMediaStatusNeverAcknowledged(t *testing.T) {
	sender := &fakeSender{}
	cb := &fakeMediaStatusCallback{}
	h := NewMediaStatus(9, sender, nil, cb)

	st := wire.MediaPlaybackStatus{Playing: true, Position: 1000}
	if err := h.Receive(frame.Message{Payload: envelope(wire.TagMediaPlaybackStatus, st.MarshalProto())}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(cb.playbacks) != 1 || !cb.playbacks[0] {
		t.Fatalf("expected playback status delivered")
	}
	if len(sender.sent) != 0 {
		t.Fatalf("media status channel must never respond, got %d sends", len(sender.sent))
	}
}

func TestUnknownTagIsUnexpectedMessage(t *testing.T) {
	sender := &fakeSender{}
	h := NewMediaStatus(9, sender, nil, &fakeMediaStatusCallback{})
	err := h.Receive(frame.Message{Payload: envelope(wire.Tag(999), nil)})
	if !errors.Is(err, channel.ErrUnexpectedMessage) {
		t.Fatalf("expected ErrUnexpectedMessage, got %v", err)
	}
}
