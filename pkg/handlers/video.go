package handlers

import (
	"fmt"

	"github.com/pion/logging"

	"github.com/headunit/aaengine/pkg/channel"
	"github.com/headunit/aaengine/pkg/frame"
	"github.com/headunit/aaengine/pkg/integration"
	"github.com/headunit/aaengine/pkg/wire"
)

// Video implements the video channel: codec setup negotiation,
// start/stop indications, focus, and the inbound encoded-frame media
// stream (the mobile device is the source of video; the head unit
// only decodes and displays it, per spec.md §4.5.4).
type Video struct {
	channelID uint8
	sender    channel.Sender
	log       logging.LeveledLogger
	callback  integration.VideoCapability
	configs   []int32

	session    int32
	sessionSet bool
}

// NewVideo builds the video handler. configs lists the codec
// configuration indices the head unit is willing to accept, offered
// verbatim in AV_SETUP_RESPONSE (SPEC_FULL.md §12).
func NewVideo(channelID uint8, sender channel.Sender, log logging.LeveledLogger, callback integration.VideoCapability, configs []int32) *Video {
	return &Video{channelID: channelID, sender: sender, log: log, callback: callback, configs: configs}
}

func (h *Video) Kind() channel.Kind { return channel.KindVideo }

func (h *Video) Describe() []byte {
	return wire.AVChannelCapability{Configs: h.configs}.MarshalProto()
}

func (h *Video) Receive(msg frame.Message) error {
	env, err := wire.DecodeEnvelope(msg.Payload)
	if err != nil {
		return err
	}
	switch env.Tag {
	case wire.TagChannelOpenRequest:
		if _, err := wire.UnmarshalChannelOpenRequest(env.Body); err != nil {
			return err
		}
		resp := wire.Envelope{Tag: wire.TagChannelOpenResponse, Body: wire.ChannelOpenResponse{Status: 0}.MarshalProto()}
		return h.sender.Send(h.channelID, false, resp.Encode())

	case wire.TagAVSetupRequest:
		req, err := wire.UnmarshalAVSetupRequest(env.Body)
		if err != nil {
			return err
		}
		accept, maxFreq := h.callback.OnVideoSetup(req.ConfigIndex)
		status := int32(0)
		if !accept {
			status = 1
		}
		resp := wire.Envelope{Tag: wire.TagAVSetupResponse, Body: wire.AVSetupResponse{Status: status, Configs: h.configs, MaxFrequency: maxFreq, MaxUnacked: 1}.MarshalProto()}
		if err := h.sender.Send(h.channelID, false, resp.Encode()); err != nil {
			return err
		}
		if !accept {
			return fmt.Errorf("%w: config %d", ErrSetupRejected, req.ConfigIndex)
		}
		return nil

	case wire.TagVideoFocusRequest:
		req, err := wire.UnmarshalVideoFocusRequest(env.Body)
		if err != nil {
			return err
		}
		hasFocus := req.Mode != wire.VideoFocusModeUnfocused
		h.callback.OnVideoFocus(hasFocus, false)
		ind := wire.Envelope{Tag: wire.TagVideoFocusIndication, Body: wire.VideoFocusIndication{HasFocus: hasFocus}.MarshalProto()}
		return h.sender.Send(h.channelID, false, ind.Encode())

	case wire.TagAVStartIndication:
		ind, err := wire.UnmarshalAVStartIndication(env.Body)
		if err != nil {
			return err
		}
		h.session = ind.Session
		h.sessionSet = true
		return nil

	case wire.TagAVStopIndication:
		if _, err := wire.UnmarshalAVStopIndication(env.Body); err != nil {
			return err
		}
		h.sessionSet = false
		return nil

	case wire.TagAVMediaIndication:
		ind, err := wire.UnmarshalAVMediaIndication(env.Body)
		if err != nil {
			return err
		}
		if !h.sessionSet {
			return fmt.Errorf("%w", channel.ErrVideoChannelNotOpen)
		}
		h.callback.OnVideoFrame(ind.Data, ind.Timestamp, ind.HasTimestamp)
		ack := wire.Envelope{Tag: wire.TagAVMediaAckIndication, Body: wire.AVMediaAckIndication{Session: h.session}.MarshalProto()}
		return h.sender.Send(h.channelID, false, ack.Encode())

	default:
		return fmt.Errorf("%w: tag %d", channel.ErrUnexpectedMessage, env.Tag)
	}
}
