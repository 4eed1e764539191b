package handlers

import (
	"fmt"

	"github.com/pion/logging"

	"github.com/headunit/aaengine/pkg/channel"
	"github.com/headunit/aaengine/pkg/frame"
	"github.com/headunit/aaengine/pkg/integration"
	"github.com/headunit/aaengine/pkg/wire"
)

// Audio implements the media-audio, speech-audio and system-audio
// channels, which all share the same message set; kind distinguishes
// which one a given instance is for logging and SERVICE_DISCOVERY
// purposes.
type Audio struct {
	channelID uint8
	kind      channel.Kind
	sender    channel.Sender
	log       logging.LeveledLogger
	callback  integration.AudioCapability
	configs   []int32
}

func NewAudio(channelID uint8, kind channel.Kind, sender channel.Sender, log logging.LeveledLogger, callback integration.AudioCapability, configs []int32) *Audio {
	return &Audio{channelID: channelID, kind: kind, sender: sender, log: log, callback: callback, configs: configs}
}

func (h *Audio) Kind() channel.Kind { return h.kind }

// Describe advertises the fixed PCM format spec.md §4.5.5 assigns to
// this channel's kind: 48kHz stereo for media audio, 16kHz mono for
// speech and system audio.
func (h *Audio) Describe() []byte {
	format := wire.AudioChannelCapability{Configs: h.configs, BitsPerSample: 16}
	if h.kind == channel.KindMediaAudio {
		format.SampleRate, format.ChannelCount = 48000, 2
	} else {
		format.SampleRate, format.ChannelCount = 16000, 1
	}
	return format.MarshalProto()
}

func (h *Audio) Receive(msg frame.Message) error {
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
		accept, maxFreq := h.callback.OnAudioSetup(h.kind, req.ConfigIndex)
		status := int32(0)
		if !accept {
			status = 1
		}
		resp := wire.Envelope{Tag: wire.TagAVSetupResponse, Body: wire.AVSetupResponse{Status: status, Configs: h.configs, MaxFrequency: maxFreq, MaxUnacked: 10}.MarshalProto()}
		if err := h.sender.Send(h.channelID, false, resp.Encode()); err != nil {
			return err
		}
		if !accept {
			return fmt.Errorf("%w: config %d", ErrSetupRejected, req.ConfigIndex)
		}
		return nil

	case wire.TagAVMediaIndication:
		ind, err := wire.UnmarshalAVMediaIndication(env.Body)
		if err != nil {
			return err
		}
		h.callback.OnAudioFrame(h.kind, ind.Data, ind.Timestamp, ind.HasTimestamp)
		ack := wire.Envelope{Tag: wire.TagAVMediaAckIndication, Body: wire.AVMediaAckIndication{}.MarshalProto()}
		return h.sender.Send(h.channelID, false, ack.Encode())

	case wire.TagAVStartIndication:
		if _, err := wire.UnmarshalAVStartIndication(env.Body); err != nil {
			return err
		}
		h.callback.StartAudio(h.kind)
		return nil

	case wire.TagAVStopIndication:
		if _, err := wire.UnmarshalAVStopIndication(env.Body); err != nil {
			return err
		}
		h.callback.StopAudio(h.kind)
		return nil

	case wire.TagVideoFocusRequest:
		// The protocol permits reusing the video-focus exchange on an
		// audio channel (spec.md §4.5.5); always answer with focus
		// granted.
		if _, err := wire.UnmarshalVideoFocusRequest(env.Body); err != nil {
			return err
		}
		ind := wire.Envelope{Tag: wire.TagVideoFocusIndication, Body: wire.VideoFocusIndication{HasFocus: true}.MarshalProto()}
		return h.sender.Send(h.channelID, false, ind.Encode())

	default:
		return fmt.Errorf("%w: tag %d", channel.ErrUnexpectedMessage, env.Tag)
	}
}
