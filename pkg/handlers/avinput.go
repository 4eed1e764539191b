package handlers

import (
	"fmt"

	"github.com/pion/logging"

	"github.com/headunit/aaengine/pkg/channel"
	"github.com/headunit/aaengine/pkg/frame"
	"github.com/headunit/aaengine/pkg/integration"
	"github.com/headunit/aaengine/pkg/wire"
)

// AVInput implements the microphone-input channel: the mobile device
// asks the head unit to open or close the microphone (e.g. to start a
// voice-recognition session), and the head unit streams the captured audio back to
// the mobile device.
type AVInput struct {
	channelID uint8
	sender    channel.Sender
	log       logging.LeveledLogger
	callback  integration.AVInputCapability
	configs   []int32
}

func NewAVInput(channelID uint8, sender channel.Sender, log logging.LeveledLogger, callback integration.AVInputCapability, configs []int32) *AVInput {
	return &AVInput{channelID: channelID, sender: sender, log: log, callback: callback, configs: configs}
}

func (h *AVInput) Kind() channel.Kind { return channel.KindAVInput }

func (h *AVInput) Describe() []byte {
	return wire.AVChannelCapability{Configs: h.configs}.MarshalProto()
}

func (h *AVInput) Receive(msg frame.Message) error {
	env, err := wire.DecodeEnvelope(msg.Payload)
	if err != nil {
		return err
	}
	switch env.Tag {
	case wire.TagAVSetupRequest:
		// Answered identically to the audio channels (spec.md §4.5.6).
		if _, err := wire.UnmarshalAVSetupRequest(env.Body); err != nil {
			return err
		}
		resp := wire.Envelope{Tag: wire.TagAVSetupResponse, Body: wire.AVSetupResponse{Status: 0, Configs: h.configs, MaxUnacked: 10}.MarshalProto()}
		return h.sender.Send(h.channelID, false, resp.Encode())

	case wire.TagAVInputOpenRequest:
		req, err := wire.UnmarshalAVInputOpenRequest(env.Body)
		if err != nil {
			return err
		}
		var cbErr error
		if req.Open {
			cbErr = h.callback.OnAudioInputOpen(req.Session)
		} else {
			cbErr = h.callback.OnAudioInputClose(req.Session)
		}
		status := int32(0)
		if cbErr != nil {
			status = 1
		}
		resp := wire.Envelope{Tag: wire.TagChannelOpenResponse, Body: wire.ChannelOpenResponse{Status: status}.MarshalProto()}
		if err := h.sender.Send(h.channelID, false, resp.Encode()); err != nil {
			return err
		}
		if cbErr != nil {
			kind := ErrAudioInputClose
			if req.Open {
				kind = ErrAudioInputOpen
			}
			return fmt.Errorf("%w: %v", kind, cbErr)
		}
		return nil

	default:
		return fmt.Errorf("%w: tag %d", channel.ErrUnexpectedMessage, env.Tag)
	}
}

// SendFrame streams one block of captured microphone audio to the
// mobile device.
func (h *AVInput) SendFrame(data []byte, timestamp uint64, hasTimestamp bool) error {
	env := wire.Envelope{Tag: wire.TagAVMediaIndication, Body: wire.AVMediaIndication{Data: data, Timestamp: timestamp, HasTimestamp: hasTimestamp}.MarshalProto()}
	return h.sender.Send(h.channelID, false, env.Encode())
}
