package handlers

import (
	"fmt"

	"github.com/pion/logging"

	"github.com/headunit/aaengine/pkg/channel"
	"github.com/headunit/aaengine/pkg/frame"
	"github.com/headunit/aaengine/pkg/integration"
	"github.com/headunit/aaengine/pkg/wire"
)

// Input implements the input channel: the mobile device negotiates
// which key codes and touch surface it wants, and the head unit
// streams key/touch events to it (via SendEvent, or as raw payloads
// that the session's outbound pump sends directly).
type Input struct {
	channelID uint8
	sender    channel.Sender
	log       logging.LeveledLogger
	callback  integration.InputCapability
}

func NewInput(channelID uint8, sender channel.Sender, log logging.LeveledLogger, callback integration.InputCapability) *Input {
	return &Input{channelID: channelID, sender: sender, log: log, callback: callback}
}

func (h *Input) Kind() channel.Kind { return channel.KindInput }

func (h *Input) Describe() []byte {
	capab := wire.InputChannelCapability{KeyCodes: h.callback.SupportedKeyCodes()}
	if w, ht, ok := h.callback.TouchScreenSize(); ok {
		capab.TouchScreen = true
		capab.TouchWidth = w
		capab.TouchHeight = ht
	}
	return capab.MarshalProto()
}

func (h *Input) Receive(msg frame.Message) error {
	env, err := wire.DecodeEnvelope(msg.Payload)
	if err != nil {
		return err
	}
	switch env.Tag {
	case wire.TagInputBindingRequest:
		req, err := wire.UnmarshalInputBindingRequest(env.Body)
		if err != nil {
			return err
		}
		h.callback.OnInputBindingNegotiated(req.KeyCodes, req.TouchScreen)
		resp := wire.Envelope{Tag: wire.TagInputBindingResponse, Body: wire.InputBindingResponse{Status: 0}.MarshalProto()}
		return h.sender.Send(h.channelID, false, resp.Encode())
	default:
		return fmt.Errorf("%w: tag %d", channel.ErrUnexpectedMessage, env.Tag)
	}
}

// SendEvent emits one input event toward the mobile device.
func (h *Input) SendEvent(ev wire.InputEventIndication) error {
	env := wire.Envelope{Tag: wire.TagInputEventIndication, Body: ev.MarshalProto()}
	return h.sender.Send(h.channelID, false, env.Encode())
}
