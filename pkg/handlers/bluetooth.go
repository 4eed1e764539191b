package handlers

import (
	"fmt"

	"github.com/pion/logging"

	"github.com/headunit/aaengine/pkg/channel"
	"github.com/headunit/aaengine/pkg/frame"
	"github.com/headunit/aaengine/pkg/integration"
	"github.com/headunit/aaengine/pkg/wire"
)

// Bluetooth implements the in-session Bluetooth pairing channel: a
// lightweight pairing handshake that rides inside an established
// session, distinct from the out-of-scope pre-session rendezvous that
// gets a session started in the first place (spec.md §1 Non-goals).
type Bluetooth struct {
	channelID uint8
	sender    channel.Sender
	log       logging.LeveledLogger
	callback  integration.BluetoothCapability
}

func NewBluetooth(channelID uint8, sender channel.Sender, log logging.LeveledLogger, callback integration.BluetoothCapability) *Bluetooth {
	return &Bluetooth{channelID: channelID, sender: sender, log: log, callback: callback}
}

func (h *Bluetooth) Kind() channel.Kind { return channel.KindBluetooth }

func (h *Bluetooth) Describe() []byte { return nil }

func (h *Bluetooth) Receive(msg frame.Message) error {
	env, err := wire.DecodeEnvelope(msg.Payload)
	if err != nil {
		return err
	}
	switch env.Tag {
	case wire.TagBluetoothPairingRequest:
		req, err := wire.UnmarshalBluetoothPairingRequest(env.Body)
		if err != nil {
			return err
		}
		accept, alreadyPaired := h.callback.OnPairingRequest(req.Address)
		status := int32(1)
		if accept {
			status = 0
		}
		resp := wire.Envelope{Tag: wire.TagBluetoothPairingResponse, Body: wire.BluetoothPairingResponse{Status: status, AlreadyPaired: alreadyPaired}.MarshalProto()}
		return h.sender.Send(h.channelID, false, resp.Encode())
	default:
		return fmt.Errorf("%w: tag %d", channel.ErrUnexpectedMessage, env.Tag)
	}
}
