package handlers

import (
	"fmt"

	"github.com/pion/logging"

	"github.com/headunit/aaengine/pkg/channel"
	"github.com/headunit/aaengine/pkg/frame"
	"github.com/headunit/aaengine/pkg/integration"
	"github.com/headunit/aaengine/pkg/wire"
)

// Sensor implements the sensor channel: the mobile device requests a
// sensor feed, and the head unit streams batched readings
// (via SendEvent, or as raw payloads that the session's outbound pump
// sends directly).
type Sensor struct {
	channelID uint8
	sender    channel.Sender
	log       logging.LeveledLogger
	callback  integration.SensorCapability
}

func NewSensor(channelID uint8, sender channel.Sender, log logging.LeveledLogger, callback integration.SensorCapability) *Sensor {
	return &Sensor{channelID: channelID, sender: sender, log: log, callback: callback}
}

func (h *Sensor) Kind() channel.Kind { return channel.KindSensor }

func (h *Sensor) Describe() []byte {
	return wire.SensorChannelCapability{SensorTypes: h.callback.SupportedSensorTypes()}.MarshalProto()
}

func (h *Sensor) Receive(msg frame.Message) error {
	env, err := wire.DecodeEnvelope(msg.Payload)
	if err != nil {
		return err
	}
	switch env.Tag {
	case wire.TagSensorStartRequest:
		req, err := wire.UnmarshalSensorStartRequest(env.Body)
		if err != nil {
			return err
		}
		status := int32(0)
		if !h.callback.OnSensorStartRequested(req.SensorType) {
			status = 1
		}
		resp := wire.Envelope{Tag: wire.TagSensorStartResponse, Body: wire.SensorStartResponse{Status: status}.MarshalProto()}
		return h.sender.Send(h.channelID, false, resp.Encode())
	default:
		return fmt.Errorf("%w: tag %d", channel.ErrUnexpectedMessage, env.Tag)
	}
}

// SendEvent emits one batch of sensor readings.
func (h *Sensor) SendEvent(ev wire.SensorEventIndication) error {
	env := wire.Envelope{Tag: wire.TagSensorEventIndication, Body: ev.MarshalProto()}
	return h.sender.Send(h.channelID, false, env.Encode())
}
