package handlers

import (
	"fmt"

	"github.com/pion/logging"

	"github.com/headunit/aaengine/pkg/channel"
	"github.com/headunit/aaengine/pkg/frame"
	"github.com/headunit/aaengine/pkg/integration"
	"github.com/headunit/aaengine/pkg/wire"
)

// Navigation implements the navigation channel: turn-by-turn status,
// turn and distance events arrive from the mobile device's navigation
// app and are delivered to the integration; nothing is ever sent back
// on this channel.
type Navigation struct {
	channelID uint8
	sender    channel.Sender
	log       logging.LeveledLogger
	callback  integration.NavigationCapability
}

func NewNavigation(channelID uint8, sender channel.Sender, log logging.LeveledLogger, callback integration.NavigationCapability) *Navigation {
	return &Navigation{channelID: channelID, sender: sender, log: log, callback: callback}
}

func (h *Navigation) Kind() channel.Kind { return channel.KindNavigation }

func (h *Navigation) Describe() []byte { return nil }

func (h *Navigation) Receive(msg frame.Message) error {
	env, err := wire.DecodeEnvelope(msg.Payload)
	if err != nil {
		return err
	}
	switch env.Tag {
	case wire.TagNavigationStatus:
		st, err := wire.UnmarshalNavigationStatus(env.Body)
		if err != nil {
			return err
		}
		h.callback.OnNavigationStatus(st.Active)
		return nil
	case wire.TagNavigationTurnEvent:
		ev, err := wire.UnmarshalNavigationTurnEvent(env.Body)
		if err != nil {
			return err
		}
		h.callback.OnNavigationTurn(ev)
		return nil
	case wire.TagNavigationDistanceEvent:
		ev, err := wire.UnmarshalNavigationDistanceEvent(env.Body)
		if err != nil {
			return err
		}
		h.callback.OnNavigationDistance(ev)
		return nil
	default:
		return fmt.Errorf("%w: tag %d", channel.ErrUnexpectedMessage, env.Tag)
	}
}
