package handlers

import (
	"fmt"

	"github.com/pion/logging"

	"github.com/headunit/aaengine/pkg/channel"
	"github.com/headunit/aaengine/pkg/frame"
	"github.com/headunit/aaengine/pkg/integration"
	"github.com/headunit/aaengine/pkg/wire"
)

// MediaStatus implements the media-status channel: playback and
// metadata updates from the currently playing media app are delivered
// to the integration for display. Per SPEC_FULL.md §13 item 4, these
// are never acknowledged.
type MediaStatus struct {
	channelID uint8
	sender    channel.Sender
	log       logging.LeveledLogger
	callback  integration.MediaStatusCapability
}

func NewMediaStatus(channelID uint8, sender channel.Sender, log logging.LeveledLogger, callback integration.MediaStatusCapability) *MediaStatus {
	return &MediaStatus{channelID: channelID, sender: sender, log: log, callback: callback}
}

func (h *MediaStatus) Kind() channel.Kind { return channel.KindMediaStatus }

func (h *MediaStatus) Describe() []byte { return nil }

func (h *MediaStatus) Receive(msg frame.Message) error {
	env, err := wire.DecodeEnvelope(msg.Payload)
	if err != nil {
		return err
	}
	switch env.Tag {
	case wire.TagMediaPlaybackStatus:
		st, err := wire.UnmarshalMediaPlaybackStatus(env.Body)
		if err != nil {
			return err
		}
		if h.log != nil {
			h.log.Debugf("media playback status: playing=%v position=%d", st.Playing, st.Position)
		}
		h.callback.OnPlaybackStatus(st.Playing, st.Position)
		return nil
	case wire.TagMediaMetadata:
		md, err := wire.UnmarshalMediaMetadata(env.Body)
		if err != nil {
			return err
		}
		if h.log != nil {
			h.log.Debugf("media metadata: %q by %q", md.Title, md.Artist)
		}
		h.callback.OnMetadata(md.Title, md.Artist, md.Album)
		return nil
	default:
		return fmt.Errorf("%w: tag %d", channel.ErrUnexpectedMessage, env.Tag)
	}
}
