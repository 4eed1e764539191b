package session

import (
	"github.com/headunit/aaengine/pkg/integration"
)

// RunOutboundPump drains src, looking up each item's destination
// channel id and submitting it through the session's transport. Items
// for a channel kind the session never assigned are logged and
// dropped. It returns once src is closed or a send fails.
//
// The pump is optional: a Session is fully usable without it, for
// integrations that only ever respond to inbound requests.
func (s *Session) RunOutboundPump(src integration.OutboundSource) {
	ch := src.Outbound()
	for item := range ch {
		id, ok := s.ChannelIDFor(item.Kind)
		if !ok {
			if s.log != nil {
				s.log.Warnf("session %s: outbound item for unassigned channel kind %s dropped", s.ID, item.Kind)
			}
			continue
		}
		if err := s.mux.Send(id, item.Control, item.Payload); err != nil {
			if s.log != nil {
				s.log.Errorf("session %s: outbound send on %s failed: %v", s.ID, item.Kind, err)
			}
			return
		}
		s.metrics.framesSent.Inc()
	}
}
