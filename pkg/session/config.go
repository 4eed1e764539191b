package session

import (
	"crypto/tls"
	"time"

	"github.com/pion/logging"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/headunit/aaengine/pkg/integration"
)

// Config configures one Session. A Config is reused across many
// sequential sessions accepted by a daemon; nothing in it is
// session-specific.
type Config struct {
	// Identity is returned verbatim in SERVICE_DISCOVERY_RESPONSE.
	Identity integration.Identity

	// ProtocolMajor/ProtocolMinor are sent in VERSION_REQUEST.
	ProtocolMajor uint16
	ProtocolMinor uint16

	// TLSConfig drives the in-band handshake. Build it with
	// tlsengine.NewAcceptAnyLeafConfig for the head unit's normal
	// trust policy, or any other *tls.Config for tests.
	TLSConfig *tls.Config

	// HandshakeTimeout bounds how long the TLS engine waits for
	// activity between handshake flights; zero uses tlsengine's
	// default.
	HandshakeTimeout time.Duration

	// VideoConfigs, MediaAudioConfigs, SpeechAudioConfigs and
	// SystemAudioConfigs list the codec configuration indices each AV
	// channel offers in AV_SETUP_RESPONSE (SPEC_FULL.md §12). A nil
	// slice defaults to []int32{0}.
	VideoConfigs       []int32
	MediaAudioConfigs  []int32
	SpeechAudioConfigs []int32
	SystemAudioConfigs []int32
	AVInputConfigs     []int32

	LoggerFactory logging.LoggerFactory

	// Registerer, when non-nil, receives this session's metrics
	// (pkg/session/metrics.go). A nil Registerer disables metrics
	// without disabling anything else.
	Registerer prometheus.Registerer
}

func (c Config) videoConfigs() []int32 {
	if c.VideoConfigs != nil {
		return c.VideoConfigs
	}
	return []int32{0}
}

func (c Config) mediaAudioConfigs() []int32 {
	if c.MediaAudioConfigs != nil {
		return c.MediaAudioConfigs
	}
	return []int32{0}
}

func (c Config) speechAudioConfigs() []int32 {
	if c.SpeechAudioConfigs != nil {
		return c.SpeechAudioConfigs
	}
	return []int32{0}
}

func (c Config) systemAudioConfigs() []int32 {
	if c.SystemAudioConfigs != nil {
		return c.SystemAudioConfigs
	}
	return []int32{0}
}

func (c Config) avInputConfigs() []int32 {
	if c.AVInputConfigs != nil {
		return c.AVInputConfigs
	}
	return []int32{0}
}
