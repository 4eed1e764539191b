package main

import (
	"errors"
	"fmt"

	"github.com/headunit/aaengine/pkg/channel"
	"github.com/headunit/aaengine/pkg/integration"
	"github.com/headunit/aaengine/pkg/wire"
)

func isPeerShutdown(err error) bool {
	return errors.Is(err, channel.ErrPeerShutdown)
}

// stubIntegration implements every capability interface with the
// simplest behavior that accepts whatever the mobile device offers.
// It exists to exercise the full channel set end to end without real
// hardware; a production head unit supplies its own Integration.
type stubIntegration struct {
	identity integration.Identity
}

func newStubIntegration(identity integration.Identity) *stubIntegration {
	return &stubIntegration{identity: identity}
}

func (s *stubIntegration) Identity() integration.Identity { return s.identity }

func (s *stubIntegration) OnAudioFocusRequest(requested, granted int32) {
	fmt.Printf("audio focus %d -> %d\n", requested, granted)
}

func (s *stubIntegration) OnNavigationFocusRequest() bool { return true }

func (s *stubIntegration) OnVoiceSessionRequest(active bool) {}

func (s *stubIntegration) OnShutdownRequested(reason string) {}

func (s *stubIntegration) OnInputBindingNegotiated(keyCodes []int32, touchScreen bool) {}

func (s *stubIntegration) SupportedKeyCodes() []int32 { return nil }

func (s *stubIntegration) TouchScreenSize() (width, height int32, ok bool) { return 0, 0, false }

func (s *stubIntegration) OnSensorStartRequested(sensorType int32) bool { return true }

func (s *stubIntegration) SupportedSensorTypes() []int32 { return nil }

func (s *stubIntegration) OnVideoSetup(configIndex int32) (bool, int32) { return true, 60 }

func (s *stubIntegration) OnVideoFocus(hasFocus, unsolicited bool) {}

func (s *stubIntegration) OnVideoFrame(data []byte, timestamp uint64, hasTimestamp bool) {}

func (s *stubIntegration) OnAudioSetup(kind channel.Kind, configIndex int32) (bool, int32) {
	return true, 48000
}

func (s *stubIntegration) OnAudioFrame(kind channel.Kind, data []byte, timestamp uint64, hasTimestamp bool) {
}

func (s *stubIntegration) StartAudio(kind channel.Kind) {}
func (s *stubIntegration) StopAudio(kind channel.Kind)  {}

func (s *stubIntegration) OnAudioInputOpen(session int32) error  { return nil }
func (s *stubIntegration) OnAudioInputClose(session int32) error { return nil }

func (s *stubIntegration) OnPairingRequest(address string) (bool, bool) { return true, false }

func (s *stubIntegration) OnNavigationStatus(active bool) {}
func (s *stubIntegration) OnNavigationTurn(event wire.NavigationTurnEvent) {
	fmt.Printf("nav turn: %+v\n", event)
}
func (s *stubIntegration) OnNavigationDistance(event wire.NavigationDistanceEvent) {}

func (s *stubIntegration) OnPlaybackStatus(playing bool, position int64) {}
func (s *stubIntegration) OnMetadata(title, artist, album string)        {}
