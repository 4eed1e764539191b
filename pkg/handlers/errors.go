package handlers

import "errors"

// Per-channel handler errors.
var (
	// ErrAudioInputOpen is returned when the integration fails to open
	// the microphone input, distinguished from ErrAudioInputClose per
	// SPEC_FULL.md §12.
	ErrAudioInputOpen = errors.New("handlers: failed to open audio input")

	// ErrAudioInputClose is returned when the integration fails to
	// close the microphone input.
	ErrAudioInputClose = errors.New("handlers: failed to close audio input")

	// ErrSetupRejected is returned when the integration rejects an
	// AV_SETUP_REQUEST.
	ErrSetupRejected = errors.New("handlers: av setup rejected")
)
