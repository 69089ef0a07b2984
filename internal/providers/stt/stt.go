package stt

import "context"

// Provider is the speech-to-text collaborator used by the audio answer
// worker. Transcription is external to the scoring pipeline; the pipeline
// only ever sees the resulting text.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, language string) (text string, confidence float64, err error)
	Close() error
}
