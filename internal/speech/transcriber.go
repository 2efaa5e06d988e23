package speech

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Transcriber converts WAV audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

type transcriptionClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// WhisperTranscriber runs speech-to-text through a Whisper model on an
// OpenAI-compatible endpoint.
type WhisperTranscriber struct {
	client transcriptionClient
	model  string
}

// NewWhisperTranscriber creates a Whisper-backed transcriber.
func NewWhisperTranscriber(client transcriptionClient, model string) *WhisperTranscriber {
	if client == nil {
		panic("speech: transcription client cannot be nil")
	}
	if model == "" {
		model = "whisper-large-v3"
	}
	return &WhisperTranscriber{client: client, model: model}
}

// Transcribe sends the WAV bytes for transcription. Empty input and empty
// model output both count as transcription failures.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if len(wav) == 0 {
		return "", fmt.Errorf("%w: empty audio", ErrTranscription)
	}

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := t.client.CreateTranscription(callCtx, openai.AudioRequest{
		Model:    t.model,
		FilePath: "input.wav",
		Reader:   bytes.NewReader(wav),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty transcript", ErrTranscription)
	}
	return text, nil
}
