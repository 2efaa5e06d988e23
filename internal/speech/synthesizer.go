package speech

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Synthesizer converts assistant text into playable audio. Failures are
// non-fatal to a session; absent playback is not an application error.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type speechClient interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// TTSSynthesizer produces MP3 audio via an OpenAI-compatible speech endpoint.
type TTSSynthesizer struct {
	client speechClient
	model  string
	voice  string
}

// NewTTSSynthesizer creates a synthesizer for the given model and voice.
func NewTTSSynthesizer(client speechClient, model, voice string) *TTSSynthesizer {
	if client == nil {
		panic("speech: speech client cannot be nil")
	}
	if model == "" {
		model = "playai-tts"
	}
	if voice == "" {
		voice = "Fritz-PlayAI"
	}
	return &TTSSynthesizer{client: client, model: model, voice: voice}
}

// Synthesize returns MP3 bytes for the given text. Empty text yields nil
// audio without error.
func (s *TTSSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := s.client.CreateSpeech(callCtx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio: %v", ErrSynthesis, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty audio response", ErrSynthesis)
	}
	return data, nil
}
