package synth

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Tone is the writing tone of the post.
type Tone string

// Supported tones.
const (
	Professional   Tone = "Professional"
	Casual         Tone = "Casual"
	Technical      Tone = "Technical"
	Conversational Tone = "Conversational"
)

// Tones lists supported tones in display order.
var Tones = []Tone{Professional, Casual, Technical, Conversational}

// Length is the target post length in words.
type Length int

// Supported lengths.
const (
	Short  Length = 300
	Medium Length = 500
	Long   Length = 800
)

// Lengths lists supported lengths in display order.
var Lengths = []Length{Short, Medium, Long}

// Supported models.
const (
	ModelGeminiPro   = "gemini-2.5-pro-exp-03-25"
	ModelGeminiFlash = "gemini-2.0-flash"
	ModelGPT4oMini   = "gpt-4o-mini"
)

// Models lists supported model identifiers in display order.
var Models = []string{ModelGeminiPro, ModelGeminiFlash, ModelGPT4oMini}

// Provider is the service a model is served by.
type Provider string

// Known providers.
const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// ProviderOf returns the provider serving the model.
func ProviderOf(model string) (Provider, error) {
	switch {
	case strings.HasPrefix(model, "gemini-"):
		return ProviderGemini, nil
	case strings.HasPrefix(model, "gpt-"):
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("%w: no provider for model %q", ErrInvalidStyle, model)
	}
}

// Style holds the user-chosen options of a post.
type Style struct {
	Tone   Tone
	Length Length
	Model  string
}

// DefaultStyle is a professional medium-length post written by the first model.
func DefaultStyle() Style {
	return Style{Tone: Professional, Length: Medium, Model: ModelGeminiPro}
}

// Validate checks every option against the supported sets.
func (s Style) Validate() error {
	if !lo.Contains(Tones, s.Tone) {
		return fmt.Errorf("%w: unsupported tone %q", ErrInvalidStyle, s.Tone)
	}
	if !lo.Contains(Lengths, s.Length) {
		return fmt.Errorf("%w: unsupported length %d", ErrInvalidStyle, s.Length)
	}
	if !lo.Contains(Models, s.Model) {
		return fmt.Errorf("%w: unsupported model %q", ErrInvalidStyle, s.Model)
	}
	return nil
}

// ParseTone finds a tone by name, ignoring case.
func ParseTone(s string) (Tone, error) {
	for _, t := range Tones {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported tone %q", ErrInvalidStyle, s)
}

// ParseLength accepts a word count or a size name: short, medium, long.
func ParseLength(s string) (Length, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "short":
		return Short, nil
	case "medium":
		return Medium, nil
	case "long":
		return Long, nil
	}

	n, err := strconv.Atoi(s)
	if err == nil && lo.Contains(Lengths, Length(n)) {
		return Length(n), nil
	}
	return 0, fmt.Errorf("%w: unsupported length %q", ErrInvalidStyle, s)
}
