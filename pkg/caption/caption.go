// Package caption asks a generative model to describe and tag photos.
package caption

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"google.golang.org/genai"
	"k8s.io/klog/v2"

	"github.com/tstromberg/brickwall/pkg/photo"
)

// DefaultModel is the model used when none is configured.
var DefaultModel = "gemini-2.5-flash"

// MaxTags is the most tags Tags returns.
var MaxTags = 5

var describePrompt = "Describe this photograph in one plain sentence of at most 25 words, " +
	"the way a photographer would caption it in an album. Mention the place if you recognize it. " +
	"Do not start with \"This photo\" or \"An image of\". Reply with the sentence only."

var tagPrompt = "generate 1-5 comma-separated one-word tags. " +
	"Tags should be a present-tense singular word that a professional photographer would want to " +
	"organize their photo albums with. Use bw for black and white photos, urban for city photos. " +
	"If you know the location of a photo, add the name of the place, city, or country as a tag. " +
	"Do not combine multiple words. do not use plural words."

// Generator is the part of the genai client used here; *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewClient returns a Gemini API client.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, errors.New("no API key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("genai: %w", err)
	}
	return c, nil
}

// Describe returns a one-sentence description of p.
func Describe(ctx context.Context, g Generator, model string, p *photo.Photo) (string, error) {
	text, err := ask(ctx, g, model, p, describePrompt)
	if err != nil {
		return "", err
	}
	d := CleanDescription(text)
	if d == "" {
		return "", fmt.Errorf("empty description for %s", p.Path)
	}
	return d, nil
}

// Tags returns up to MaxTags suggested keywords for p.
func Tags(ctx context.Context, g Generator, model string, p *photo.Photo) ([]string, error) {
	text, err := ask(ctx, g, model, p, tagPrompt)
	if err != nil {
		return nil, err
	}
	return CleanTags(text), nil
}

func ask(ctx context.Context, g Generator, model string, p *photo.Photo, prompt string) (string, error) {
	bs, err := os.ReadFile(p.Path)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: bs}},
			{Text: prompt},
		},
	}}

	klog.V(1).Infof("asking %s about %s (%d bytes)", model, p.Path, len(bs))
	resp, err := g.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if resp == nil {
		return "", errors.New("empty response")
	}
	return resp.Text(), nil
}

var (
	space       = regexp.MustCompile(`\s+`)
	labelPrefix = regexp.MustCompile(`(?i)^(caption|description)\s*:\s*`)
	sentenceEnd = regexp.MustCompile(`[.!?](\s|$)`)
)

// CleanDescription reduces a model reply to a single tidy sentence.
func CleanDescription(s string) string {
	s = space.ReplaceAllString(strings.TrimSpace(s), " ")
	s = labelPrefix.ReplaceAllString(s, "")
	s = strings.Trim(s, "\"'*` ")
	if s == "" {
		return ""
	}
	if loc := sentenceEnd.FindStringIndex(s); loc != nil {
		s = s[:loc[0]+1]
	} else {
		s += "."
	}
	return s
}

// CleanTags splits a comma-separated model reply into lowercase single-word tags.
func CleanTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		t = strings.ToLower(strings.Trim(space.ReplaceAllString(t, ""), ".\"'*`"))
		if t == "" || slices.Contains(tags, t) {
			continue
		}
		tags = append(tags, t)
		if len(tags) == MaxTags {
			break
		}
	}
	return tags
}
