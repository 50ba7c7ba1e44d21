package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"
)

// WordSuggester proposes words for a theme.
type WordSuggester interface {
	SuggestWords(ctx context.Context, theme string, count, maxLen int) ([]string, error)
}

const suggestPrompt = `Propose %d words on the theme "%s" for a word search puzzle.

Rules:
- Each word is a single word made of letters only: no spaces, digits, hyphens or apostrophes.
- Each word has at most %d letters.
- No duplicates.
- Answer ONLY with JSON of the form {"words": ["...", "..."]}, no comment and no markdown.`

// SuggestWords asks Gemini for words related to theme. The answer is cleaned
// so every returned word passes the puzzle's length and letter checks.
func (g *GeminiClient) SuggestWords(ctx context.Context, theme string, count, maxLen int) ([]string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{Text: fmt.Sprintf(suggestPrompt, count, theme, maxLen)},
			},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.7)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty gemini response")
	}

	words, err := parseSuggestions(text, count, maxLen)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("no usable word in gemini response: %s", text)
	}
	return words, nil
}

// parseSuggestions decodes the model answer and keeps at most count distinct
// alphabetic words no longer than maxLen.
func parseSuggestions(text string, count, maxLen int) ([]string, error) {
	var out struct {
		Words []string `json:"words"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("parse words JSON: %w\nraw response: %s", err, text)
	}

	seen := make(map[string]bool)
	words := make([]string, 0, len(out.Words))
	for _, w := range out.Words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if !isAlpha(w) || utf8.RuneCountInString(w) > maxLen || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
		if len(words) == count {
			break
		}
	}
	return words, nil
}
