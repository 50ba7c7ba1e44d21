package main

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const (
	defaultRegion = "europe-west1"
	defaultModel  = "gemini-2.5-flash"
)

// GeminiConfig selects the backend used by the Gemini client. With a
// ProjectID the client talks to Vertex AI using Application Default
// Credentials; otherwise APIKey is used against the Gemini API.
type GeminiConfig struct {
	ProjectID string
	Region    string
	APIKey    string
	Model     string
}

// Enabled reports whether enough is configured to build a client.
func (c GeminiConfig) Enabled() bool {
	return c.ProjectID != "" || c.APIKey != ""
}

// GeminiClient wraps the Google GenAI client.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a client for the configured backend.
// For Vertex AI set GOOGLE_APPLICATION_CREDENTIALS to the service account key file path.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{}
	switch {
	case cfg.ProjectID != "":
		region := cfg.Region
		if region == "" {
			region = defaultRegion
		}
		cc.Project = cfg.ProjectID
		cc.Location = region
		cc.Backend = genai.BackendVertexAI
	case cfg.APIKey != "":
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	default:
		return nil, fmt.Errorf("gemini: project ID or API key required")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &GeminiClient{
		client:    client,
		modelName: model,
	}, nil
}

// Close releases resources held by the client.
func (g *GeminiClient) Close() error {
	return nil
}
