package provider

import (
	"context"
	"time"
)

// Response is one model's answer attempt for a single question.
// Failed attempts carry Err and an empty Answer.
type Response struct {
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	Answer   string        `json:"answer,omitempty"`
	Err      string        `json:"error,omitempty"`
	Latency  time.Duration `json:"latency"`
}

// OK reports whether the attempt produced an answer.
func (r Response) OK() bool {
	return r.Err == ""
}

// Label identifies the response's source as "provider:model".
func (r Response) Label() string {
	return r.Provider + ":" + r.Model
}

// Client is a minimal model-query interface bound to one (provider, model)
// pair, allowing pluggable providers.
type Client interface {
	// Ask sends a question and returns the model's raw answer text.
	Ask(ctx context.Context, question string) (string, error)

	// Probe sends a tiny throwaway completion to check the model works.
	Probe(ctx context.Context) error

	// Name returns the provider identifier, e.g. "perplexity".
	Name() string

	// Model returns the model identifier, e.g. "sonar-pro".
	Model() string
}
