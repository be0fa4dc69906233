package llm

import (
	"context"
	"sync/atomic"
	"time"
)

// Completer turns a single prompt into text. It owns the system prompt and
// sampling settings, and bounds every call with a timeout that can be
// changed while the server runs.
type Completer struct {
	provider    Provider
	system      string
	maxTokens   int
	temperature float64
	timeout     atomic.Int64
}

type CompleterOptions struct {
	System      string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func NewCompleter(p Provider, opts CompleterOptions) *Completer {
	c := &Completer{
		provider:    p,
		system:      opts.System,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}
	c.SetTimeout(opts.Timeout)
	return c
}

// Complete makes exactly one provider call. Retrying is left to callers,
// which normally prefer a fallback over a second slow attempt.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if d := c.Timeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	resp, err := c.provider.Generate(ctx, Request{
		System:      c.system,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *Completer) SetTimeout(d time.Duration) {
	c.timeout.Store(int64(d))
}

func (c *Completer) Timeout() time.Duration {
	return time.Duration(c.timeout.Load())
}

func (c *Completer) ModelID() string {
	return c.provider.ModelID()
}
