package llm

import (
	"context"
	"time"

	"homeschool_hub_backend/pkg/logger"
	"homeschool_hub_backend/pkg/monitoring"
	"homeschool_hub_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// LoggingProvider is a decorator that logs, measures and traces every request.
type LoggingProvider struct {
	inner Provider
}

func WithLogging(p Provider) Provider {
	return &LoggingProvider{inner: p}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	purpose := PurposeFrom(ctx)
	model := l.inner.ModelID()

	ctx, span := tracing.StartSpan(ctx, "llm.generate",
		attribute.String("llm.model", model),
		attribute.String("llm.purpose", purpose),
	)
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	elapsed := time.Since(start)
	tracing.EndSpan(span, err)

	status := "success"
	if err != nil {
		status = "error"
	}
	monitoring.AIRequestCounter.WithLabelValues(model, purpose, status).Inc()
	monitoring.AIRequestDuration.WithLabelValues(model, purpose).Observe(elapsed.Seconds())

	fields := []zap.Field{
		zap.String("model", model),
		zap.String("purpose", purpose),
		zap.Duration("latency", elapsed),
		zap.Int("promptChars", requestChars(req)),
	}
	if err != nil {
		logger.Log.Warn("LLM request failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	logger.Log.Debug("LLM request completed", append(fields,
		zap.String("servedBy", resp.Model),
		zap.String("stopReason", resp.StopReason),
		zap.Int("inputTokens", resp.Usage.InputTokens),
		zap.Int("outputTokens", resp.Usage.OutputTokens),
	)...)
	if resp.StopReason == "max_tokens" {
		logger.Log.Warn("LLM response truncated at max tokens", fields...)
	}
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func requestChars(req Request) int {
	n := len(req.System)
	for _, m := range req.Messages {
		n += len(m.Content)
	}
	return n
}
