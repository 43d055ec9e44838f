// Package insights generates audience-aware policy narratives for a region
// through a language model, with trend tags and field actions attached.
package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Paldeepak079/AadharIQ/metrics"
	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/store"
)

const (
	keySummaryRunes = 50
	emptyInsight    = "Insight could not be generated."

	FallbackInsight      = "AI Insight Engine is currently adjusting parameters. Please try again in 30 seconds."
	FallbackInsightHindi = "एआई अंतर्दृष्टि इंजन वर्तमान में मापदंडों को समायोजित कर रहा है। कृपया 30 सेकंड में पुन: प्रयास करें।"
)

var fallbackSteps = []string{"Ensure internet connectivity is stable", "Verify API key limits", "Retry regional sync"}

// ErrInvalidRequest marks a request the engine refuses to run.
var ErrInvalidRequest = errors.New("invalid insight request")

// Model produces text for a prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Engine struct {
	model   Model
	cache   store.InsightCache
	archive store.InsightArchive
	metrics *metrics.Metrics
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time
}

type Option func(*Engine)

// WithArchive records every generated insight.
func WithArchive(a store.InsightArchive) Option {
	return func(e *Engine) { e.archive = a }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTimeout bounds each model call.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// NewEngine builds an engine. model may be nil, in which case every request
// gets the fallback response.
func NewEngine(model Model, cache store.InsightCache, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		model:  model,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// CacheKey is region-audience-language followed by the first 50 characters
// of the summary.
func CacheKey(req models.InsightRequest) string {
	summary := []rune(req.DataSummary)
	if len(summary) > keySummaryRunes {
		summary = summary[:keySummaryRunes]
	}
	return fmt.Sprintf("%s-%s-%s-%s", req.Region, req.Audience, req.Language, string(summary))
}

// Normalize fills defaults and validates the request.
func Normalize(req models.InsightRequest) (models.InsightRequest, error) {
	if req.Region == "" {
		req.Region = models.AllIndia
	}
	if req.Audience == "" {
		req.Audience = models.AudiencePolicymaker
	}
	if req.Language == "" {
		req.Language = models.English
	}
	if !req.Audience.Valid() {
		return req, fmt.Errorf("%w: unknown audience %q", ErrInvalidRequest, req.Audience)
	}
	if !req.Language.Valid() {
		return req, fmt.Errorf("%w: unknown language %q", ErrInvalidRequest, req.Language)
	}
	if req.DataSummary == "" {
		return req, fmt.Errorf("%w: data_summary is required", ErrInvalidRequest)
	}
	return req, nil
}

// Generate returns a cached insight when one exists, otherwise asks the
// model. Model failures produce the fallback response, which is not cached.
func (e *Engine) Generate(ctx context.Context, req models.InsightRequest) (*models.InsightResponse, error) {
	req, err := Normalize(req)
	if err != nil {
		return nil, err
	}
	key := CacheKey(req)

	if cached, ok, err := e.cache.Get(ctx, key); err != nil {
		e.logger.Warn("Insight cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		e.logger.Debug("Insight cache hit", zap.String("key", key))
		e.record(req, "cached", 0)
		return cached, nil
	}

	tags := DetectTrends(req.DataSummary)
	steps := ActionableSteps(tags, req.Region)

	start := e.now()
	insight, hindi, err := e.generate(ctx, req, tags)
	took := e.now().Sub(start)
	if err != nil {
		e.logger.Error("Insight generation failed",
			zap.String("region", req.Region),
			zap.String("audience", string(req.Audience)),
			zap.Error(err))
		e.record(req, "fallback", took)
		return e.fallback(key), nil
	}

	resp := &models.InsightResponse{
		Insight:         insight,
		InsightHindi:    hindi,
		Tags:            tags,
		ActionableSteps: steps,
		Timestamp:       e.now().UnixMilli(),
		CacheKey:        key,
	}
	if err := e.cache.Set(ctx, key, resp); err != nil {
		e.logger.Warn("Insight cache write failed", zap.String("key", key), zap.Error(err))
	}
	e.archiveRecord(ctx, req, resp)
	e.record(req, "generated", took)
	return resp, nil
}

func (e *Engine) generate(ctx context.Context, req models.InsightRequest, tags []models.TrendTag) (string, string, error) {
	if e.model == nil {
		return "", "", errors.New("no language model configured")
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	insight, err := e.model.Generate(ctx, BuildPrompt(req, tags))
	if err != nil {
		return "", "", fmt.Errorf("generate insight: %w", err)
	}
	if insight == "" {
		insight = emptyInsight
	}

	var hindi string
	if req.Language == models.Hindi {
		hindi, err = e.model.Generate(ctx, TranslationPrompt(insight))
		if err != nil {
			return "", "", fmt.Errorf("translate insight: %w", err)
		}
	}
	return insight, hindi, nil
}

func (e *Engine) fallback(key string) *models.InsightResponse {
	return &models.InsightResponse{
		Insight:         FallbackInsight,
		InsightHindi:    FallbackInsightHindi,
		Tags:            []models.TrendTag{},
		ActionableSteps: append([]string(nil), fallbackSteps...),
		Timestamp:       e.now().UnixMilli(),
		CacheKey:        key,
		Fallback:        true,
	}
}

func (e *Engine) archiveRecord(ctx context.Context, req models.InsightRequest, resp *models.InsightResponse) {
	if e.archive == nil {
		return
	}
	rec := models.InsightRecord{
		Region:    req.Region,
		Audience:  req.Audience,
		Language:  req.Language,
		Summary:   req.DataSummary,
		Response:  *resp,
		CreatedAt: resp.Timestamp,
	}
	if err := e.archive.Record(ctx, rec); err != nil {
		e.logger.Warn("Insight archive write failed", zap.Error(err))
	}
}

func (e *Engine) record(req models.InsightRequest, outcome string, took time.Duration) {
	if e.metrics != nil {
		e.metrics.RecordInsight(string(req.Audience), outcome, took)
	}
}

// ClearCache drops every cached insight.
func (e *Engine) ClearCache(ctx context.Context) error {
	return e.cache.Clear(ctx)
}

func (e *Engine) CacheStats(ctx context.Context) (models.CacheStats, error) {
	return e.cache.Stats(ctx)
}

// History lists archived insights. It returns store.ErrNotFound when no
// archive is configured.
func (e *Engine) History(ctx context.Context, region string, limit int) ([]models.InsightRecord, error) {
	if e.archive == nil {
		return nil, fmt.Errorf("insight archive: %w", store.ErrNotFound)
	}
	return e.archive.History(ctx, region, limit)
}
