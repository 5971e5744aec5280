// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package service selects the AI provider once at startup and exposes it to
// the rest of the application.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jllopis/rulesetgen/pkg/config"
	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/llm"
)

// NoProvider is the provider name reported by an uninitialized Service.
const NoProvider = "none"

// ErrNotInitialized is the message returned by an uninitialized Service.
const ErrNotInitialized = "provider not initialized"

// Service wraps the selected provider. The zero value is an uninitialized
// service: every generation fails and health reports unavailable.
type Service struct {
	provider  llm.Provider
	healthTTL time.Duration
	logger    *slog.Logger
	now       func() time.Time

	mu         sync.RWMutex
	lastHealth llm.Health
	lastCheck  time.Time
}

type options struct {
	registry Registry
	provider llm.Provider
	logger   *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithRegistry replaces the built-in provider registry.
func WithRegistry(r Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithProvider bypasses selection and wraps p directly.
func WithProvider(p llm.Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New selects exactly one provider from cfg.Provider. An unsupported
// selector yields a ConfigurationError and a nil Service.
func New(ctx context.Context, cfg config.LLMConfig, opts ...Option) (*Service, error) {
	o := options{registry: defaultRegistry, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	p := o.provider
	if p == nil {
		ctor, ok := o.registry.Lookup(cfg.Provider)
		if !ok {
			return nil, errors.Configuration(fmt.Sprintf("unsupported AI provider: %q", cfg.Provider), nil).
				WithContext("supported", o.registry.Selectors())
		}
		var err error
		p, err = ctor(ctx, cfg, o.logger)
		if err != nil {
			if _, ok := errors.As(err); ok {
				return nil, err
			}
			return nil, errors.Configuration("failed to initialize AI provider", err).
				WithContext("provider", normalize(cfg.Provider))
		}
	}

	s := &Service{
		provider:  p,
		healthTTL: cfg.HealthTTL,
		logger:    o.logger,
		now:       time.Now,
	}
	s.logger.Info("ai provider initialized", "provider", p.Name(), "model", s.Model())
	return s, nil
}

// ProviderName returns the selected provider's name, or "none".
func (s *Service) ProviderName() string {
	if s == nil || s.provider == nil {
		return NoProvider
	}
	return s.provider.Name()
}

// Model returns the provider's model when it exposes one.
func (s *Service) Model() string {
	if s == nil || s.provider == nil {
		return ""
	}
	if m, ok := s.provider.(interface{ Model() string }); ok {
		return m.Model()
	}
	return ""
}

// GenerateRuleset sends prompt to the provider. Provider errors are
// returned unchanged.
func (s *Service) GenerateRuleset(ctx context.Context, prompt string) (string, error) {
	if s == nil || s.provider == nil {
		return "", errors.Provider(NoProvider, ErrNotInitialized, nil)
	}
	return s.provider.GenerateContent(ctx, prompt)
}

// CheckHealth probes the provider, reusing the last result for healthTTL.
func (s *Service) CheckHealth(ctx context.Context) llm.Health {
	if s == nil || s.provider == nil {
		return llm.Health{
			Available: false,
			Status:    llm.StatusUnhealthy,
			Error:     ErrNotInitialized,
			CheckedAt: time.Now(),
		}
	}
	if s.healthTTL <= 0 {
		return s.probe(ctx)
	}

	s.mu.RLock()
	if s.fresh() {
		result := s.lastHealth
		s.mu.RUnlock()
		return result
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if s.fresh() {
		return s.lastHealth
	}

	s.lastHealth = s.probe(ctx)
	s.lastCheck = s.clock()
	return s.lastHealth
}

func (s *Service) fresh() bool {
	return !s.lastCheck.IsZero() && s.clock().Sub(s.lastCheck) < s.healthTTL
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func (s *Service) probe(ctx context.Context) llm.Health {
	h := s.provider.CheckHealth(ctx)
	if !h.Available {
		s.log().Warn("ai provider unhealthy", "provider", s.provider.Name(), "error", h.Error)
	}
	return h
}

func (s *Service) log() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}
