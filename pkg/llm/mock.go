package llm

import (
	"context"
	"fmt"
)

// MockProvider is a testing implementation of Provider.
type MockProvider struct {
	ProviderName string
	Response     string
	Err          error
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
	HealthResult *Health
}

func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

func (m *MockProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CheckHealth(ctx context.Context) Health {
	if m.HealthResult != nil {
		return *m.HealthResult
	}
	if m.Err != nil {
		return Unhealthy("mock", m.Err)
	}
	return Healthy("mock")
}

// FailingMockProvider always fails.
type FailingMockProvider struct {
	Err error
}

func (f *FailingMockProvider) Name() string { return "failing" }

func (f *FailingMockProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return "", f.err()
}

func (f *FailingMockProvider) CheckHealth(ctx context.Context) Health {
	return Unhealthy("", f.err())
}

func (f *FailingMockProvider) err() error {
	if f.Err == nil {
		return fmt.Errorf("mock error")
	}
	return f.Err
}
