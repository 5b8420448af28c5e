package payrexx

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/payrexx-gateway/internal/application"
	"github.com/payrexx-gateway/internal/config"
	"github.com/payrexx-gateway/internal/domain"
)

// RetryClient wraps a GatewayClient with bounded retries. Only transient
// failures (5xx, timeouts) are retried; 4xx answers are final.
type RetryClient struct {
	inner      application.GatewayClient
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryClient(inner application.GatewayClient, cfg config.RetryConfig) application.GatewayClient {
	return &RetryClient{
		inner:      inner,
		baseDelay:  time.Duration(cfg.BaseDelay) * time.Second,
		maxRetries: int(cfg.MaxRetries),
	}
}

func (r *RetryClient) CreateGateway(ctx context.Context, req application.CreateGatewayRequest) (*domain.PaymentSession, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*domain.PaymentSession, error) {
			return r.inner.CreateGateway(ctx, req)
		},
	)
}

func (r *RetryClient) GetGateway(ctx context.Context, id int) (*domain.PaymentSession, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*domain.PaymentSession, error) {
			return r.inner.GetGateway(ctx, id)
		},
	)
}

func (r *RetryClient) DeleteGateway(ctx context.Context, id int) error {
	_, err := retry(
		r,
		ctx,
		func(ctx context.Context) (*struct{}, error) {
			return &struct{}{}, r.inner.DeleteGateway(ctx, id)
		},
	)
	return err
}

func (r *RetryClient) GetTransaction(ctx context.Context, id int) (*domain.ProviderTransaction, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*domain.ProviderTransaction, error) {
			return r.inner.GetTransaction(ctx, id)
		},
	)
}

func (r *RetryClient) CaptureTransaction(ctx context.Context, id int) (*domain.ProviderTransaction, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*domain.ProviderTransaction, error) {
			return r.inner.CaptureTransaction(ctx, id)
		},
	)
}

// Generic retry helper
func retry[T any](r *RetryClient, ctx context.Context, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < r.maxRetries-1 {
			time.Sleep(r.backoff(attempt))
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

// Helper: to check retryable errors
func isRetryable(err error) bool {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.StatusCode >= 500
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return true
}

// Backoff calculation with exponential delay and jitter
func (r *RetryClient) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)

	jitter := time.Duration(rand.Intn(1000)) * time.Millisecond

	return base + jitter
}
