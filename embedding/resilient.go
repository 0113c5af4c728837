package embedding

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"skill_barter/logger"
)

// ResilientOptions 控制 embedding 调用的重试和限速
type ResilientOptions struct {
	MaxRetries int     // 负数表示不重试
	RatePerSec float64 // 0 表示不限速

	// 以下为测试用，零值使用默认
	InitialInterval time.Duration
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

type resilientProvider struct {
	base    Provider
	opts    ResilientOptions
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// NewResilient 为 provider 增加限速、指数退避重试以及熔断
func NewResilient(base Provider, opts ResilientOptions) Provider {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 200 * time.Millisecond
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 30 * time.Second
	}

	failures := opts.BreakerFailures
	r := &resilientProvider{
		base: base,
		opts: opts,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "embedding",
			Timeout: opts.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			},
		}),
	}
	if opts.RatePerSec > 0 {
		burst := int(opts.RatePerSec)
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), burst)
	}
	return r
}

func (r *resilientProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	out, err := r.breaker.Execute(func() (interface{}, error) {
		return r.embedWithRetry(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	return out.([]float32), nil
}

func (r *resilientProvider) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	attempt := 0
	op := func() error {
		attempt++
		v, err := r.base.Embed(ctx, text)
		if err != nil {
			if !isRetryable(err) {
				return backoff.Permanent(err)
			}
			logger.Debug("Embedding attempt failed", "attempt", attempt, "error", err)
			return err
		}
		vec = v
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = r.opts.InitialInterval
	eb.MaxInterval = 2 * time.Second
	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(r.opts.MaxRetries)), ctx)

	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return vec, nil
}

// isRetryable 只重试限流 / 5xx / 网络错误，4xx 直接返回
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}
