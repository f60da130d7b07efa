package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Repairer drives the parse, validate and repair loop around a Generator.
type Repairer struct {
	gen        Generator
	maxRepairs int
	timeout    time.Duration
}

func NewRepairer(gen Generator, maxRepairs int, timeout time.Duration) *Repairer {
	if maxRepairs < 0 {
		maxRepairs = 0
	}
	return &Repairer{gen: gen, maxRepairs: maxRepairs, timeout: timeout}
}

func (r *Repairer) MaxRepairs() int { return r.maxRepairs }

// Report describes what a Generate run did.
type Report struct {
	Calls   int
	Repairs int
	Errors  []string
}

// Generate calls the model and validates its output. Each invalid answer,
// including a timeout, triggers one repair call carrying the validation
// error, up to the repairer's limit. After that it returns
// ErrGenerationExhausted.
func Generate[T any](ctx context.Context, r *Repairer, req GenerateRequest, validate Validator[T]) (*T, Report, error) {
	var report Report
	base := req.UserPrompt
	var lastErr error

	for attempt := 0; attempt <= r.maxRepairs; attempt++ {
		if attempt > 0 {
			report.Repairs++
			req.UserPrompt = repairPrompt(base, lastErr)
		}
		report.Calls++

		raw, err := r.call(ctx, req)
		if err == nil {
			var out *T
			out, err = ExtractJSON(raw, validate)
			if err == nil {
				return out, report, nil
			}
		}

		if ctx.Err() != nil {
			return nil, report, fmt.Errorf("%w: %v", ErrGenerationExhausted, ctx.Err())
		}
		lastErr = err
		report.Errors = append(report.Errors, err.Error())
		log.Printf("Generation attempt %d/%d invalid: %v", attempt+1, r.maxRepairs+1, err)
	}

	return nil, report, fmt.Errorf("%w after %d repairs: %v", ErrGenerationExhausted, report.Repairs, lastErr)
}

func (r *Repairer) call(ctx context.Context, req GenerateRequest) (string, error) {
	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	raw, err := r.gen.Generate(callCtx, req)
	if err != nil {
		if errors.Is(err, ErrGenerationTimeout) || errors.Is(err, ErrGenerationMalformed) {
			return "", err
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", ErrGenerationTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrGenerationMalformed, err)
	}
	return raw, nil
}

func repairPrompt(base string, err error) string {
	return fmt.Sprintf("%s\n\nYour previous answer was rejected: %v\nReturn only one JSON object that follows the schema exactly.", base, err)
}
