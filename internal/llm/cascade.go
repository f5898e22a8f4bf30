package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// GenerationAttempt records the outcome of one (credential, model) pair.
// Credentials are referred to by index only; secret values never leave the
// cascade.
type GenerationAttempt struct {
	CredentialIndex int    `json:"credential_index"`
	Model           string `json:"model"`
	Succeeded       bool   `json:"succeeded"`
	Err             string `json:"error,omitempty"`
}

// GenerationResult is the outcome of a successful cascade run: the generated
// text, the pair that served it, and the full attempt trail leading there.
type GenerationResult struct {
	Text            string              `json:"text"`
	Model           string              `json:"model"`
	CredentialIndex int                 `json:"credential_index"`
	Attempts        []GenerationAttempt `json:"attempts"`
	Latency         time.Duration       `json:"latency"`
}

// ExhaustedError is the terminal failure after every (credential, model)
// pair has been attempted exactly once. It carries the attempt trail for
// diagnostics and is surfaced to the user as a renderable result, not a
// process-fatal condition.
type ExhaustedError struct {
	Provider string
	Attempts []GenerationAttempt
}

func (e *ExhaustedError) Error() string {
	tried := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		tried[i] = fmt.Sprintf("key[%d]/%s", a.CredentialIndex, a.Model)
	}
	return fmt.Sprintf("llm: all %s attempts exhausted (%d): %s",
		e.Provider, len(e.Attempts), strings.Join(tried, ", "))
}

// Cascade tries an ordered credential × model grid against a TextGenerator
// until one attempt succeeds or the grid is exhausted. Iteration is
// credential-outer, model-inner: a bad key fails fast across every model,
// and each subsequent key starts again from the preferred model. Each pair
// is attempted at most once, synchronously, with no backoff, so the total
// attempt count is known in advance: len(credentials) * len(models).
type Cascade struct {
	gen         TextGenerator
	credentials []string
	models      []string
}

// NewCascade builds a cascade over the given grid. Both sequences must be
// non-empty and are tried in the order given.
func NewCascade(gen TextGenerator, credentials, models []string) (*Cascade, error) {
	if gen == nil {
		return nil, fmt.Errorf("llm: nil generator")
	}
	if len(credentials) == 0 {
		return nil, ErrNoCredentials
	}
	if len(models) == 0 {
		return nil, ErrNoModels
	}
	return &Cascade{gen: gen, credentials: credentials, models: models}, nil
}

// Size returns the total number of (credential, model) pairs.
func (c *Cascade) Size() int { return len(c.credentials) * len(c.models) }

// Models returns the model fallback order.
func (c *Cascade) Models() []string {
	out := make([]string, len(c.models))
	copy(out, c.models)
	return out
}

// AttemptFunc is invoked after every attempt when passed to Generate; hosts
// use it to stream progress. It must not block for long.
type AttemptFunc func(GenerationAttempt)

// Generate runs the cascade. The first successful attempt short-circuits and
// its text is returned immediately. Every failure is recorded and the next
// pair is tried; a single bad credential or unavailable model never aborts
// the run. When the whole grid fails the returned error is an
// *ExhaustedError. Cancellation is honored between attempts — no attempt is
// held open beyond its single capability call.
func (c *Cascade) Generate(ctx context.Context, prompt string, onAttempt AttemptFunc) (*GenerationResult, error) {
	start := time.Now()
	attempts := make([]GenerationAttempt, 0, c.Size())

	for ci, credential := range c.credentials {
		for _, model := range c.models {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			text, err := c.gen.Generate(ctx, credential, model, prompt)
			attempt := GenerationAttempt{CredentialIndex: ci, Model: model}
			if err == nil {
				attempt.Succeeded = true
				attempts = append(attempts, attempt)
				if onAttempt != nil {
					onAttempt(attempt)
				}
				return &GenerationResult{
					Text:            text,
					Model:           model,
					CredentialIndex: ci,
					Attempts:        attempts,
					Latency:         time.Since(start),
				}, nil
			}

			attempt.Err = err.Error()
			attempts = append(attempts, attempt)
			if onAttempt != nil {
				onAttempt(attempt)
			}
			log.Printf("llm/cascade: %s key[%d]/%s failed: %v, trying next",
				c.gen.Name(), ci, model, err)
		}
	}

	return nil, &ExhaustedError{Provider: c.gen.Name(), Attempts: attempts}
}
