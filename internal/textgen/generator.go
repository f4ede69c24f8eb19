// Package textgen wraps the external text-generation API behind a small
// interface so the services can swap in fakes and fall back locally when the
// upstream is unavailable.
package textgen

import "context"

// Generator produces free text for a prompt. Implementations return
// common.ErrGenerationUnavailable when misconfigured, unreachable, or when
// the response cannot be parsed into text; callers are expected to recover
// with a local fallback rather than surface that error.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
