package llm

import (
	"context"
	"errors"
)

// ErrService wraps every chat-completion provider failure.
var ErrService = errors.New("generation service failure")

// RefusalAnswer is the exact sentence the model is instructed to emit when
// the retrieved context does not contain the answer. Clients match on it to
// tell "no information" apart from a service failure, so it must never
// change without a contract bump.
const RefusalAnswer = "The information is not available in the provided documents."

// Provider generates one grounded answer for a question and its retrieved
// context chunks. Single blocking call, no streaming, no retries.
type Provider interface {
	Generate(ctx context.Context, question string, contextChunks []string) (string, error)
}
