// Package llm defines the text generation contract used by the resume
// pipeline and the prompts sent through it.
package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// Generator sends one request made of ordered text parts and returns the
// model's textual reply.
type Generator interface {
	Generate(ctx context.Context, parts []string) (string, error)
}

var (
	// ErrNotConfigured indicates no provider key was supplied.
	ErrNotConfigured = errors.New("LLM provider is not configured")

	// ErrEmptyResponse indicates the provider returned no text.
	ErrEmptyResponse = errors.New("LLM returned an empty response")
)

// PromptHash returns a stable digest of the request parts for logging.
func PromptHash(parts []string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\n\n")))
	return hex.EncodeToString(sum[:])
}

// PromptChars returns the total length of the request parts.
func PromptChars(parts []string) int {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	return n
}
