// Package advisor turns a user's transactions into a prompt for a
// generative model and classifies the model's failures.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moneymind/internal/domain/transaction"
)

var ErrEmptyMessage = errors.New("message is required")

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TransactionSource lists every transaction of a user, most recent first.
type TransactionSource interface {
	ListAllByUser(ctx context.Context, userID int64) ([]*transaction.Transaction, error)
}

type ErrorKind int

const (
	KindUpstream ErrorKind = iota
	KindConfig
	KindBusy
)

// UserMessage is the text shown to the caller for this kind of failure.
func (k ErrorKind) UserMessage() string {
	switch k {
	case KindConfig:
		return "AI service configuration error. Please contact support."
	case KindBusy:
		return "AI service is temporarily busy. Please try again in a moment."
	default:
		return "Unable to generate AI response. Please try again."
	}
}

// GenerationError is a classified Generator failure.
type GenerationError struct {
	Kind ErrorKind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Classify maps a Generator error to an ErrorKind. Errors already classified
// by the adapter keep their kind; anything else is matched on its text.
func Classify(err error) ErrorKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindBusy
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"):
		return KindConfig
	case strings.Contains(msg, "quota"), strings.Contains(msg, "rate limit"), strings.Contains(msg, "429"):
		return KindBusy
	default:
		return KindUpstream
	}
}

// Advice is a model reply together with the figures it was based on.
type Advice struct {
	Message string
	Summary Summary
}

type Service struct {
	txs     TransactionSource
	gen     Generator
	timeout time.Duration
}

// NewService bounds every model call by timeout; zero disables the bound.
func NewService(txs TransactionSource, gen Generator, timeout time.Duration) *Service {
	return &Service{txs: txs, gen: gen, timeout: timeout}
}

// Advise answers message using the caller's financial summary. Generator
// failures are returned as *GenerationError.
func (s *Service) Advise(ctx context.Context, userID int64, message string) (*Advice, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	txs, err := s.txs.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	summary := Summarize(txs)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.gen.Generate(ctx, BuildPrompt(message, summary))
	if err != nil {
		return nil, &GenerationError{Kind: Classify(err), Err: err}
	}

	return &Advice{Message: reply, Summary: summary}, nil
}
