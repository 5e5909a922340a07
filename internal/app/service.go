// Package app ties input validation, the translator chain and the history
// store into the operations every surface exposes.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/comigor/tradutor-go/internal/history"
	"github.com/comigor/tradutor-go/internal/logger"
	"github.com/comigor/tradutor-go/internal/translate"
)

// CharLimit is the maximum accepted input length, in characters.
const CharLimit = 3000

// GenericErrorMessage is shown for failures outside validation.
const GenericErrorMessage = "Algo deu errado. Tente novamente mais tarde."

var (
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyText is returned for blank input.
	ErrEmptyText = fmt.Errorf("%w: digite um texto para traduzir", ErrInvalidInput)
	// ErrTooLong is returned for input over CharLimit characters.
	ErrTooLong = fmt.Errorf("%w: o texto excede o limite de %d caracteres", ErrInvalidInput, CharLimit)
	// ErrClearNotConfirmed is returned when clearing history without confirmation.
	ErrClearNotConfirmed = errors.New("clearing history requires confirmation")
	// ErrEntryNotFound is returned when no history entry has the requested id.
	ErrEntryNotFound = errors.New("history entry not found")
)

// Orchestrator resolves text through the translator chain.
type Orchestrator interface {
	Translate(ctx context.Context, text string) translate.Result
}

// Outcome is what a submit produces: the recorded entry and the tagged result.
type Outcome struct {
	Entry  history.Entry
	Result translate.Result
}

// Service is the application core. History is owned by the caller and
// injected here; nothing is global.
type Service struct {
	Orchestrator Orchestrator
	History      *history.Store
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// New creates a Service.
func New(orchestrator Orchestrator, store *history.Store) *Service {
	return &Service{Orchestrator: orchestrator, History: store, Clock: time.Now}
}

// Validate trims text and checks it against the length limits.
func Validate(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyText
	}
	if utf8.RuneCountInString(trimmed) > CharLimit {
		return "", ErrTooLong
	}
	return trimmed, nil
}

// Translate validates text, translates it and records the result. Validation
// errors are returned before any network call; translation failures are not
// errors and show up as a fallback result. Nothing is recorded once ctx is
// done.
func (s *Service) Translate(ctx context.Context, text string) (Outcome, error) {
	src, err := Validate(text)
	if err != nil {
		return Outcome{}, err
	}

	res := s.Orchestrator.Translate(ctx, src)
	entry := history.NewEntry(src, res.String(), s.now())
	switch {
	case ctx.Err() != nil:
		// the steps failed because the caller went away, not the services
		logger.L.Warn("request cancelled; translation not recorded", "error", ctx.Err())
	default:
		if err := s.History.Insert(entry); err != nil {
			logger.L.Error("failed to record translation in history", "error", err)
		}
	}

	logger.L.Info("translation completed", "kind", res.Kind.String(), "provider", res.Provider, "chars", utf8.RuneCountInString(src))
	return Outcome{Entry: entry, Result: res}, nil
}

// SearchHistory returns entries matching query, newest first.
func (s *Service) SearchHistory(query string) []history.Entry {
	return s.History.Search(query)
}

// Entry looks up a past translation for reopening.
func (s *Service) Entry(id string) (history.Entry, error) {
	e, ok := s.History.Get(id)
	if !ok {
		return history.Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return e, nil
}

// ClearHistory erases every entry once the user has confirmed.
func (s *Service) ClearHistory(confirmed bool) error {
	if !confirmed {
		return ErrClearNotConfirmed
	}
	if err := s.History.Clear(); err != nil {
		return err
	}
	logger.L.Info("history cleared")
	return nil
}

// UserMessage maps an error to the text shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
	case errors.Is(err, ErrClearNotConfirmed), errors.Is(err, ErrEntryNotFound):
		return err.Error()
	default:
		return GenericErrorMessage
	}
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}
