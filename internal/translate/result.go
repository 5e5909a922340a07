// Package translate resolves English text to Portuguese through an ordered
// chain of external translators, falling back to the original text.
package translate

// Language pair served by every translator.
const (
	SourceLang = "en"
	TargetLang = "pt"
)

// WarningMarker opens the rendering of a fallback result.
const WarningMarker = "⚠️ Não foi possível traduzir automaticamente. Texto original abaixo:"

// Kind tells a real translation apart from the untranslated fallback.
type Kind int

const (
	// Translated means a translator in the chain produced Text.
	Translated Kind = iota
	// FallbackOriginal means every translator failed and Text is the input.
	FallbackOriginal
)

func (k Kind) String() string {
	switch k {
	case Translated:
		return "translated"
	case FallbackOriginal:
		return "fallback_original"
	default:
		return "unknown"
	}
}

// Result is the outcome of Orchestrator.Translate.
type Result struct {
	Kind     Kind
	Text     string
	Provider string // empty for FallbackOriginal
}

// IsFallback reports whether no translator succeeded.
func (r Result) IsFallback() bool {
	return r.Kind == FallbackOriginal
}

// String renders the user-visible text.
func (r Result) String() string {
	if r.Kind == FallbackOriginal {
		return WarningMarker + "\n\n" + r.Text
	}
	return r.Text
}
