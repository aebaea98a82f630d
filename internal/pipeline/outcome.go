package pipeline

// Kind tags how the formatter arrived at its lines.
type Kind int

const (
	StructuredHit Kind = iota + 1
	StructuredMiss
	ProviderHit
	ProviderEmpty
	ProviderUnusable
	ProviderFailure
	Crash
)

func (k Kind) String() string {
	switch k {
	case StructuredHit:
		return "structured_hit"
	case StructuredMiss:
		return "structured_miss"
	case ProviderHit:
		return "provider_hit"
	case ProviderEmpty:
		return "provider_empty"
	case ProviderUnusable:
		return "provider_unusable"
	case ProviderFailure:
		return "provider_failure"
	case Crash:
		return "crash"
	default:
		return "unknown"
	}
}

// Outcome is the result of formatting one query. Lines is never empty for
// an outcome returned by Formatter.Format.
type Outcome struct {
	Kind  Kind
	Lines []string
	Err   error
}

// Failed reports whether Lines hold a sentinel message rather than results.
func (o Outcome) Failed() bool {
	switch o.Kind {
	case StructuredHit, ProviderHit:
		return false
	default:
		return true
	}
}
