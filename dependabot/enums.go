package dependabot

// State of an alert.
type State string

const (
	StateDismissed State = "dismissed"
	StateFixed     State = "fixed"
	StateOpen      State = "open"
)

// States lists every known state.
var States = []State{StateDismissed, StateFixed, StateOpen}

// Scope tells whether the vulnerable dependency is used at development time
// or at runtime.
type Scope string

const (
	ScopeDevelopment Scope = "development"
	ScopeRuntime     Scope = "runtime"
)

var Scopes = []Scope{ScopeDevelopment, ScopeRuntime}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities is ordered from least to most severe.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Rank orders severities, low is 1 and critical is 4.
func (s Severity) Rank() int {
	for i, known := range Severities {
		if s == known {
			return i + 1
		}
	}
	return 0
}

// ParseState matches s case-sensitively against the known states.
func ParseState(s string) (State, error) {
	return parseEnum("state", s, States)
}

func ParseScope(s string) (Scope, error) {
	return parseEnum("scope", s, Scopes)
}

func ParseSeverity(s string) (Severity, error) {
	return parseEnum("severity", s, Severities)
}

func parseEnum[T ~string](field, value string, known []T) (T, error) {
	for _, k := range known {
		if string(k) == value {
			return k, nil
		}
	}
	var zero T
	return zero, &UnknownEnumValueError{Field: field, Value: value}
}
