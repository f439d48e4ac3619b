package dependabot

// Filter selects alerts client side. Empty lists match everything.
type Filter struct {
	States      []State
	MinSeverity Severity
	Scopes      []Scope
}

func (f Filter) Matches(a *Alert) bool {
	if len(f.States) > 0 && !contains(f.States, a.state) {
		return false
	}
	if len(f.Scopes) > 0 && !contains(f.Scopes, a.dependency.scope) {
		return false
	}
	if f.MinSeverity != "" && a.Severity().Rank() < f.MinSeverity.Rank() {
		return false
	}
	return true
}

func (f Filter) Apply(alerts []*Alert) []*Alert {
	res := make([]*Alert, 0, len(alerts))
	for _, a := range alerts {
		if f.Matches(a) {
			res = append(res, a)
		}
	}
	return res
}

func contains[T comparable](arr []T, v T) bool {
	for _, a := range arr {
		if a == v {
			return true
		}
	}
	return false
}
