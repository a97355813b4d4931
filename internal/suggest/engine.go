package suggest

// Engine evaluates a rule table against a Context.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with the built-in rules.
func NewEngine() *Engine {
	return NewEngineWithRules(DefaultRules())
}

// NewEngineWithRules creates an engine with a custom rule table.
func NewEngineWithRules(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Rules returns a copy of the engine's rule table.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Run evaluates every rule once, in table order, and returns the
// suggestions of the rules that fired. Duplicates are kept.
func (e *Engine) Run(ctx *Context) []Suggestion {
	if ctx == nil {
		ctx = &Context{}
	}
	out := make([]Suggestion, 0, len(e.rules))
	for _, rule := range e.rules {
		if rule.When == nil || !rule.When(ctx) {
			continue
		}
		out = append(out, rule.Suggestion.clone())
	}
	return out
}

// HighImpact returns the high-impact subset of suggestions, in order.
func HighImpact(suggestions []Suggestion) []Suggestion {
	out := make([]Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if s.Impact == ImpactHigh {
			out = append(out, s)
		}
	}
	return out
}

// Texts flattens suggestions to their text.
func Texts(suggestions []Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Text
	}
	return out
}

// MaxSavings returns the per-dimension maximum estimated savings across
// suggestions.
func MaxSavings(suggestions []Suggestion) Savings {
	var m Savings
	for _, s := range suggestions {
		m.Carbon = max(m.Carbon, s.EstimatedSavings.Carbon)
		m.Cost = max(m.Cost, s.EstimatedSavings.Cost)
		m.Energy = max(m.Energy, s.EstimatedSavings.Energy)
		m.Water = max(m.Water, s.EstimatedSavings.Water)
		m.Waste = max(m.Waste, s.EstimatedSavings.Waste)
	}
	return m
}
