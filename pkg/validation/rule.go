package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Canonical rule kinds. Numeric bounds and length limits encode their
// threshold in Params["value"], pattern rules keep the expression in
// Params["pattern"] and membership rules list values in Params["values"].
const (
	RuleRequired  = "required"
	RuleNumeric   = "numeric"
	RuleMin       = "min"
	RuleMax       = "max"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
	RuleIn        = "in"
)

// Rule is a single constraint applied to a state path. Params are strings to
// keep definitions and JSON snapshots stable.
type Rule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Param returns a parameter value or "".
func (r Rule) Param(name string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params[name]
}

// String renders the rule in the compact "kind:param" notation ParseRule
// accepts.
func (r Rule) String() string {
	switch r.Kind {
	case RulePattern:
		return r.Kind + ":" + r.Param("pattern")
	case RuleIn:
		return r.Kind + ":" + r.Param("values")
	}
	if value := r.Param("value"); value != "" {
		return r.Kind + ":" + value
	}
	return r.Kind
}

// Required marks a path as mandatory.
func Required() Rule { return Rule{Kind: RuleRequired} }

// Numeric requires a number or a numeric string.
func Numeric() Rule { return Rule{Kind: RuleNumeric} }

// Min sets an inclusive lower bound for numeric values.
func Min(value float64) Rule { return valueRule(RuleMin, formatFloat(value)) }

// Max sets an inclusive upper bound for numeric values.
func Max(value float64) Rule { return valueRule(RuleMax, formatFloat(value)) }

// MinLength sets the minimum string length.
func MinLength(n int) Rule { return valueRule(RuleMinLength, strconv.Itoa(n)) }

// MaxLength sets the maximum string length.
func MaxLength(n int) Rule { return valueRule(RuleMaxLength, strconv.Itoa(n)) }

// Pattern requires strings to match the regular expression.
func Pattern(expr string) Rule {
	return Rule{Kind: RulePattern, Params: map[string]string{"pattern": expr}}
}

// In restricts values to the provided set. Members are stored comma
// separated; commas and backslashes inside a member are escaped with a
// backslash.
func In(values ...string) Rule {
	escaped := make([]string, len(values))
	for idx, value := range values {
		escaped[idx] = valueEscaper.Replace(value)
	}
	return Rule{Kind: RuleIn, Params: map[string]string{"values": strings.Join(escaped, ",")}}
}

var valueEscaper = strings.NewReplacer(`\`, `\\`, ",", `\,`)

// Values returns the membership list of an In rule.
func (r Rule) Values() []string {
	raw := r.Param("values")
	if raw == "" {
		return nil
	}
	var (
		out     []string
		current strings.Builder
		escaped bool
	)
	flush := func() {
		if trimmed := strings.TrimSpace(current.String()); trimmed != "" {
			out = append(out, trimmed)
		}
		current.Reset()
	}
	for _, ch := range raw {
		switch {
		case escaped:
			current.WriteRune(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == ',':
			flush()
		default:
			current.WriteRune(ch)
		}
	}
	flush()
	return out
}

func valueRule(kind, value string) Rule {
	return Rule{Kind: kind, Params: map[string]string{"value": value}}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// ParseRule reads the compact "kind" / "kind:param" notation used by schema
// definition files, e.g. "required", "maxLength:255", "in:draft,published".
func ParseRule(raw string) (Rule, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Rule{}, fmt.Errorf("validation: empty rule")
	}
	kind, param, hasParam := strings.Cut(trimmed, ":")
	kind = strings.TrimSpace(kind)

	switch kind {
	case RuleRequired, RuleNumeric:
		return Rule{Kind: kind}, nil
	case RuleMin, RuleMax:
		value, err := strconv.ParseFloat(strings.TrimSpace(param), 64)
		if !hasParam || err != nil {
			return Rule{}, fmt.Errorf("validation: rule %q requires a numeric parameter", kind)
		}
		return valueRule(kind, formatFloat(value)), nil
	case RuleMinLength, RuleMaxLength:
		value, err := strconv.Atoi(strings.TrimSpace(param))
		if !hasParam || err != nil || value < 0 {
			return Rule{}, fmt.Errorf("validation: rule %q requires a non-negative integer parameter", kind)
		}
		return valueRule(kind, strconv.Itoa(value)), nil
	case RulePattern:
		if !hasParam || param == "" {
			return Rule{}, fmt.Errorf("validation: rule %q requires an expression", kind)
		}
		return Pattern(param), nil
	case RuleIn:
		if !hasParam {
			return Rule{}, fmt.Errorf("validation: rule %q requires values", kind)
		}
		return Rule{Kind: RuleIn, Params: map[string]string{"values": param}}, nil
	default:
		rule := Rule{Kind: kind}
		if hasParam {
			rule.Params = map[string]string{"value": param}
		}
		return rule, nil
	}
}

// Rules maps state paths to their constraints.
type Rules map[string][]Rule

// Merge returns a new set holding r overlaid with other. A path present in
// both takes other's rules.
func (r Rules) Merge(other Rules) Rules {
	out := make(Rules, len(r)+len(other))
	for path, rules := range r {
		out[path] = rules
	}
	for path, rules := range other {
		out[path] = rules
	}
	return out
}

// Only returns the subset of rules for the provided paths.
func (r Rules) Only(paths ...string) Rules {
	out := make(Rules, len(paths))
	for _, path := range paths {
		if rules, ok := r[path]; ok {
			out[path] = rules
		}
	}
	return out
}

// Paths returns the rule paths sorted lexically.
func (r Rules) Paths() []string {
	paths := make([]string, 0, len(r))
	for path := range r {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Has reports whether the path carries a rule of the given kind.
func (r Rules) Has(path, kind string) bool {
	for _, rule := range r[path] {
		if rule.Kind == kind {
			return true
		}
	}
	return false
}
