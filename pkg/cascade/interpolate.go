package cascade

import (
	"fmt"
	"regexp"
)

// MaxVariableNesting is the hard limit on rescan passes over one scalar
// (spec §4.3, §6).
const MaxVariableNesting = 10

// varExprRe matches a single, non-nesting ${...} construct: NAME, an
// optional operator, and everything up to the next brace. Because
// the DEFAULT/MESSAGE class excludes '{'/'}', a construct containing a
// still-unresolved nested ${...} never matches here - interpolate resolves
// the innermost construct first and relies on rescanning to reach the
// outer one, exactly as spec §4.3 describes.
var varExprRe = regexp.MustCompile(`\$\{\s*([A-Za-z0-9_]+)\s*(:-|-|:\?|\?)?([^{}]*)\}`)

// Interpolate expands all ${...} forms in raw against env, rescanning the
// result until no construct remains or MaxVariableNesting passes have run.
// warn is invoked (not fataly) for each missed mandatory variable; a
// mandatory-variable miss always expands to the empty string, never aborts
// the pass (spec §4.3's soft-error policy).
func Interpolate(raw string, env VarEnv, warn func(message string)) (string, error) {
	s := raw
	for pass := 0; varExprRe.MatchString(s); pass++ {
		if pass >= MaxVariableNesting {
			return s, &VariableNestingTooDeepError{Scalar: raw, Limit: MaxVariableNesting}
		}
		s = varExprRe.ReplaceAllStringFunc(s, func(match string) string {
			groups := varExprRe.FindStringSubmatch(match)
			name, op, rest := groups[1], groups[2], groups[3]
			return resolveVar(env, name, op, rest, warn)
		})
	}
	return s, nil
}

func resolveVar(env VarEnv, name, op, rest string, warn func(string)) string {
	val, present := env[name]
	switch op {
	case "":
		return val
	case "-":
		if !present {
			return rest
		}
		return val
	case ":-":
		if !present || val == "" {
			return rest
		}
		return val
	case "?":
		if !present {
			warn(fmt.Sprintf("Missing mandatory variable %s: %s", name, rest))
			return ""
		}
		return val
	case ":?":
		if !present {
			warn(fmt.Sprintf("Missing mandatory variable %s: %s", name, rest))
			return ""
		}
		if val == "" {
			warn(fmt.Sprintf("Empty mandatory variable %s: %s", name, rest))
			return ""
		}
		return val
	default:
		return val
	}
}
