package cascade

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the classification a raw scalar resolves to.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindTimestamp
	KindString
)

// Scalar regular expressions follow YAML 1.1's implicit resolution tables,
// with one deliberate narrowing: boolRe accepts only literal true/false
// (case-insensitive). yes/no/on/off fall through to string, matching a
// strict-boolean convention the downstream config consumer expects.
var (
	nullRe      = regexp.MustCompile(`^(~|[Nn]ull|NULL|)$`)
	boolRe      = regexp.MustCompile(`^(?i:true|false)$`)
	intRe       = regexp.MustCompile(`^[-+]?(0b[0-1_]+|0x[0-9a-fA-F_]+|0o?[0-7_]+|(0|[1-9][0-9_]*))$`)
	floatRe     = regexp.MustCompile(`^[-+]?(\.[0-9]+|[0-9][0-9_]*(\.[0-9_]*)?)([eE][-+]?[0-9]+)?$`)
	specialFlRe = regexp.MustCompile(`^[-+]?\.(inf|Inf|INF)$|^\.(nan|NaN|NAN)$`)
	timestampRe = regexp.MustCompile(`^[0-9]{4}-[0-9]{1,2}-[0-9]{1,2}([Tt]|[ \t]+)[0-9]{1,2}:[0-9]{2}:[0-9]{2}(\.[0-9]*)?(([ \t]*)Z|[-+][0-9]{1,2}(:[0-9]{2})?)?$|^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
)

// ResolveScalar classifies raw into a Kind and the Go value the Node
// Constructor should build for it. It never returns an error: an
// unrecognized shape always falls back to KindString.
func ResolveScalar(raw string) (Kind, Value) {
	switch {
	case nullRe.MatchString(raw):
		return KindNull, nil
	case boolRe.MatchString(raw):
		return KindBool, strings.EqualFold(raw, "true")
	case intRe.MatchString(raw):
		if v, ok := parseInt(raw); ok {
			return KindInt, v
		}
	case specialFlRe.MatchString(raw):
		return KindFloat, parseSpecialFloat(raw)
	case floatRe.MatchString(raw) && strings.ContainsAny(raw, ".eE"):
		if v, err := strconv.ParseFloat(strings.ReplaceAll(raw, "_", ""), 64); err == nil {
			return KindFloat, v
		}
	case timestampRe.MatchString(raw):
		if t, ok := parseTimestamp(raw); ok {
			return KindTimestamp, t
		}
	}
	return KindString, raw
}

func parseInt(raw string) (int64, bool) {
	clean := strings.ReplaceAll(raw, "_", "")
	sign := int64(1)
	if strings.HasPrefix(clean, "+") {
		clean = clean[1:]
	} else if strings.HasPrefix(clean, "-") {
		sign = -1
		clean = clean[1:]
	}
	var v int64
	var err error
	switch {
	case strings.HasPrefix(clean, "0x"):
		v, err = strconv.ParseInt(clean[2:], 16, 64)
	case strings.HasPrefix(clean, "0b"):
		v, err = strconv.ParseInt(clean[2:], 2, 64)
	case strings.HasPrefix(clean, "0o"):
		v, err = strconv.ParseInt(clean[2:], 8, 64)
	case strings.HasPrefix(clean, "0") && len(clean) > 1:
		v, err = strconv.ParseInt(clean, 8, 64)
	default:
		v, err = strconv.ParseInt(clean, 10, 64)
	}
	if err != nil {
		return 0, false
	}
	return sign * v, true
}

func parseSpecialFloat(raw string) float64 {
	switch {
	case strings.HasSuffix(raw, "nan") || strings.HasSuffix(raw, "NaN") || strings.HasSuffix(raw, "NAN"):
		v, _ := strconv.ParseFloat("NaN", 64)
		return v
	case strings.HasPrefix(raw, "-"):
		v, _ := strconv.ParseFloat("-Inf", 64)
		return v
	default:
		v, _ := strconv.ParseFloat("+Inf", 64)
		return v
	}
}

var timestampLayouts = []string{
	"2006-1-2T15:4:5.999999999Z07:00",
	"2006-1-2T15:4:5.999999999",
	"2006-1-2t15:4:5.999999999Z07:00",
	"2006-1-2 15:4:5.999999999",
	"2006-1-2",
	time.RFC3339,
	time.RFC3339Nano,
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
