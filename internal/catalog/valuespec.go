package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueSpec is the parsed form of a parameter's legal value space.
//
// The raw "values" string in a catalog entry encodes one of three shapes,
// resolved in this priority order:
//
//  1. Exactly one "-" with both sides numeric: an inclusive numeric range,
//     e.g. "50-60".
//  2. Otherwise split on ",". More than one part: an enumerated set,
//     e.g. "on,off".
//  3. A single part: a sentinel, only that literal is valid, e.g. "reset".
//
// Specs are parsed once at catalog load, never per validation call.
type ValueSpec interface {
	// Accepts reports whether the supplied value is legal under this spec.
	Accepts(value string) bool

	// String returns the canonical raw form of the spec.
	String() string
}

// RangeSpec accepts numeric values within an inclusive [Min, Max] range.
type RangeSpec struct {
	Min float64
	Max float64
}

// Accepts reports whether value parses as a number within [Min, Max].
// Non-numeric values are rejected.
func (s RangeSpec) Accepts(value string) bool {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return false
	}
	return n >= s.Min && n <= s.Max
}

func (s RangeSpec) String() string {
	return fmt.Sprintf("%s-%s", formatNumber(s.Min), formatNumber(s.Max))
}

// EnumSpec accepts values that are members of a fixed set.
// Membership is exact string equality per member.
type EnumSpec struct {
	members map[string]struct{}
	raw     []string
}

// NewEnumSpec builds an enum spec from its member literals.
func NewEnumSpec(members []string) EnumSpec {
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	return EnumSpec{members: set, raw: members}
}

// Accepts reports whether value is a member of the set.
func (s EnumSpec) Accepts(value string) bool {
	_, ok := s.members[value]
	return ok
}

func (s EnumSpec) String() string {
	return strings.Join(s.raw, ",")
}

// Members returns the enum's member literals in declaration order.
func (s EnumSpec) Members() []string {
	return s.raw
}

// SentinelSpec accepts exactly one literal value.
type SentinelSpec struct {
	Value string
}

// Accepts reports whether value equals the sentinel literal.
func (s SentinelSpec) Accepts(value string) bool {
	return value == s.Value
}

func (s SentinelSpec) String() string {
	return s.Value
}

// ParseValueSpec interprets a raw value-space declaration.
//
// The range rule wins only when the string contains exactly one "-" and
// both sides parse as numbers; "on-off" falls through to the sentinel
// rule, and "-5" (leading minus, empty left side) is a sentinel too.
func ParseValueSpec(raw string) ValueSpec {
	if strings.Count(raw, "-") == 1 {
		idx := strings.Index(raw, "-")
		minPart := strings.TrimSpace(raw[:idx])
		maxPart := strings.TrimSpace(raw[idx+1:])

		minVal, minErr := strconv.ParseFloat(minPart, 64)
		maxVal, maxErr := strconv.ParseFloat(maxPart, 64)
		if minErr == nil && maxErr == nil {
			return RangeSpec{Min: minVal, Max: maxVal}
		}
	}

	parts := strings.Split(raw, ",")
	if len(parts) > 1 {
		return NewEnumSpec(parts)
	}

	return SentinelSpec{Value: raw}
}

// formatNumber renders a float without trailing zeros ("50" not "50.000000").
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
