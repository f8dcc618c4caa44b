package rules

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

/*
Parse reads a rule in S/B notation, e.g. "S2,6,9/B4,6,8,9".

The two halves may appear in either order and counts may be written as
ranges ("S4-7/B5"). An empty half means no count qualifies.
*/
func Parse(rule string) (RuleTable, error) {
	halves := strings.Split(strings.TrimSpace(rule), "/")
	if len(halves) != 2 {
		return RuleTable{}, errors.Wrapf(ErrConfiguration, "[Parse] rule %q must have exactly one '/'", rule)
	}

	var (
		survive, spawn         []int
		seenSurvive, seenSpawn bool
	)
	for _, half := range halves {
		half = strings.TrimSpace(half)
		if half == "" {
			return RuleTable{}, errors.Wrapf(ErrConfiguration, "[Parse] rule %q has an empty half", rule)
		}
		counts, err := parseCounts(half[1:])
		if err != nil {
			return RuleTable{}, errors.Wrapf(err, "[Parse] rule %q", rule)
		}
		switch strings.ToUpper(half[:1]) {
		case "S":
			survive, seenSurvive = counts, true
		case "B":
			spawn, seenSpawn = counts, true
		default:
			return RuleTable{}, errors.Wrapf(ErrConfiguration, "[Parse] rule %q: unknown prefix %q", rule, half[:1])
		}
	}
	if !seenSurvive || !seenSpawn {
		return RuleTable{}, errors.Wrapf(ErrConfiguration, "[Parse] rule %q needs both S and B halves", rule)
	}

	return FromCounts(survive, spawn)
}

func parseCounts(list string) ([]int, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, nil
	}

	var counts []int
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		lo, hi, isRange := strings.Cut(item, "-")
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, errors.Wrapf(ErrConfiguration, "bad neighbor count %q", item)
		}
		to := from
		if isRange {
			if to, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, errors.Wrapf(ErrConfiguration, "bad neighbor count %q", item)
			}
		}
		if to < from {
			return nil, errors.Wrapf(ErrConfiguration, "inverted range %q", item)
		}
		for n := from; n <= to; n++ {
			counts = append(counts, n)
		}
	}
	return counts, nil
}
