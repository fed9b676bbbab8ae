package subscription

import (
	"strconv"
	"strings"
)

// parseAttribute parses the structured subscription attribute grammar:
//
//	<interval>_<count>[_<addOnKind>[_<count>_<addOnKind>]...]
//
// Tokens are lowercase and joined by underscores. A count token immediately
// preceding a kind token overrides the base count for that kind; otherwise
// the kind inherits the base count. Any grammar violation yields nil; the
// caller falls back to keyword detection.
func (d *Detector) parseAttribute(raw string) *Signal {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(raw)), "_")
	if len(parts) < 3 {
		d.logger.Debug("attribute rejected: too few tokens", "value", raw)
		return nil
	}

	interval := parts[0]
	switch interval {
	case IntervalMonthly, IntervalQuarterly, IntervalAnnual:
	default:
		d.logger.Debug("attribute rejected: invalid interval", "interval", interval)
		return nil
	}

	base, err := strconv.Atoi(parts[1])
	if err != nil || base <= 0 {
		d.logger.Debug("attribute rejected: invalid count", "count", parts[1])
		return nil
	}

	var addOns []string
	counts := make(map[string]int)
	override := 0

	for _, tok := range parts[2:] {
		if n, err := strconv.Atoi(tok); err == nil {
			if n <= 0 || override != 0 {
				d.logger.Debug("attribute rejected: bad add-on count", "token", tok)
				return nil
			}
			override = n
			continue
		}
		if !d.catalog.IsValid(tok) {
			d.logger.Debug("attribute rejected: unknown add-on kind", "kind", tok)
			return nil
		}
		count := base
		if override != 0 {
			count = override
			override = 0
		}
		if _, seen := counts[tok]; !seen {
			addOns = append(addOns, tok)
		}
		counts[tok] = count
	}

	// A dangling count token with no kind following it is malformed.
	if override != 0 {
		d.logger.Debug("attribute rejected: dangling count token", "value", raw)
		return nil
	}
	if len(addOns) == 0 {
		d.logger.Debug("attribute rejected: no add-ons resolved", "value", raw)
		return nil
	}

	return &Signal{
		Interval:    interval,
		UnitCount:   base,
		AddOns:      addOns,
		AddOnCounts: counts,
		Provenance:  ProvenanceAttribute,
		Raw:         raw,
	}
}
