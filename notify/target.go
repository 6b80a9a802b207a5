package notify

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kirychukyurii/checknotifier/model"
)

// Target is a parsed subscription target of the form "dest1,dest2[:filter]".
type Target struct {
	// Destinations is never empty and keeps the configured order.
	Destinations []string

	// Filter is the raw pattern after the first colon.
	Filter string

	hasFilter bool
}

// ParseTarget splits target on the first colon into destinations and filter.
// Destinations are not validated: "a,,b" yields an empty destination. A
// trailing colon yields a blank filter, which never compiles.
func ParseTarget(target string) Target {
	dests, filter, found := strings.Cut(target, ":")

	return Target{
		Destinations: strings.Split(dests, ","),
		Filter:       filter,
		hasFilter:    found,
	}
}

// HasFilter reports whether target had a colon, even with nothing after it.
func (t Target) HasFilter() bool {
	return t.hasFilter
}

// Compile returns the filter pattern. The pattern must have at least one
// capture group, its first group is what annotates the message.
func (t Target) Compile() (*regexp.Regexp, error) {
	if !t.HasFilter() {
		return nil, errors.New("target has no filter")
	}

	re, err := regexp.Compile(t.Filter)
	if err != nil {
		return nil, fmt.Errorf("compile target filter %q: %w", t.Filter, err)
	}

	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("target filter %q has no capture group", t.Filter)
	}

	return re, nil
}

// Captures collects group 1 of every match of re in the alert targets, sorted.
func Captures(re *regexp.Regexp, alerts []*model.Alert) []string {
	captures := make([]string, 0, len(alerts))
	for _, a := range alerts {
		if a == nil {
			continue
		}

		for _, m := range re.FindAllStringSubmatch(a.Target, -1) {
			captures = append(captures, m[1])
		}
	}

	sort.Strings(captures)

	return captures
}

// Annotate renders captures as the "(a|b) " message prefix.
func Annotate(captures []string) string {
	return "(" + strings.Join(captures, "|") + ") "
}
