package render

import (
	"strings"

	"github.com/fortuna/services/scoreboard-view/pkg/models"
)

// DescriptionFilter reports whether an action's description keeps it out of the
// play-by-play text. The period header logic runs before the filter, so a
// skipped action that opens a new period still produces its header.
type DescriptionFilter func(description models.Text) bool

// SkipAbsent skips actions with a null, missing or blank description
func SkipAbsent(description models.Text) bool {
	return !description.Present() || strings.TrimSpace(description.String()) == ""
}

// SkipLiteral skips actions whose description is exactly value.
// The legacy page compared descriptions against the number 10; SkipLiteral("10")
// reproduces that.
func SkipLiteral(value string) DescriptionFilter {
	return func(description models.Text) bool {
		return description.Present() && description.String() == value
	}
}

// SkipAny skips an action when any of the filters does
func SkipAny(filters ...DescriptionFilter) DescriptionFilter {
	return func(description models.Text) bool {
		for _, f := range filters {
			if f != nil && f(description) {
				return true
			}
		}
		return false
	}
}
