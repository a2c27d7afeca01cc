package transition

import (
	"slices"
	"strings"

	"github.com/matzehuels/chartcore/pkg/errors"
)

// Easing maps linear progress in [0, 1] to eased progress. Implementations
// must map 0 to 0 and 1 to 1 and be non-decreasing.
type Easing func(t float64) float64

// Linear applies no easing.
func Linear(t float64) float64 { return t }

// EaseInCubic starts slow.
func EaseInCubic(t float64) float64 { return t * t * t }

// EaseOutCubic ends slow.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// EaseInOutCubic starts and ends slow. It is the default easing.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// DefaultEasing is the easing used when a plan does not set one.
const DefaultEasing = "cubic-in-out"

var easings = map[string]Easing{
	"linear":       Linear,
	"cubic-in":     EaseInCubic,
	"cubic-out":    EaseOutCubic,
	"cubic-in-out": EaseInOutCubic,
}

// EasingByName looks up a registered easing. The empty name selects
// [DefaultEasing].
func EasingByName(name string) (Easing, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultEasing
	}
	if e, ok := easings[name]; ok {
		return e, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown easing %q (must be one of: %s)", name, strings.Join(EasingNames(), ", "))
}

// EasingNames returns the registered easing names, sorted.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
