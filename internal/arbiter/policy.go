package arbiter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1broseidon/solowindow/internal/platform"
)

// Policy names accepted by PolicyByName.
const (
	PolicyDominance    = "dominance"
	PolicyActiveWindow = "active-window"
)

// Decision is the desired minimized state of one window. Causer names the
// window responsible for a minimize decision, or is zero.
type Decision struct {
	Minimize bool
	Causer   platform.WindowID
}

// Decisions maps window ids to their desired state. Windows without an
// entry are left alone.
type Decisions map[platform.WindowID]Decision

// Evaluation is the input to a policy: one snapshot plus the registries and
// options as they were when the sweep started.
type Evaluation struct {
	Snap    *Snapshot
	Trigger platform.WindowID // activated window, or zero
	Options Options
	Pins    *PinRegistry
	Manual  *ManualTracker
}

// Policy decides which windows should be minimized or kept visible.
// Implementations must not mutate the evaluation.
type Policy interface {
	Name() string
	Decide(ev *Evaluation) Decisions
}

var policies = map[string]func() Policy{
	PolicyDominance:    func() Policy { return dominancePolicy{} },
	PolicyActiveWindow: func() Policy { return activeWindowPolicy{} },
}

// PolicyByName returns the policy registered under name.
func PolicyByName(name string) (Policy, error) {
	factory, ok := policies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q (available: %s)", name, strings.Join(PolicyNames(), ", "))
	}
	return factory(), nil
}

// PolicyNames lists the registered policy names in sorted order.
func PolicyNames() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
