package layout

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Strategy names accepted by [Get].
const (
	NameLayered       = "layered"
	NameLayeredLR     = "layered-lr"
	NameAdvanced      = "advanced"
	NameAdvancedForce = "advanced-force"
	NameByFile        = "by-file"
	NameByModule      = "by-module"
	NameDependency    = "dependency"
	NameForce         = "force"
)

// DefaultStrategy is used when no strategy is named.
const DefaultStrategy = NameLayered

// ErrUnknownStrategy is returned by [Get] for names not in the registry.
var ErrUnknownStrategy = errors.New("unknown layout strategy")

var registry = map[string]func() Strategy{
	NameLayered:       func() Strategy { return Layered{Direction: TopToBottom} },
	NameLayeredLR:     func() Strategy { return Layered{Direction: LeftToRight} },
	NameAdvanced:      func() Strategy { return Advanced{Mode: ModeLayered} },
	NameAdvancedForce: func() Strategy { return Advanced{Mode: ModeForce} },
	NameByFile:        func() Strategy { return ByFile{} },
	NameByModule:      func() Strategy { return ByModule{} },
	NameDependency:    func() Strategy { return Dependency{} },
	NameForce:         func() Strategy { return Force{Seed: 1} },
}

// Get returns a strategy with default settings. Names are matched
// case-insensitively; the empty name selects [DefaultStrategy].
func Get(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultStrategy
	}
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownStrategy, name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names lists registered strategies in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsAsync reports whether s runs on an external engine.
func IsAsync(s Strategy) bool {
	_, ok := s.(AsyncStrategy)
	return ok
}
