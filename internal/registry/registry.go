package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fortuna/services/scoreboard-view/internal/sports/basketball_nba"
	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
)

// DefaultSport is used by views that do not name a sport
const DefaultSport = "basketball_nba"

// Registry manages available sport modules
type Registry struct {
	modules map[string]contracts.SportModule
}

// New creates a new sport registry with all available sports
func New() *Registry {
	r := &Registry{
		modules: make(map[string]contracts.SportModule),
	}

	r.Register(basketball_nba.New())

	return r
}

// Register adds a sport module to the registry
func (r *Registry) Register(module contracts.SportModule) {
	r.modules[module.GetSportKey()] = module
}

// GetModule retrieves an enabled sport module by key; empty key selects the default sport
func (r *Registry) GetModule(sportKey string) (contracts.SportModule, error) {
	if sportKey == "" {
		sportKey = DefaultSport
	}
	module, ok := r.modules[sportKey]
	if !ok {
		return nil, fmt.Errorf("sport module not found: %s (registered: %s)", sportKey, strings.Join(r.AllSportKeys(), ", "))
	}
	if !module.IsEnabled() {
		return nil, fmt.Errorf("sport module disabled: %s", sportKey)
	}
	return module, nil
}

// EnabledSports returns all enabled sport modules
func (r *Registry) EnabledSports() []contracts.SportModule {
	var enabled []contracts.SportModule
	for _, m := range r.modules {
		if m.IsEnabled() {
			enabled = append(enabled, m)
		}
	}
	return enabled
}

// AllSportKeys returns all registered sport keys, sorted
func (r *Registry) AllSportKeys() []string {
	keys := make([]string, 0, len(r.modules))
	for key := range r.modules {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
