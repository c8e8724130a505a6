package runstore

import (
	"fmt"
	"sort"
	"strings"
)

var drivers = map[string]func(path string) (Store, error){
	"bbolt": NewBoltStore,
	"json":  NewJSONStore,
}

// SupportedDrivers lists the available store drivers, sorted.
func SupportedDrivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewStore opens a Store at path using the named driver. "bbolt" is
// the durable default; "json" keeps the whole store in one rewritten
// file and suits tests and small deployments.
func NewStore(driver, path string) (Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}

	open, ok := drivers[strings.ToLower(strings.TrimSpace(driver))]
	if !ok {
		return nil, fmt.Errorf("unsupported store driver: %s (supported: %s)",
			driver, strings.Join(SupportedDrivers(), ", "))
	}
	return open(path)
}
