package generator

import (
	"encoding/json"
	"fmt"
	"os"
)

// Locations maps entry titles such as lib.strings.concatStrings to
// rendered source locations.
type Locations map[string]string

// LoadLocations reads a JSON location index. An empty path yields an
// empty index.
func LoadLocations(path string) (Locations, error) {
	locs := make(Locations)
	if path == "" {
		return locs, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read location information: %w", err)
	}
	if err := json.Unmarshal(data, &locs); err != nil {
		return nil, fmt.Errorf("could not parse location information %s: %w", path, err)
	}
	return locs, nil
}
