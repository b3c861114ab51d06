// README: Loads emission factor overrides from a YAML file.
package emission

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFactors reads a YAML file and merges it over the defaults.
// An empty path returns the defaults.
func LoadFactors(path string) (Factors, error) {
	f := DefaultFactors()
	if path == "" {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Factors{}, fmt.Errorf("read factors file %s: %w", path, err)
	}
	var override Factors
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Factors{}, fmt.Errorf("parse factors file %s: %w", path, err)
	}
	for fuel, v := range override.Emissions {
		if v < 0 {
			return Factors{}, fmt.Errorf("factors file %s: negative emission factor for %q", path, fuel)
		}
		f.Emissions[fuel] = v
	}
	for fuel, v := range override.Prices {
		if v < 0 {
			return Factors{}, fmt.Errorf("factors file %s: negative fuel price for %q", path, fuel)
		}
		f.Prices[fuel] = v
	}
	return f, nil
}
