// README: Vehicle profile loading from JSON files (batch CLI input).
package vehicle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// LoadFile reads a single vehicle profile from a JSON file.
func LoadFile(path string) (Vehicle, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Vehicle{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return Vehicle{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var v Vehicle
	if err := json.Unmarshal(data, &v); err != nil {
		return Vehicle{}, fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
	}
	return v, nil
}
