package extract

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadSpecs reads layout specs from a JSON file holding an array of
// LayoutSpec objects. Structural validation happens in Compile; this only
// rejects files that decode to nothing.
func LoadSpecs(path string) ([]LayoutSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layouts file: %w", err)
	}
	var specs []LayoutSpec
	if err := json.Unmarshal(b, &specs); err != nil {
		return nil, fmt.Errorf("decode layouts file %s: %w", path, err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("layouts file %s defines no layouts", path)
	}
	return specs, nil
}
