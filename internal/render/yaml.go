package render

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

func WriteYAML(writer io.Writer, v any) error {
	encoder := yaml.NewEncoder(writer)
	defer encoder.Close()

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
