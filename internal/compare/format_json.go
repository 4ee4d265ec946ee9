package compare

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// JSONFormatter renders a comparison set as JSON. Variant names and
// descriptions are written as-is, without HTML escaping.
type JSONFormatter struct {
	Pretty bool
}

// Format encodes compSet
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(compSet); err != nil {
		return "", fmt.Errorf("failed to encode comparison %s: %w", compSet.BaseName, err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
