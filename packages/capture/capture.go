package capture

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/fetchclient/packages/client"
	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// Capture names a gjson path to read from a payload.
type Capture struct {
	Name string
	Path string
}

// ParseCapture parses a "name=path" definition. A bare path is named after itself.
func ParseCapture(def string) (Capture, error) {
	name, path, found := strings.Cut(def, "=")
	if !found {
		path = name
	}
	name = strings.TrimSpace(name)
	path = strings.TrimSpace(path)
	if name == "" || path == "" {
		return Capture{}, fmt.Errorf("invalid capture %q: expected name=path", def)
	}
	return Capture{Name: name, Path: path}, nil
}

type Extractor struct {
	bodyJSON gjson.Result
}

// NewExtractor prepares payload for path queries.
func NewExtractor(payload client.JSONObject) (*Extractor, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return &Extractor{bodyJSON: gjson.ParseBytes(data)}, nil
}

// Extract returns the value at path, or false if nothing is there. An empty
// path returns the whole payload.
func (e *Extractor) Extract(path string) (any, bool) {
	if path == "" {
		return e.bodyJSON.Value(), true
	}

	result := e.bodyJSON.Get(path)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

// ExtractAll evaluates every capture against payload. Captures whose path
// matches nothing are left out of the result.
func ExtractAll(payload client.JSONObject, captures []Capture) (map[string]any, error) {
	extractor, err := NewExtractor(payload)
	if err != nil {
		return nil, err
	}

	results := make(map[string]any)
	for _, c := range captures {
		if value, ok := extractor.Extract(c.Path); ok {
			results[c.Name] = value
		}
	}
	return results, nil
}
