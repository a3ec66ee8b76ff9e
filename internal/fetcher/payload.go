package fetcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadPayload reads a JSON or YAML file and returns it as JSON bytes.
func LoadPayload(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read %s", filepath.Base(path))
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLToJSON(data)
	default:
		if !json.Valid(data) {
			return nil, eris.Errorf("fetcher: %s is not valid JSON", filepath.Base(path))
		}
		return data, nil
	}
}

// YAMLToJSON converts a YAML document to the equivalent JSON.
func YAMLToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "fetcher: parse yaml")
	}
	out, err := json.Marshal(jsonable(doc))
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: encode yaml as json")
	}
	return out, nil
}

// jsonable rewrites non-string map keys, which encoding/json rejects.
func jsonable(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = jsonable(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = jsonable(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = jsonable(val)
		}
		return t
	}
	return v
}
