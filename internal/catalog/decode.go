package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
	"howett.net/plist"
)

// decodeYAML walks the document node so the mapping order survives.
func decodeYAML(data []byte) ([]pair, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind == 0 {
		return nil, ErrEmpty
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, ErrEmpty
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("yaml line %d: expected a mapping of category to letters", root.Line)
	}
	out := make([]pair, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if !isString(k) || !isString(v) {
			return nil, fmt.Errorf("yaml line %d: category and letters must be strings", k.Line)
		}
		out = append(out, pair{key: k.Value, letters: v.Value})
	}
	return out, nil
}

// isString reports whether n resolves to a YAML string. Plain scalars
// such as ~, true or 12 resolve to other tags and are refused.
func isString(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str"
}

// decodeJSON reads the top-level object token by token to keep key order.
// encoding/json maps are unordered, so the token stream is used instead.
func decodeJSON(data []byte) ([]pair, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("parse json: expected an object of category to letters")
	}
	var out []pair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("parse json: unexpected token %v", tok)
		}
		var letters string
		if err := dec.Decode(&letters); err != nil {
			return nil, fmt.Errorf("parse json: category %q: %w", key, err)
		}
		out = append(out, pair{key: key, letters: letters})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return out, nil
}

// decodePlist reads the original resource format. Plist dictionaries carry
// no order, so keys are sorted to keep Entries stable.
func decodePlist(data []byte) ([]pair, error) {
	m := map[string]string{}
	if _, err := plist.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse plist: %w", err)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]pair, 0, len(keys))
	for _, k := range keys {
		out = append(out, pair{key: k, letters: m[k]})
	}
	return out, nil
}
