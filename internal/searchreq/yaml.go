package searchreq

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// decodeJSON parses a JSON document. Syntax is checked strictly before the
// document is read as YAML, which keeps object key order.
func decodeJSON(data []byte) (any, error) {
	if !json.Valid(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		return nil, &DecodeError{Path: "$", Message: fmt.Sprintf("invalid JSON: %v", err), Err: ErrFormat}
	}
	return decodeYAML(data)
}

// decodeYAML parses a YAML document into ordered values.
func decodeYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &DecodeError{Path: "$", Message: fmt.Sprintf("invalid YAML: %v", err), Err: ErrFormat}
	}
	if root.Kind == 0 {
		return nil, &DecodeError{Path: "$", Message: "empty document", Err: ErrFormat}
	}
	return fromYAML(&root, "$")
}

func fromYAML(n *yaml.Node, path string) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, &DecodeError{Path: path, Message: "empty document", Err: ErrFormat}
		}
		return fromYAML(n.Content[0], path)

	case yaml.AliasNode:
		return fromYAML(n.Alias, path)

	case yaml.MappingNode:
		obj := make(object, 0, len(n.Content)/2)
		seen := make(map[string]bool, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if seen[key] {
				return nil, &DecodeError{
					Path:    path,
					Message: fmt.Sprintf("duplicate key %q (line %d)", key, n.Content[i].Line),
					Err:     ErrFormat,
				}
			}
			seen[key] = true
			val, err := fromYAML(n.Content[i+1], path+"."+key)
			if err != nil {
				return nil, err
			}
			obj = append(obj, member{key: key, value: val})
		}
		return obj, nil

	case yaml.SequenceNode:
		list := make([]any, len(n.Content))
		for i, item := range n.Content {
			val, err := fromYAML(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			list[i] = val
		}
		return list, nil

	case yaml.ScalarNode:
		return yamlScalar(n, path)

	default:
		return nil, &DecodeError{Path: path, Message: fmt.Sprintf("unsupported YAML node kind %d", n.Kind), Err: ErrFormat}
	}
}

// yamlScalar resolves a scalar by its tag. Timestamps and other tags stay
// strings, so date bounds reach the range builder verbatim.
func yamlScalar(n *yaml.Node, path string) (any, error) {
	var (
		val any
		err error
	)
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		err = n.Decode(&b)
		val = b
	case "!!int":
		var i int64
		err = n.Decode(&i)
		val = i
	case "!!float":
		var f float64
		err = n.Decode(&f)
		val = f
	default:
		return n.Value, nil
	}
	if err != nil {
		return nil, &DecodeError{Path: path, Message: fmt.Sprintf("invalid scalar %q: %v", n.Value, err), Err: ErrFormat}
	}
	return val, nil
}
