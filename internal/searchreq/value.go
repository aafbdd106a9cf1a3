package searchreq

// member is one key of a decoded object, in document order.
type member struct {
	key   string
	value any
}

// object is a decoded object. Values are object, []any, string, int64,
// float64, bool or nil.
type object []member

// plain converts a decoded value to map[string]any form for schema
// validation and canonical encoding. Key order is dropped.
func plain(v any) any {
	switch val := v.(type) {
	case object:
		m := make(map[string]any, len(val))
		for _, mem := range val {
			m[mem.key] = plain(mem.value)
		}
		return m
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plain(item)
		}
		return out
	default:
		return val
	}
}

// orderedPairs converts an object to a list of [key, value] pairs in
// document order. Other values are converted with plain.
func orderedPairs(v any) any {
	obj, ok := v.(object)
	if !ok {
		return plain(v)
	}
	out := make([]any, len(obj))
	for i, mem := range obj {
		out[i] = []any{mem.key, plain(mem.value)}
	}
	return out
}
