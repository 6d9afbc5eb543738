package search

import "strings"

// ParseQuery parses a generic structured query string of space-separated
// key:value pairs into an attribute map. Values may be double-quoted to
// contain spaces. Only recognized fields are kept; anything malformed
// fails closed to an empty map rather than failing the request.
//
//	lastName:smith email:"ann smith@example.com" enabled:true
func ParseQuery(q string) map[string]string {
	attrs := map[string]string{}
	if strings.TrimSpace(q) == "" {
		return attrs
	}

	for _, pair := range splitPairs(q) {
		key, value, ok := strings.Cut(pair, ":")
		if !ok || key == "" {
			// Not a key:value pair; drop the whole parse.
			return map[string]string{}
		}
		if !recognizedFields[key] {
			continue
		}
		attrs[key] = strings.Trim(value, `"`)
	}
	return attrs
}

// splitPairs splits on spaces while keeping double-quoted values intact.
func splitPairs(q string) []string {
	var pairs []string
	var b strings.Builder
	inQuote := false

	for _, r := range q {
		switch {
		case r == '"':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == ' ' && !inQuote:
			if b.Len() > 0 {
				pairs = append(pairs, b.String())
				b.Reset()
			}
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		pairs = append(pairs, b.String())
	}
	return pairs
}
