// Package frontmatter extracts the flat key/value header that opens a
// SKILL.md or agent profile. The accepted syntax is deliberately narrow:
// one `key: value` pair per line, no nesting, no lists, no multi-line values.
package frontmatter

import "strings"

// Marker opens and closes the header block.
const Marker = "---"

// Frontmatter is an ordered mapping of header keys to values.
type Frontmatter struct {
	keys   []string
	values map[string]string
}

// New returns an empty Frontmatter.
func New() *Frontmatter {
	return &Frontmatter{values: make(map[string]string)}
}

// Set stores value under key. A repeated key keeps its first position and
// takes the latest value.
func (f *Frontmatter) Set(key, value string) {
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value for key and whether the key was present.
func (f *Frontmatter) Get(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	v, ok := f.values[key]
	return v, ok
}

// Value returns the value for key, or "" when absent.
func (f *Frontmatter) Value(key string) string {
	v, _ := f.Get(key)
	return v
}

// Keys returns the keys in first-insertion order.
func (f *Frontmatter) Keys() []string {
	if f == nil {
		return nil
	}
	keys := make([]string, len(f.keys))
	copy(keys, f.keys)
	return keys
}

// Len returns the number of distinct keys.
func (f *Frontmatter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Map returns a copy of the key/value pairs.
func (f *Frontmatter) Map() map[string]string {
	m := make(map[string]string, f.Len())
	if f == nil {
		return m
	}
	for k, v := range f.values {
		m[k] = v
	}
	return m
}

// Parse extracts the header of content. It reports false when content does
// not start with the marker or when no second marker follows it.
//
// The closing marker is found by substring search from offset 3, so a `---`
// inside a header value ends the block early.
func Parse(content string) (*Frontmatter, bool) {
	block, ok := Block(content)
	if !ok {
		return nil, false
	}

	fm := New()
	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		fm.Set(strings.TrimSpace(key), unquote(strings.TrimSpace(value)))
	}

	return fm, true
}

// Block returns the raw text between the opening and closing markers.
func Block(content string) (string, bool) {
	if !strings.HasPrefix(content, Marker) {
		return "", false
	}

	end := strings.Index(content[len(Marker):], Marker)
	if end == -1 {
		return "", false
	}

	return content[len(Marker) : len(Marker)+end], true
}

// unquote removes one pair of enclosing double quotes.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
