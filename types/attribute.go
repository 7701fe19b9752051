package types

// Attribute describes one output column of a plan node: its name, its
// resolved semantic type, and whether it may produce NULL values.
type Attribute struct {
	Name     string       `json:"name"`
	Type     SemanticType `json:"type"`
	Nullable bool         `json:"nullable,omitempty"`
}

// Schema is an ordered list of attributes describing a node's output
type Schema []Attribute

// Names returns the attribute names in schema order
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, a := range s {
		names[i] = a.Name
	}
	return names
}

// IndexOf returns the position of the named attribute, or -1 if absent
func (s Schema) IndexOf(name string) int {
	for i, a := range s {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Contains reports whether the schema has an attribute with the given name
func (s Schema) Contains(name string) bool {
	return s.IndexOf(name) >= 0
}

// Equal compares two schemas by name, type and nullability in order
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// AsNullable returns a copy of the schema with every attribute nullable.
// Used for the inner side of outer joins.
func (s Schema) AsNullable() Schema {
	out := make(Schema, len(s))
	for i, a := range s {
		a.Nullable = true
		out[i] = a
	}
	return out
}
