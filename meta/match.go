package meta

// Match represents a successful match with the positions of every group.
//
// A Match contains:
//   - The capture slots: start and end byte offsets per group, -1 if unset
//   - The group names, shared with the engine
//   - A reference to the searched input
//
// Example:
//
//	m := NewMatch([]int{5, 11, 5, 8}, nil, "test foo123 end")
//	println(m.String())   // "foo123"
//	println(m.Group(1))   // "foo"
type Match struct {
	caps  []int
	names []string
	input string
}

// NewMatch creates a Match from capture slots. caps must hold an even
// number of entries with group 0 set; it is stored by reference.
func NewMatch(caps []int, names []string, input string) *Match {
	return &Match{caps: caps, names: names, input: input}
}

// Start returns the inclusive start position of the match.
func (m *Match) Start() int {
	return m.caps[0]
}

// End returns the exclusive end position of the match.
func (m *Match) End() int {
	return m.caps[1]
}

// Len returns the length of the match in bytes.
func (m *Match) Len() int {
	return m.caps[1] - m.caps[0]
}

// String returns the matched text.
func (m *Match) String() string {
	return m.input[m.caps[0]:m.caps[1]]
}

// IsEmpty returns true if the match has zero length.
//
// Empty matches occur with patterns like "" or "a*" that can match
// without consuming input.
func (m *Match) IsEmpty() bool {
	return m.caps[0] == m.caps[1]
}

// Contains returns true if start <= pos < end.
func (m *Match) Contains(pos int) bool {
	return pos >= m.caps[0] && pos < m.caps[1]
}

// NumGroups returns the number of groups, including group 0.
func (m *Match) NumGroups() int {
	return len(m.caps) / 2
}

// GroupIndex returns the start and end of group i, or (-1, -1) when the
// group did not participate.
func (m *Match) GroupIndex(i int) (start, end int) {
	if i < 0 || i >= m.NumGroups() {
		return -1, -1
	}
	return m.caps[2*i], m.caps[2*i+1]
}

// Group returns the text of group i and whether it participated.
func (m *Match) Group(i int) (string, bool) {
	start, end := m.GroupIndex(i)
	if start < 0 {
		return "", false
	}
	return m.input[start:end], true
}

// NamedGroup returns the text of the group called name and whether it
// participated.
func (m *Match) NamedGroup(name string) (string, bool) {
	for i, n := range m.names {
		if n != "" && n == name {
			return m.Group(i)
		}
	}
	return "", false
}

// Captures returns the capture slots. The slice is shared with the Match.
func (m *Match) Captures() []int {
	return m.caps
}

// Names returns the group names indexed by group number.
func (m *Match) Names() []string {
	return m.names
}

// Input returns the searched input.
func (m *Match) Input() string {
	return m.input
}
