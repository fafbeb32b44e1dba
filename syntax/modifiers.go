package syntax

// Modifiers is the effective {dotAll, ignoreCase, multiline} triple in force
// at a node.
type Modifiers struct {
	DotAll     bool
	IgnoreCase bool
	Multiline  bool
}

// Apply returns m with the flags in add switched on and the flags in remove
// switched off. Flags outside ModifierFlags are ignored. A flag present in
// both sets is rejected by the parser, so the order of application does not
// matter for parsed trees.
func (m Modifiers) Apply(add, remove Flags) Modifiers {
	if add&FlagDotAll != 0 {
		m.DotAll = true
	}
	if add&FlagIgnoreCase != 0 {
		m.IgnoreCase = true
	}
	if add&FlagMultiline != 0 {
		m.Multiline = true
	}
	if remove&FlagDotAll != 0 {
		m.DotAll = false
	}
	if remove&FlagIgnoreCase != 0 {
		m.IgnoreCase = false
	}
	if remove&FlagMultiline != 0 {
		m.Multiline = false
	}
	return m
}

// Flags converts m back to a flag set.
func (m Modifiers) Flags() Flags {
	var f Flags
	if m.DotAll {
		f |= FlagDotAll
	}
	if m.IgnoreCase {
		f |= FlagIgnoreCase
	}
	if m.Multiline {
		f |= FlagMultiline
	}
	return f
}

// String returns the active modifier letters in canonical order, or "-"
// when none is active.
func (m Modifiers) String() string {
	s := m.Flags().String()
	if s == "" {
		return "-"
	}
	return s
}
