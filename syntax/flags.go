package syntax

// Flags is a bitmask of regular expression flags.
// The zero value corresponds to a pattern compiled with no flags.
type Flags uint16

const (
	// FlagHasIndices requests match indices for every group ("d" flag).
	FlagHasIndices Flags = 1 << iota

	// FlagGlobal enables iteration over successive matches ("g" flag).
	FlagGlobal

	// FlagIgnoreCase enables case-insensitive matching ("i" flag).
	FlagIgnoreCase

	// FlagMultiline makes "^" and "$" match at line terminators ("m" flag).
	FlagMultiline

	// FlagDotAll makes "." match line terminators ("s" flag).
	FlagDotAll

	// FlagUnicode enables Unicode mode ("u" flag): strict escapes,
	// \u{...} escapes and simple case folding for ignoreCase.
	FlagUnicode

	// FlagSticky anchors every match attempt at the start position ("y" flag).
	FlagSticky
)

// ModifierFlags is the subset of flags an inline modifier group may add
// or remove.
const ModifierFlags = FlagIgnoreCase | FlagMultiline | FlagDotAll

// flagLetters lists the flags in canonical order.
var flagLetters = [...]struct {
	flag   Flags
	letter byte
}{
	{FlagHasIndices, 'd'},
	{FlagGlobal, 'g'},
	{FlagIgnoreCase, 'i'},
	{FlagMultiline, 'm'},
	{FlagDotAll, 's'},
	{FlagUnicode, 'u'},
	{FlagSticky, 'y'},
}

// ParseFlags parses a flags string such as "gim".
// Letters may appear in any order. Unknown letters fail with
// ErrUnsupportedFlag and repeated letters with ErrRepeatedFlag; the error
// offset is the index of the offending letter.
func ParseFlags(s string) (Flags, error) {
	var flags Flags
	for i := 0; i < len(s); i++ {
		f, ok := flagForLetter(s[i])
		if !ok {
			return 0, &Error{Code: ErrUnsupportedFlag, Expr: s, Offset: i}
		}
		if flags&f != 0 {
			return 0, &Error{Code: ErrRepeatedFlag, Expr: s, Offset: i}
		}
		flags |= f
	}
	return flags, nil
}

func flagForLetter(c byte) (Flags, bool) {
	for _, fl := range flagLetters {
		if fl.letter == c {
			return fl.flag, true
		}
	}
	return 0, false
}

// modifierForLetter returns the flag for a letter allowed inside an inline
// modifier group.
func modifierForLetter(c byte) (Flags, bool) {
	switch c {
	case 'i':
		return FlagIgnoreCase, true
	case 'm':
		return FlagMultiline, true
	case 's':
		return FlagDotAll, true
	}
	return 0, false
}

// String returns the flags in canonical order ("dgimsuy").
func (f Flags) String() string {
	buf := make([]byte, 0, len(flagLetters))
	for _, fl := range flagLetters {
		if f&fl.flag != 0 {
			buf = append(buf, fl.letter)
		}
	}
	return string(buf)
}

// Modifiers returns the modifier triple selected by f.
func (f Flags) Modifiers() Modifiers {
	return Modifiers{
		DotAll:     f&FlagDotAll != 0,
		IgnoreCase: f&FlagIgnoreCase != 0,
		Multiline:  f&FlagMultiline != 0,
	}
}
