package ref

// Name is a lightweight identifier. The empty name is the reserved "none"
// value, which identifier invariants reject.
type Name string

// NameNone is the reserved empty identifier.
const NameNone Name = ""

// IsNone reports whether the name is the reserved empty identifier.
func (n Name) IsNone() bool { return n == NameNone }

// String returns the name text.
func (n Name) String() string { return string(n) }
