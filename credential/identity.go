package credential

// Identity is the reference a credential belongs to.  Its string form is
// also the salt for salted algorithms, so it must be stable.
type Identity interface {
	String() string
}

// Username is the plain string [Identity].
type Username string

func (u Username) String() string { return string(u) }
