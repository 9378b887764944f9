package mgmt

// Char is a single character value. It is a distinct type so that a
// character is not confused with an Integer (rune is an alias of int32).
type Char rune

// String returns the character as a one-character string
func (c Char) String() string {
	return string(rune(c))
}

// Vector is a dynamically sized sequence of scalars. Its element kind is
// taken from the first element; an empty Vector is a Vector of String.
type Vector []any

// NewVector returns a Vector holding the given elements in order
func NewVector(elems ...any) Vector {
	v := make(Vector, len(elems))
	copy(v, elems)
	return v
}
