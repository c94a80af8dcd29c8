package types

// ValueKind names the declared kind of a property value.
type ValueKind string

// Property value kinds.
const (
	KindUndefined ValueKind = "undefined"
	KindInteger   ValueKind = "integer"
	KindReal      ValueKind = "real"
	KindBoolean   ValueKind = "boolean"
	KindString    ValueKind = "string"
)

// validKinds is the set of recognized value kinds.
var validKinds = map[ValueKind]bool{
	KindUndefined: true,
	KindInteger:   true,
	KindReal:      true,
	KindBoolean:   true,
	KindString:    true,
}

// IsValidKind reports whether k is a recognized value kind.
func IsValidKind(k ValueKind) bool {
	return validKinds[k]
}

// Value is a property value. The set of implementations is closed:
// Undefined, Integer, Real, Boolean and String.
type Value interface {
	Kind() ValueKind
	sealed()
}

// Undefined is the value of a property that has not been set.
type Undefined struct{}

// Integer is a signed integer property value.
type Integer int64

// Real is a floating-point property value.
type Real float64

// Boolean is a boolean property value.
type Boolean bool

// String is a text property value.
type String string

func (Undefined) Kind() ValueKind { return KindUndefined }
func (Integer) Kind() ValueKind   { return KindInteger }
func (Real) Kind() ValueKind      { return KindReal }
func (Boolean) Kind() ValueKind   { return KindBoolean }
func (String) Kind() ValueKind    { return KindString }

func (Undefined) sealed() {}
func (Integer) sealed()   {}
func (Real) sealed()      {}
func (Boolean) sealed()   {}
func (String) sealed()    {}

// AsFloat returns the numeric content of v. Integer and Real convert
// directly, Boolean maps to 0 or 1, and every other kind reports false.
func AsFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case Integer:
		return float64(x), true
	case Real:
		return float64(x), true
	case Boolean:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
