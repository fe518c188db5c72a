package main

// TypeTag is the coarse static type of an expression or symbol. The type
// system is deliberately flat: seven tags with simple numeric widening,
// no structural types.
type TypeTag int

const (
	TypeUnknown TypeTag = iota
	TypeNull
	TypeInt
	TypeDouble
	TypeString
	TypeBool
	TypeVoid
)

func (t TypeTag) String() string {
	switch t {
	case TypeNull:
		return "Null"
	case TypeInt:
		return "Int"
	case TypeDouble:
		return "Double"
	case TypeString:
		return "String"
	case TypeBool:
		return "Bool"
	case TypeVoid:
		return "Void"
	default:
		return "Unknown"
	}
}

func isNumeric(t TypeTag) bool {
	return t == TypeInt || t == TypeDouble
}

// isTyped reports whether a tag carries enough information to validate an
// operator. Unknown and Void operands make the whole expression Unknown and
// suppress the check.
func isTyped(t TypeTag) bool {
	return t != TypeUnknown && t != TypeVoid
}

// widenNumeric combines two numeric tags; Double wins.
func widenNumeric(a, b TypeTag) TypeTag {
	if a == TypeDouble || b == TypeDouble {
		return TypeDouble
	}
	return TypeInt
}

// addResult types `a + b`: numeric widening or string concatenation.
func addResult(a, b TypeTag) (TypeTag, bool) {
	if isNumeric(a) && isNumeric(b) {
		return widenNumeric(a, b), true
	}
	if a == TypeString && b == TypeString {
		return TypeString, true
	}
	return TypeUnknown, false
}

// arithResult types `a - b` and `a / b`: numeric operands only.
func arithResult(a, b TypeTag) (TypeTag, bool) {
	if isNumeric(a) && isNumeric(b) {
		return widenNumeric(a, b), true
	}
	return TypeUnknown, false
}

// mulResult types `a * b`: numeric, or string repetition with an Int count
// on either side.
func mulResult(a, b TypeTag) (TypeTag, bool) {
	if isNumeric(a) && isNumeric(b) {
		return widenNumeric(a, b), true
	}
	if (a == TypeString && b == TypeInt) || (a == TypeInt && b == TypeString) {
		return TypeString, true
	}
	return TypeUnknown, false
}

// concatResult types `a .. b`: strings only.
func concatResult(a, b TypeTag) (TypeTag, bool) {
	if a == TypeString && b == TypeString {
		return TypeString, true
	}
	return TypeUnknown, false
}

// relationalResult types `< <= > >=`: numeric operands, Bool result.
func relationalResult(a, b TypeTag) (TypeTag, bool) {
	if isNumeric(a) && isNumeric(b) {
		return TypeBool, true
	}
	return TypeBool, false
}

// logicalResult types `and`/`or`: Bool operands, Bool result.
func logicalResult(a, b TypeTag) (TypeTag, bool) {
	if a == TypeBool && b == TypeBool {
		return TypeBool, true
	}
	return TypeBool, false
}

// learnAssign folds the type of an assigned value into a symbol's current
// type. The result only degrades to Unknown on a genuine conflict; it never
// jumps from one concrete type straight to another.
func learnAssign(current, value TypeTag) TypeTag {
	if !isTyped(value) {
		return current
	}
	if current == TypeUnknown || current == TypeVoid || current == TypeNull {
		return value
	}
	if current == value {
		return current
	}
	if isNumeric(current) && isNumeric(value) {
		return widenNumeric(current, value)
	}
	return TypeUnknown
}
