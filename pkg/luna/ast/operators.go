package ast

// UnaryOperator is a prefix operator applied to a single operand.
type UnaryOperator int

const (
	OpNegate UnaryOperator = iota // -
	OpLength                      // #
	OpNot                         // not
)

// UnaryOperators lists every unary operator in declaration order.
var UnaryOperators = []UnaryOperator{OpNegate, OpLength, OpNot}

// Text returns the source spelling of the operator.
func (op UnaryOperator) Text() string {
	switch op {
	case OpNegate:
		return "-"
	case OpLength:
		return "#"
	case OpNot:
		return "not"
	}
	return "?"
}

// IsWord reports whether the operator is spelled as a keyword.
func (op UnaryOperator) IsWord() bool {
	return op == OpNot
}

func (op UnaryOperator) String() string {
	switch op {
	case OpNegate:
		return "Negate"
	case OpLength:
		return "Length"
	case OpNot:
		return "Not"
	}
	return "UnaryOperator(?)"
}

// BinaryOperator is an infix operator with a left and a right operand.
type BinaryOperator int

const (
	// Arithmetic
	OpAdd BinaryOperator = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpPower

	// Logical
	OpAnd
	OpOr

	// Equality
	OpEqual
	OpNotEqual

	// Relational
	OpLessThan
	OpGreaterThan
	OpLessThanOrEqual
	OpGreaterThanOrEqual
)

// BinaryOperators lists every binary operator in declaration order.
var BinaryOperators = []BinaryOperator{
	OpAdd, OpSubtract, OpMultiply, OpDivide, OpModulo, OpPower,
	OpAnd, OpOr,
	OpEqual, OpNotEqual,
	OpLessThan, OpGreaterThan, OpLessThanOrEqual, OpGreaterThanOrEqual,
}

var binaryText = map[BinaryOperator]string{
	OpAdd:                "+",
	OpSubtract:           "-",
	OpMultiply:           "*",
	OpDivide:             "/",
	OpModulo:             "%",
	OpPower:              "^",
	OpAnd:                "and",
	OpOr:                 "or",
	OpEqual:              "==",
	OpNotEqual:           "~=",
	OpLessThan:           "<",
	OpGreaterThan:        ">",
	OpLessThanOrEqual:    "<=",
	OpGreaterThanOrEqual: ">=",
}

var binaryNames = map[BinaryOperator]string{
	OpAdd:                "Add",
	OpSubtract:           "Subtract",
	OpMultiply:           "Multiply",
	OpDivide:             "Divide",
	OpModulo:             "Modulo",
	OpPower:              "Power",
	OpAnd:                "And",
	OpOr:                 "Or",
	OpEqual:              "Equal",
	OpNotEqual:           "NotEqual",
	OpLessThan:           "LessThan",
	OpGreaterThan:        "GreaterThan",
	OpLessThanOrEqual:    "LessThanOrEqual",
	OpGreaterThanOrEqual: "GreaterThanOrEqual",
}

// Text returns the source spelling of the operator.
func (op BinaryOperator) Text() string {
	if s, ok := binaryText[op]; ok {
		return s
	}
	return "?"
}

// IsWord reports whether the operator is spelled as a keyword.
func (op BinaryOperator) IsWord() bool {
	return op == OpAnd || op == OpOr
}

func (op BinaryOperator) String() string {
	if s, ok := binaryNames[op]; ok {
		return s
	}
	return "BinaryOperator(?)"
}

// TypeOperator combines two type annotations.
type TypeOperator int

const (
	OpUnion        TypeOperator = iota // |
	OpIntersection                     // &
)

// TypeOperators lists every type operator in declaration order.
var TypeOperators = []TypeOperator{OpUnion, OpIntersection}

// Text returns the source spelling of the operator.
func (op TypeOperator) Text() string {
	switch op {
	case OpUnion:
		return "|"
	case OpIntersection:
		return "&"
	}
	return "?"
}

func (op TypeOperator) String() string {
	switch op {
	case OpUnion:
		return "Union"
	case OpIntersection:
		return "Intersection"
	}
	return "TypeOperator(?)"
}

// CompoundAssignmentOperator is reserved for compound assignment statements.
type CompoundAssignmentOperator int

const (
	OpAddAssign CompoundAssignmentOperator = iota
	OpSubtractAssign
	OpMultiplyAssign
	OpDivideAssign
	OpModuloAssign
	OpPowerAssign
)

// CompoundAssignmentOperators lists every compound assignment operator.
var CompoundAssignmentOperators = []CompoundAssignmentOperator{
	OpAddAssign, OpSubtractAssign, OpMultiplyAssign,
	OpDivideAssign, OpModuloAssign, OpPowerAssign,
}

// Text returns the source spelling of the operator.
func (op CompoundAssignmentOperator) Text() string {
	switch op {
	case OpAddAssign:
		return "+="
	case OpSubtractAssign:
		return "-="
	case OpMultiplyAssign:
		return "*="
	case OpDivideAssign:
		return "/="
	case OpModuloAssign:
		return "%="
	case OpPowerAssign:
		return "^="
	}
	return "?"
}

// Binary returns the arithmetic operator the assignment applies.
func (op CompoundAssignmentOperator) Binary() BinaryOperator {
	switch op {
	case OpSubtractAssign:
		return OpSubtract
	case OpMultiplyAssign:
		return OpMultiply
	case OpDivideAssign:
		return OpDivide
	case OpModuloAssign:
		return OpModulo
	case OpPowerAssign:
		return OpPower
	}
	return OpAdd
}
