package node

import "fixturegen/internal/common"

// KindEnum decides how a node is populated.
type KindEnum int

const (
	KindUnknown KindEnum = iota
	KindTerminal
	KindStruct
	KindSlice
	KindArray
	KindMap
	KindPointer
	// KindInterface is an interface without a resolved implementation.
	KindInterface
	// KindIgnored covers types that are never populated: channels, funcs,
	// unsafe pointers and complex numbers.
	KindIgnored

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var kindNames = [...]string{
	KindUnknown:   common.UnknownStr,
	KindTerminal:  "terminal",
	KindStruct:    "struct",
	KindSlice:     "slice",
	KindArray:     "array",
	KindMap:       "map",
	KindPointer:   "pointer",
	KindInterface: "interface",
	KindIgnored:   "ignored",
}

func (k KindEnum) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return common.UnknownStr
	}

	return kindNames[k]
}

// IsContainer reports whether nodes of the kind hold element children.
func (k KindEnum) IsContainer() bool {
	switch k {
	case KindSlice, KindArray, KindMap, KindPointer:
		return true
	default:
		return false
	}
}

// RoleEnum is the relation of a node to its parent.
type RoleEnum int

const (
	RoleRoot RoleEnum = iota
	// RoleField is a struct field, embedded structs included.
	RoleField
	// RoleSetter is a setter method without a backing field.
	RoleSetter
	RoleElement
	RoleKey
	RoleValue
)

var roleNames = [...]string{
	RoleRoot:    "root",
	RoleField:   "field",
	RoleSetter:  "setter",
	RoleElement: "element",
	RoleKey:     "key",
	RoleValue:   "value",
}

func (r RoleEnum) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return common.UnknownStr
	}

	return roleNames[r]
}
