package interp

import (
	"fmt"
	"strings"
)

// Value is a runtime value produced by the tree-walking interpreter:
// one small struct per concrete kind, each with a Type()/String() pair,
// covering MIR's struct/enum/array domain.
type Value interface {
	Type() string
	String() string
}

type IntValue struct{ Value int64 }

func (v *IntValue) Type() string   { return "int" }
func (v *IntValue) String() string { return fmt.Sprintf("%d", v.Value) }

type FloatValue struct{ Value float64 }

func (v *FloatValue) Type() string   { return "float" }
func (v *FloatValue) String() string { return fmt.Sprintf("%g", v.Value) }

type StringValue struct{ Value string }

func (v *StringValue) Type() string   { return "string" }
func (v *StringValue) String() string { return v.Value }

type CharValue struct{ Value rune }

func (v *CharValue) Type() string   { return "char" }
func (v *CharValue) String() string { return string(v.Value) }

type BoolValue struct{ Value bool }

func (v *BoolValue) Type() string { return "bool" }
func (v *BoolValue) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}

type UnitValue struct{}

func (v *UnitValue) Type() string   { return "unit" }
func (v *UnitValue) String() string { return "()" }

// ArrayValue backs both fixed arrays and slices; elements are stored
// by reference to this struct so in-place index assignment
// (mir.Store against an *ast.IndexExpr lvalue) is visible to every
// holder of the value, matching the source language's array semantics.
type ArrayValue struct{ Elements []Value }

func (v *ArrayValue) Type() string { return "array" }
func (v *ArrayValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// StructValue is a field-named record; like ArrayValue it is passed
// around by pointer so a field store is visible through every alias.
type StructValue struct {
	TypeName string
	Fields   map[string]Value
}

func (v *StructValue) Type() string { return v.TypeName }
func (v *StructValue) String() string {
	parts := make([]string, 0, len(v.Fields))
	for name, f := range v.Fields {
		parts = append(parts, name+": "+f.String())
	}
	return v.TypeName + "{" + strings.Join(parts, ", ") + "}"
}

// EnumValue is a tagged-union instance. Field returns the conventional
// `__tag`/`__payload` views HIR's match-lowering (internal/hir/match.go)
// compiles every pattern test against, so the interpreter can satisfy
// a `.__tag`/`.__payload` FieldExpr without any special-cased pattern
// matching of its own.
type EnumValue struct {
	TypeName    string
	VariantName string
	Payload     Value // UnitValue for a nullary variant, ArrayValue for >1 field
}

func (v *EnumValue) Type() string { return v.TypeName }
func (v *EnumValue) String() string {
	if _, ok := v.Payload.(*UnitValue); ok {
		return v.VariantName
	}
	return v.VariantName + "(" + v.Payload.String() + ")"
}

func (v *EnumValue) Field(name string) (Value, bool) {
	switch name {
	case "__tag":
		return &StringValue{Value: v.VariantName}, true
	case "__payload":
		return v.Payload, true
	default:
		return nil, false
	}
}
