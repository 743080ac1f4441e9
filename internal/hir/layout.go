package hir

import "github.com/cm-lang/cmc/internal/ast"

// pointerSize is the fallback size/alignment for unknown or
// pointer-shaped types, matching the platform's 64-bit pointer width.
const pointerSize = 8

var primSizes = map[ast.PrimKind]int{
	ast.PrimBool: 1, ast.PrimI8: 1, ast.PrimU8: 1, ast.PrimChar: 1,
	ast.PrimI16: 2, ast.PrimU16: 2,
	ast.PrimI32: 4, ast.PrimU32: 4, ast.PrimF32: 4,
	ast.PrimI64: 8, ast.PrimU64: 8, ast.PrimF64: 8,
	ast.PrimIsize: 8, ast.PrimUsize: 8,
	ast.PrimString: 16, ast.PrimCString: 8, // fat pointer (ptr+len) for String
	ast.PrimVoid: 0, ast.PrimNull: 8,
}

// LayoutTable resolves struct definitions by name so sizeof/alignof
// and struct-field-offset computation can recurse into named types.
type LayoutTable struct {
	Structs map[string]*ast.StructDecl
	layouts map[string]*Struct // memoized computed layouts
}

// NewLayoutTable builds a lookup table from a program's struct
// declarations.
func NewLayoutTable(decls []ast.Decl) *LayoutTable {
	t := &LayoutTable{Structs: map[string]*ast.StructDecl{}, layouts: map[string]*Struct{}}
	for _, d := range decls {
		if s, ok := d.(*ast.StructDecl); ok {
			t.Structs[s.Name] = s
		}
	}
	return t
}

// SizeOf computes the byte size of a type using the platform's
// standard size-and-alignment rules: 1/2/4/8 for primitives of
// matching width, 8 for pointers, field-order packing with per-field
// alignment and trailing pad for structs, falling back to pointer size
// for anything unresolvable.
func (t *LayoutTable) SizeOf(typ ast.Type) int {
	switch tt := typ.(type) {
	case *ast.PrimitiveType:
		if sz, ok := primSizes[tt.Kind]; ok {
			return sz
		}
		return pointerSize
	case *ast.PointerType, *ast.ReferenceType, *ast.FunctionPointerType:
		return pointerSize
	case *ast.ArrayType:
		elemSize := t.SizeOf(tt.Elem)
		if n, ok := constArrayLen(tt.Size); ok {
			return elemSize * n
		}
		return pointerSize * 2 // slice: (ptr, len) fat reference
	case *ast.NamedType:
		if layout := t.structLayout(tt.Name); layout != nil {
			return layout.Size
		}
		return pointerSize
	default:
		return pointerSize
	}
}

// AlignOf computes the alignment requirement of a type, following the
// same rule set as SizeOf.
func (t *LayoutTable) AlignOf(typ ast.Type) int {
	switch tt := typ.(type) {
	case *ast.PrimitiveType:
		if sz, ok := primSizes[tt.Kind]; ok && sz > 0 {
			return sz
		}
		return pointerSize
	case *ast.PointerType, *ast.ReferenceType, *ast.FunctionPointerType:
		return pointerSize
	case *ast.ArrayType:
		return t.AlignOf(tt.Elem)
	case *ast.NamedType:
		if layout := t.structLayout(tt.Name); layout != nil {
			return layout.Alignment
		}
		return pointerSize
	default:
		return pointerSize
	}
}

func constArrayLen(size ast.Expr) (int, bool) {
	if lit, ok := size.(*ast.IntLit); ok {
		return int(lit.Value), true
	}
	return 0, false
}

// structLayout computes (and memoizes) a struct's field offsets and
// total size: field-order packing, each field aligned to its own
// requirement, with trailing padding to the struct's maximum field
// alignment.
func (t *LayoutTable) structLayout(name string) *Struct {
	if l, ok := t.layouts[name]; ok {
		return l
	}
	decl, ok := t.Structs[name]
	if !ok {
		return nil
	}
	// Guard recursive structs (a struct containing itself by value is
	// ill-formed, but avoid infinite recursion regardless).
	t.layouts[name] = &Struct{Name: name}

	offset := 0
	maxAlign := 1
	fields := make([]Field, 0, len(decl.Fields))
	for _, f := range decl.Fields {
		align := t.AlignOf(f.Type)
		if align < 1 {
			align = 1
		}
		if align > maxAlign {
			maxAlign = align
		}
		offset = alignUp(offset, align)
		fields = append(fields, Field{Name: f.Name, Type: f.Type, Offset: offset})
		offset += t.SizeOf(f.Type)
	}
	size := alignUp(offset, maxAlign)
	layout := &Struct{Name: name, Fields: fields, Size: size, Alignment: maxAlign}
	t.layouts[name] = layout
	return layout
}

func alignUp(offset, align int) int {
	if align <= 1 {
		return offset
	}
	rem := offset % align
	if rem == 0 {
		return offset
	}
	return offset + (align - rem)
}

// EnumLayout computes a tagged union's payload size/alignment: the
// union of all variant payload sizes (max), aligned to the max of 4
// (the int32 tag's own alignment) and any variant's alignment.
func (t *LayoutTable) EnumLayout(decl *ast.EnumDecl) *Enum {
	maxPayload := 0
	maxAlign := 4
	variants := make([]EnumVariant, 0, len(decl.Variants))
	for i, v := range decl.Variants {
		size := 0
		for _, f := range v.Fields {
			fs := t.SizeOf(f)
			fa := t.AlignOf(f)
			size = alignUp(size, fa) + fs
			if fa > maxAlign {
				maxAlign = fa
			}
		}
		if size > maxPayload {
			maxPayload = size
		}
		variants = append(variants, EnumVariant{Name: v.Name, Tag: int32(i), Fields: v.Fields})
	}
	return &Enum{Name: decl.Name, Variants: variants, PayloadSize: maxPayload, PayloadAlign: maxAlign}
}
