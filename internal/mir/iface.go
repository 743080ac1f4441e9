package mir

import "github.com/cm-lang/cmc/internal/ast"

// buildVTables constructs one VTable per (interface, implementing
// type) pair found in the filtered AST, in the interface's declared
// method order — the fixed vtable-slot layout the spec requires so a
// fat interface reference's method calls compile to a constant-offset
// indirect call regardless of which concrete type backs it.
func buildVTables(decls []ast.Decl) []*VTable {
	interfaces := map[string][]string{}
	for _, d := range decls {
		if idecl, ok := d.(*ast.InterfaceDecl); ok {
			order := make([]string, len(idecl.Methods))
			for i, m := range idecl.Methods {
				order[i] = m.Name
			}
			interfaces[idecl.Name] = order
		}
	}

	var tables []*VTable
	for _, d := range decls {
		impl, ok := d.(*ast.ImplDecl)
		if !ok || impl.InterfaceName == "" {
			continue
		}
		order, ok := interfaces[impl.InterfaceName]
		if !ok {
			continue
		}
		targetName := impl.TargetType.String()
		byName := map[string]string{}
		for _, m := range impl.Methods {
			byName[m.Name] = targetName + "__" + m.Name
		}
		methods := make([]string, len(order))
		for i, name := range order {
			methods[i] = byName[name] // empty string if the impl does not define this method
		}
		tables = append(tables, &VTable{Interface: impl.InterfaceName, ForType: targetName, Methods: methods})
	}
	return tables
}
