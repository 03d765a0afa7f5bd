package analyzer

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"archviz/internal/apperr"
)

// GoParser extracts a StructuralRecord from Go source using the standard
// go/ast machinery. It never type-checks; everything is derived from the
// single file's syntax tree.
type GoParser struct{}

// Parse implements Parser.
func (p *GoParser) Parse(relPath string, content []byte) (*StructuralRecord, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, relPath, content, parser.ParseComments)
	if err != nil {
		return nil, &apperr.ParseError{Path: relPath, Detail: err.Error()}
	}

	rec := &StructuralRecord{
		RelPath:  relPath,
		Language: "Go",
	}
	if f.Doc != nil {
		rec.Doc = strings.TrimSpace(f.Doc.Text())
	}

	for _, imp := range f.Imports {
		target := strings.Trim(imp.Path.Value, `"`)
		// Go import paths are absolute; whether the target lives inside the
		// analyzed tree is only known once all module identifiers exist, so
		// the graph builder recomputes this flag during resolution.
		decl := ImportDecl{
			Target:   target,
			External: true,
		}
		if imp.Name != nil {
			decl.Names = []string{imp.Name.Name}
		}
		rec.Imports = append(rec.Imports, decl)
	}

	// First pass: declared types.
	typeIndex := make(map[string]int)
	ast.Inspect(f, func(n ast.Node) bool {
		gd, ok := n.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			return true
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			td := TypeDecl{
				Name: ts.Name.Name,
				Line: fset.Position(ts.Pos()).Line,
			}
			switch t := ts.Type.(type) {
			case *ast.StructType:
				td.Bases, td.Fields = structMembers(t)
			case *ast.InterfaceType:
				td.Bases, td.Methods = interfaceMembers(t, fset)
			default:
				// Named type over an existing one: the underlying type is
				// its base.
				if base := typeToString(ts.Type); base != "" {
					td.Bases = []string{base}
				}
			}
			typeIndex[td.Name] = len(rec.Types)
			rec.Types = append(rec.Types, td)
		}
		return true
	})

	// Second pass: functions and methods grouped by receiver type.
	for _, d := range f.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}
		fd := FuncDecl{
			Name:      fn.Name.Name,
			Signature: funcSignature(fn),
			Line:      fset.Position(fn.Pos()).Line,
		}
		if fn.Doc != nil {
			fd.Doc = strings.TrimSpace(fn.Doc.Text())
		}

		if fn.Recv == nil || len(fn.Recv.List) == 0 {
			rec.Functions = append(rec.Functions, fd)
			continue
		}

		recv := strings.TrimPrefix(typeToString(fn.Recv.List[0].Type), "*")
		// Generic receivers carry type parameters; index by the bare name.
		if i := strings.IndexByte(recv, '['); i > 0 {
			recv = recv[:i]
		}
		if idx, ok := typeIndex[recv]; ok {
			rec.Types[idx].Methods = append(rec.Types[idx].Methods, fd)
		} else {
			// Method on a type declared in another file of the package.
			rec.Functions = append(rec.Functions, fd)
		}
	}

	return rec, nil
}

// structMembers splits a struct's field list into embedded bases and named
// fields.
func structMembers(st *ast.StructType) (bases []string, fields []FieldDecl) {
	if st.Fields == nil {
		return nil, nil
	}
	for _, f := range st.Fields.List {
		typeName := typeToString(f.Type)
		if len(f.Names) == 0 {
			// Embedded field: treat as a base type.
			bases = append(bases, strings.TrimPrefix(typeName, "*"))
			continue
		}
		for _, name := range f.Names {
			fields = append(fields, FieldDecl{Name: name.Name, Type: typeName})
		}
	}
	return bases, fields
}

// interfaceMembers splits an interface's method list into embedded
// interfaces and declared methods.
func interfaceMembers(it *ast.InterfaceType, fset *token.FileSet) (bases []string, methods []FuncDecl) {
	if it.Methods == nil {
		return nil, nil
	}
	for _, m := range it.Methods.List {
		if len(m.Names) == 0 {
			bases = append(bases, typeToString(m.Type))
			continue
		}
		sig := ""
		if ft, ok := m.Type.(*ast.FuncType); ok {
			sig = m.Names[0].Name + funcTypeString(ft)
		}
		methods = append(methods, FuncDecl{
			Name:      m.Names[0].Name,
			Signature: sig,
			Line:      fset.Position(m.Pos()).Line,
		})
	}
	return bases, methods
}

// funcSignature renders a compact single-line signature for a function or
// method declaration.
func funcSignature(fn *ast.FuncDecl) string {
	var b strings.Builder
	b.WriteString("func ")
	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		b.WriteString("(" + typeToString(fn.Recv.List[0].Type) + ") ")
	}
	b.WriteString(fn.Name.Name)
	b.WriteString(funcTypeString(fn.Type))
	return b.String()
}

func funcTypeString(ft *ast.FuncType) string {
	var b strings.Builder
	b.WriteByte('(')
	if ft.Params != nil {
		for i, p := range ft.Params.List {
			if i > 0 {
				b.WriteString(", ")
			}
			names := make([]string, 0, len(p.Names))
			for _, n := range p.Names {
				names = append(names, n.Name)
			}
			if len(names) > 0 {
				b.WriteString(strings.Join(names, ", "))
				b.WriteByte(' ')
			}
			b.WriteString(typeToString(p.Type))
		}
	}
	b.WriteByte(')')
	if ft.Results != nil && len(ft.Results.List) > 0 {
		rets := make([]string, 0, len(ft.Results.List))
		for _, r := range ft.Results.List {
			rets = append(rets, typeToString(r.Type))
		}
		if len(rets) == 1 {
			b.WriteString(" " + rets[0])
		} else {
			b.WriteString(" (" + strings.Join(rets, ", ") + ")")
		}
	}
	return b.String()
}

// typeToString renders a type expression as source-like text. Unknown
// expression kinds render as an empty string.
func typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + typeToString(t.X)
	case *ast.SelectorExpr:
		return typeToString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return "[]" + typeToString(t.Elt)
	case *ast.MapType:
		return "map[" + typeToString(t.Key) + "]" + typeToString(t.Value)
	case *ast.ChanType:
		return "chan " + typeToString(t.Value)
	case *ast.FuncType:
		return "func" + funcTypeString(t)
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.StructType:
		return "struct{}"
	case *ast.Ellipsis:
		return "..." + typeToString(t.Elt)
	case *ast.IndexExpr:
		return typeToString(t.X) + "[" + typeToString(t.Index) + "]"
	case *ast.IndexListExpr:
		parts := make([]string, 0, len(t.Indices))
		for _, idx := range t.Indices {
			parts = append(parts, typeToString(idx))
		}
		return typeToString(t.X) + "[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}
