package symbol

import (
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Provider answers the symbol interfaces from a loaded set of Go packages.
// It is read-only over the compilation snapshot; wrappers are cheap values
// created on demand.
type Provider struct {
	roots []*packages.Package
	pkgs  map[string]*packages.Package // import path -> package, transitively
	docs  map[string]map[token.Pos]string
}

// NewProvider wraps the packages produced by a loader run. The root packages
// are the scannable compilation units; their transitive imports stay
// available for nested type resolution. Doc indexes are built up front so
// the provider stays a read-only snapshot under concurrent scans.
func NewProvider(roots []*packages.Package) *Provider {
	p := &Provider{
		roots: roots,
		pkgs:  make(map[string]*packages.Package),
		docs:  make(map[string]map[token.Pos]string),
	}
	var visit func(*packages.Package)
	visit = func(pkg *packages.Package) {
		if _, ok := p.pkgs[pkg.PkgPath]; ok {
			return
		}
		p.pkgs[pkg.PkgPath] = pkg
		if len(pkg.Syntax) > 0 {
			p.docs[pkg.PkgPath] = buildDocIndex(pkg)
		}
		for _, imp := range pkg.Imports {
			visit(imp)
		}
	}
	for _, r := range roots {
		visit(r)
	}
	return p
}

// ScanPackages returns the root compilation units as scannable packages.
func (p *Provider) ScanPackages() []Package {
	out := make([]Package, 0, len(p.roots))
	for _, r := range p.roots {
		out = append(out, &goPackage{p: p, pkg: r})
	}
	return out
}

// WrapType exposes an arbitrary go/types type through the symbol interface.
// Used by tests and by tooling that starts from a single type.
func (p *Provider) WrapType(t types.Type) Type {
	return p.newType(t)
}

func (p *Provider) newType(t types.Type) *goType {
	return &goType{p: p, t: types.Unalias(t)}
}

// doc returns the doc comment recorded at an object's declaration position,
// or the empty string when the declaring package's syntax is unavailable.
// Pure read over the indexes built in NewProvider.
func (p *Provider) doc(obj types.Object) string {
	if obj == nil || obj.Pkg() == nil {
		return ""
	}
	return p.docs[obj.Pkg().Path()][obj.Pos()]
}

// buildDocIndex maps declaration-name positions to their doc comments for
// one package's syntax trees.
func buildDocIndex(pkg *packages.Package) map[token.Pos]string {
	idx := make(map[token.Pos]string)
	record := func(pos token.Pos, group *ast.CommentGroup) {
		if group == nil {
			return
		}
		if text := strings.TrimSpace(group.Text()); text != "" {
			idx[pos] = text
		}
	}
	for _, file := range pkg.Syntax {
		ast.Inspect(file, func(n ast.Node) bool {
			switch d := n.(type) {
			case *ast.FuncDecl:
				record(d.Name.Pos(), d.Doc)
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					if ts.Doc != nil {
						record(ts.Name.Pos(), ts.Doc)
					} else {
						record(ts.Name.Pos(), d.Doc)
					}
				}
			case *ast.StructType:
				for _, field := range d.Fields.List {
					group := field.Doc
					if group == nil {
						group = field.Comment
					}
					for _, name := range field.Names {
						record(name.Pos(), group)
					}
				}
			}
			return true
		})
	}
	return idx
}

type goPackage struct {
	p   *Provider
	pkg *packages.Package
}

func (g *goPackage) Name() string { return g.pkg.Name }
func (g *goPackage) Path() string { return g.pkg.PkgPath }

func (g *goPackage) Dir() string {
	if len(g.pkg.GoFiles) > 0 {
		return filepath.Dir(g.pkg.GoFiles[0])
	}
	return ""
}

func (g *goPackage) Types() []Type {
	scope := g.pkg.Types.Scope()
	var out []Type
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.IsAlias() {
			continue
		}
		out = append(out, g.p.newType(obj.Type()))
	}
	return out
}

type goType struct {
	p *Provider
	t types.Type
}

func (g *goType) named() (*types.Named, bool) {
	n, ok := g.t.(*types.Named)
	return n, ok
}

func (g *goType) Name() string {
	switch t := g.t.(type) {
	case *types.Named:
		return t.Obj().Name()
	case *types.Basic:
		return t.Name()
	}
	return ""
}

func (g *goType) Namespace() string {
	if n, ok := g.named(); ok && n.Obj().Pkg() != nil {
		return n.Obj().Pkg().Path()
	}
	return ""
}

func (g *goType) FullName() string {
	return types.TypeString(g.t, nil)
}

func (g *goType) IsBasic() bool {
	_, ok := g.t.Underlying().(*types.Basic)
	return ok
}

func (g *goType) Elem() (Type, bool) {
	switch u := g.t.Underlying().(type) {
	case *types.Slice:
		return g.p.newType(u.Elem()), true
	case *types.Array:
		return g.p.newType(u.Elem()), true
	case *types.Map:
		return g.p.newType(u.Elem()), true
	}
	return nil, false
}

func (g *goType) TypeArgs() []Type {
	n, ok := g.named()
	if !ok {
		return nil
	}
	args := n.TypeArgs()
	if args == nil || args.Len() == 0 {
		return nil
	}
	out := make([]Type, 0, args.Len())
	for i := 0; i < args.Len(); i++ {
		out = append(out, g.p.newType(args.At(i)))
	}
	return out
}

func (g *goType) BaseTypes() []Type {
	st, ok := g.t.Underlying().(*types.Struct)
	if !ok {
		return nil
	}
	var out []Type
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		out = append(out, g.p.newType(derefPointer(f.Type())))
	}
	return out
}

func (g *goType) Properties() []Property {
	st, ok := g.t.Underlying().(*types.Struct)
	if !ok {
		return nil
	}
	var out []Property
	for i := 0; i < st.NumFields(); i++ {
		out = append(out, &goProperty{p: g.p, field: st.Field(i), tag: st.Tag(i)})
	}
	return out
}

func (g *goType) Methods() []Method {
	n, ok := g.named()
	if !ok {
		return nil
	}
	var out []Method
	for i := 0; i < n.NumMethods(); i++ {
		out = append(out, &goMethod{p: g.p, fn: n.Method(i)})
	}
	return out
}

func (g *goType) Constructors() []Method {
	n, ok := g.named()
	if !ok || n.Obj().Pkg() == nil {
		return nil
	}
	pkg, ok := g.p.pkgs[n.Obj().Pkg().Path()]
	if !ok {
		return nil
	}
	scope := pkg.Types.Scope()
	var out []Method
	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok {
			continue
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.Recv() != nil || sig.Results().Len() == 0 {
			continue
		}
		first := derefPointer(sig.Results().At(0).Type())
		if types.Identical(first, g.t) {
			out = append(out, &goMethod{p: g.p, fn: fn})
		}
	}
	return out
}

func (g *goType) HasUnexportedFields() bool {
	st, ok := g.t.Underlying().(*types.Struct)
	if !ok {
		return false
	}
	for i := 0; i < st.NumFields(); i++ {
		if !st.Field(i).Exported() {
			return true
		}
	}
	return false
}

func (g *goType) Doc() string {
	if n, ok := g.named(); ok {
		return g.p.doc(n.Obj())
	}
	return ""
}

type goProperty struct {
	p     *Provider
	field *types.Var
	tag   string
}

func (g *goProperty) Name() string { return g.field.Name() }

func (g *goProperty) Type() Type {
	return g.p.newType(derefPointer(g.field.Type()))
}

func (g *goProperty) Nullable() bool {
	_, ok := g.field.Type().(*types.Pointer)
	return ok
}

func (g *goProperty) RequiredTag() bool {
	tag := reflect.StructTag(g.tag).Get("domain")
	for _, part := range strings.Split(tag, ",") {
		if part == "required" {
			return true
		}
	}
	return false
}

func (g *goProperty) Exported() bool    { return g.field.Exported() }
func (g *goProperty) Static() bool      { return false }
func (g *goProperty) Synthesized() bool { return g.field.Embedded() }
func (g *goProperty) Doc() string       { return g.p.doc(g.field) }

type goMethod struct {
	p  *Provider
	fn *types.Func
}

func (g *goMethod) Name() string      { return g.fn.Name() }
func (g *goMethod) Exported() bool    { return g.fn.Exported() }
func (g *goMethod) Synthesized() bool { return false }
func (g *goMethod) Doc() string       { return g.p.doc(g.fn) }

func (g *goMethod) Static() bool {
	sig := g.fn.Type().(*types.Signature)
	return sig.Recv() == nil
}

func (g *goMethod) Params() []Param {
	sig := g.fn.Type().(*types.Signature)
	params := sig.Params()
	out := make([]Param, 0, params.Len())
	for i := 0; i < params.Len(); i++ {
		v := params.At(i)
		variadic := sig.Variadic() && i == params.Len()-1
		t := v.Type()
		if variadic {
			// A variadic parameter arrives as []T; the modeled type is T.
			if s, ok := t.(*types.Slice); ok {
				t = s.Elem()
			}
		}
		_, ptr := t.(*types.Pointer)
		out = append(out, &goParam{
			name:      v.Name(),
			typ:       g.p.newType(derefPointer(t)),
			nullable:  ptr,
			defaulted: variadic,
		})
	}
	return out
}

func (g *goMethod) Results() []Type {
	sig := g.fn.Type().(*types.Signature)
	results := sig.Results()
	out := make([]Type, 0, results.Len())
	for i := 0; i < results.Len(); i++ {
		out = append(out, g.p.newType(derefPointer(results.At(i).Type())))
	}
	return out
}

type goParam struct {
	name      string
	typ       Type
	nullable  bool
	defaulted bool
}

func (g *goParam) Name() string    { return g.name }
func (g *goParam) Type() Type      { return g.typ }
func (g *goParam) Nullable() bool  { return g.nullable }
func (g *goParam) Defaulted() bool { return g.defaulted }

func derefPointer(t types.Type) types.Type {
	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		return types.Unalias(p.Elem())
	}
	return t
}
