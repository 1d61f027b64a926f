package analyzer

import (
	"strings"

	"github.com/aggregen/aggregen/internal/symbol"
)

// In-memory symbol fakes. The engine only sees the narrow symbol interfaces,
// so tests assemble type graphs directly instead of compiling fixtures.

type fakeType struct {
	name       string
	ns         string
	full       string
	basic      bool
	elem       symbol.Type
	args       []symbol.Type
	bases      []symbol.Type
	props      []symbol.Property
	methods    []symbol.Method
	ctors      []symbol.Method
	unexported bool
	doc        string
}

func (f *fakeType) Name() string                  { return f.name }
func (f *fakeType) Namespace() string             { return f.ns }
func (f *fakeType) FullName() string              { return f.full }
func (f *fakeType) IsBasic() bool                 { return f.basic }
func (f *fakeType) TypeArgs() []symbol.Type       { return f.args }
func (f *fakeType) BaseTypes() []symbol.Type      { return f.bases }
func (f *fakeType) Properties() []symbol.Property { return f.props }
func (f *fakeType) Methods() []symbol.Method      { return f.methods }
func (f *fakeType) Constructors() []symbol.Method { return f.ctors }
func (f *fakeType) HasUnexportedFields() bool     { return f.unexported }
func (f *fakeType) Doc() string                   { return f.doc }

func (f *fakeType) Elem() (symbol.Type, bool) {
	if f.elem != nil {
		return f.elem, true
	}
	return nil, false
}

func basicType(name string) *fakeType {
	return &fakeType{name: name, full: name, basic: true}
}

func namedType(ns, name string) *fakeType {
	return &fakeType{name: name, ns: ns, full: ns + "." + name}
}

func sliceOf(elem symbol.Type) *fakeType {
	return &fakeType{full: "[]" + elem.FullName(), elem: elem}
}

func genericType(ns, name string, args ...symbol.Type) *fakeType {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.FullName()
	}
	full := name + "[" + strings.Join(parts, ",") + "]"
	if ns != "" {
		full = ns + "." + full
	}
	return &fakeType{name: name, ns: ns, full: full, args: args}
}

func uuidType() *fakeType {
	return namedType("github.com/google/uuid", "UUID")
}

// rootMarker is the embedded base that flags an aggregate-root candidate
// under the default policy.
func rootMarker() *fakeType {
	return namedType("example.com/shop/domain", "AggregateRoot")
}

type fakeProp struct {
	name     string
	typ      symbol.Type
	nullable bool
	required bool
	hidden   bool
	synth    bool
	doc      string
}

func (f *fakeProp) Name() string      { return f.name }
func (f *fakeProp) Type() symbol.Type { return f.typ }
func (f *fakeProp) Nullable() bool    { return f.nullable }
func (f *fakeProp) RequiredTag() bool { return f.required }
func (f *fakeProp) Exported() bool    { return !f.hidden }
func (f *fakeProp) Static() bool      { return false }
func (f *fakeProp) Synthesized() bool { return f.synth }
func (f *fakeProp) Doc() string       { return f.doc }

func prop(name string, typ symbol.Type) *fakeProp {
	return &fakeProp{name: name, typ: typ}
}

type fakeParam struct {
	name      string
	typ       symbol.Type
	nullable  bool
	defaulted bool
}

func (f *fakeParam) Name() string      { return f.name }
func (f *fakeParam) Type() symbol.Type { return f.typ }
func (f *fakeParam) Nullable() bool    { return f.nullable }
func (f *fakeParam) Defaulted() bool   { return f.defaulted }

func param(name string, typ symbol.Type) *fakeParam {
	return &fakeParam{name: name, typ: typ}
}

type fakeMethod struct {
	name    string
	hidden  bool
	static  bool
	params  []symbol.Param
	results []symbol.Type
	doc     string
}

func (f *fakeMethod) Name() string           { return f.name }
func (f *fakeMethod) Exported() bool         { return !f.hidden }
func (f *fakeMethod) Static() bool           { return f.static }
func (f *fakeMethod) Synthesized() bool      { return false }
func (f *fakeMethod) Params() []symbol.Param { return f.params }
func (f *fakeMethod) Results() []symbol.Type { return f.results }
func (f *fakeMethod) Doc() string            { return f.doc }

func method(name string, params ...symbol.Param) *fakeMethod {
	return &fakeMethod{name: name, params: params}
}

func methodReturning(name string, result symbol.Type, params ...symbol.Param) *fakeMethod {
	return &fakeMethod{name: name, params: params, results: []symbol.Type{result}}
}

func factory(name string, params ...symbol.Param) *fakeMethod {
	return &fakeMethod{name: name, static: true, params: params}
}

type fakePackage struct {
	name  string
	path  string
	dir   string
	types []symbol.Type
}

func (f *fakePackage) Name() string         { return f.name }
func (f *fakePackage) Path() string         { return f.path }
func (f *fakePackage) Dir() string          { return f.dir }
func (f *fakePackage) Types() []symbol.Type { return f.types }
