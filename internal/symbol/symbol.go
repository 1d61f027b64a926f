// Package symbol defines the narrow capability set the analysis engine
// requires from a compiler front end: type members, inheritance links,
// accessibility, generic arguments, and documentation strings. The engine
// never reaches past these interfaces, so any symbol source that can answer
// them — the go/types-backed provider in this package, or an in-memory fake
// in tests — can drive an analysis run.
package symbol

// Type describes one resolvable type.
type Type interface {
	// Name is the simple type name; empty for unnamed composite types.
	Name() string
	// Namespace is the declaring package's import path; empty for
	// predeclared and unnamed types.
	Namespace() string
	// FullName is the display-qualified name. Equality of types is
	// equality of full names.
	FullName() string

	// IsBasic reports whether the type's underlying shape is a
	// predeclared value type (including named string/int enumerations).
	IsBasic() bool

	// Elem returns the element type of an array, slice, or map shape
	// (the value type for maps), and whether the type has one.
	Elem() (Type, bool)

	// TypeArgs returns the instantiated generic type arguments, if any.
	TypeArgs() []Type

	// BaseTypes returns the embedded types, in declaration order. This is
	// the inheritance link the engine walks most-derived-first.
	BaseTypes() []Type

	// Properties returns the fields declared on this type itself, not on
	// its bases.
	Properties() []Property

	// Methods returns the methods declared on this type itself, not the
	// promoted ones.
	Methods() []Method

	// Constructors returns the package-level functions in the type's
	// package whose first result is this type (or a pointer to it).
	Constructors() []Method

	// HasUnexportedFields reports whether the struct carries fields that
	// outside packages cannot set, which rules out literal construction.
	HasUnexportedFields() bool

	Doc() string
}

// Property describes one field together with its declared nullability and
// required-modifier facts.
type Property interface {
	Name() string
	// Type is the property's type with any pointer indirection stripped;
	// Nullable reports whether the indirection was present.
	Type() Type
	Nullable() bool
	// RequiredTag reports the explicit required-member modifier
	// (`domain:"required"` on the field).
	RequiredTag() bool
	Exported() bool
	Static() bool
	// Synthesized marks compiler-generated members, such as embedded
	// base-type fields.
	Synthesized() bool
	Doc() string
}

// Method describes one callable: a method or a package-level function.
type Method interface {
	Name() string
	Exported() bool
	// Static reports package-level functions (no receiver).
	Static() bool
	Synthesized() bool
	Params() []Param
	// Results returns the raw result types, error results included.
	Results() []Type
	Doc() string
}

// Param describes one parameter with its optionality facts.
type Param interface {
	Name() string
	// Type is the parameter type with pointer indirection stripped.
	Type() Type
	Nullable() bool
	// Defaulted reports whether the parameter can be omitted at the call
	// site (variadic).
	Defaulted() bool
}

// Package is one compilation unit offered for scanning.
type Package interface {
	Name() string
	// Path is the package's import path.
	Path() string
	// Dir is the package's directory on disk.
	Dir() string
	// Types returns the named types declared at package scope.
	Types() []Type
}
