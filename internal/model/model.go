// Package model defines the normalized, language-agnostic representation of a
// solution's domain types — the intermediate model that drives template-based
// code generation. Every record here is plain data: constructed once by the
// analyzer, immutable afterwards, and serializable as camelCase JSON.
package model

// TypeRef is a normalized name/namespace/full-name triple for any type
// reference. Two TypeRefs are equal iff their FullName matches.
type TypeRef struct {
	// Name is the simple type name (e.g., "Invoice", "string").
	Name string `json:"name"`

	// Namespace is the containing package's import path. Empty for
	// predeclared and unnamed types.
	Namespace string `json:"namespace,omitempty"`

	// FullName is the display-qualified name (e.g.,
	// "example.com/shop/domain.Invoice", "[]int").
	FullName string `json:"fullName"`
}

// Equal reports whether two type references denote the same type.
func (r TypeRef) Equal(o TypeRef) bool {
	return r.FullName == o.FullName
}

// IsZero reports whether the reference is unset.
func (r TypeRef) IsZero() bool {
	return r.FullName == "" && r.Name == ""
}

// Member describes one property, parameter, or return value.
type Member struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`

	// IsRequired is true for non-nullable members without a default.
	IsRequired bool `json:"isRequired"`

	// IsCollection is true for list-shaped members. ElementType is set
	// iff IsCollection is true.
	IsCollection bool     `json:"isCollection"`
	ElementType  *TypeRef `json:"elementType,omitempty"`

	// IsComplex is true when the member's effective type (the element
	// type for collections) is modeled with its own nested structure.
	// NestedMembers is populated iff IsComplex is true; it is empty when
	// expansion was stopped to break a self-referential type cycle.
	IsComplex     bool     `json:"isComplex"`
	NestedMembers []Member `json:"nestedMembers,omitempty"`

	Documentation string `json:"documentation,omitempty"`
}

// UseCase is a named domain operation exposed as a method on an aggregate
// root. ReturnType is nil for void operations; asynchronous result wrappers
// are unwrapped before the return value is modeled.
type UseCase struct {
	Name          string   `json:"name"`
	Parameters    []Member `json:"parameters,omitempty"`
	ReturnType    *Member  `json:"returnType,omitempty"`
	Documentation string   `json:"documentation,omitempty"`
}

// Signature returns the identity key of a use case: the method name plus the
// ordered parameter type list. Overrides along an inheritance chain share a
// signature and must be counted once.
func (u UseCase) Signature() string {
	sig := u.Name + "("
	for i, p := range u.Parameters {
		if i > 0 {
			sig += ","
		}
		sig += p.Type.FullName
	}
	return sig + ")"
}

// Mechanism identifies the construction strategy chosen to synthesize a new
// aggregate instance.
type Mechanism string

const (
	MechanismConstructor              Mechanism = "constructor"
	MechanismStaticFactoryMethod      Mechanism = "staticFactoryMethod"
	MechanismInitOnlyProperties       Mechanism = "initOnlyProperties"
	MechanismParameterlessConstructor Mechanism = "parameterlessConstructor"
)

// CreateUseCase is a use case that creates a new aggregate instance. Exactly
// one creation mechanism is chosen per aggregate, by fixed priority.
type CreateUseCase struct {
	UseCase
	Mechanism Mechanism `json:"mechanism"`
}

// Aggregate is a root entity: its identifier type, member list, and four
// mutually exclusive use-case buckets.
type Aggregate struct {
	Name      string  `json:"name"`
	Namespace string  `json:"namespace"`
	IDType    TypeRef `json:"idType"`

	Members []Member `json:"members,omitempty"`

	CreateUseCases []CreateUseCase `json:"createUseCases,omitempty"`
	ReadUseCases   []UseCase       `json:"readUseCases,omitempty"`
	UpdateUseCases []UseCase       `json:"updateUseCases,omitempty"`
	DeleteUseCases []UseCase       `json:"deleteUseCases,omitempty"`

	Documentation string `json:"documentation,omitempty"`
}

// Layer classifies a project within the solution's architecture.
type Layer string

const (
	LayerDomain         Layer = "domain"
	LayerApplication    Layer = "application"
	LayerWeb            Layer = "web"
	LayerInfrastructure Layer = "infrastructure"
	LayerOther          Layer = "other"
)

// Project is one compilation unit (a Go package) within the solution. Only
// domain-layer projects carry aggregates.
type Project struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	FullPath  string `json:"fullPath"`

	// AssemblyName is the module-relative import path, the closest analog
	// of a compiled unit name.
	AssemblyName string `json:"assemblyName"`

	Layer      Layer       `json:"layer"`
	Aggregates []Aggregate `json:"aggregates,omitempty"`
}

// Solution is the root container: one analyzed module and its projects.
type Solution struct {
	Name     string    `json:"name"`
	FullPath string    `json:"fullPath"`
	Projects []Project `json:"projects,omitempty"`
}

// AppendMember appends m to list unless a member with the same name is
// already present, preserving insertion order. Walking an inheritance chain
// most-derived-first therefore keeps the most-derived declaration.
func AppendMember(list []Member, m Member) []Member {
	for _, existing := range list {
		if existing.Name == m.Name {
			return list
		}
	}
	return append(list, m)
}

// AppendUseCase appends u to list unless a use case with the same signature
// is already present, so overrides along the chain are not double-counted.
func AppendUseCase(list []UseCase, u UseCase) []UseCase {
	sig := u.Signature()
	for _, existing := range list {
		if existing.Signature() == sig {
			return list
		}
	}
	return append(list, u)
}
