// Package policy holds the data-driven classification rules that shape the
// generated model: name-prefix tables for use-case buckets, aggregate-root
// markers, async-wrapper and collection type names, system-type namespaces,
// and the missing-identifier behavior. Keeping these as a plain, loadable
// value makes classification inspectable and testable without touching the
// analysis control flow.
package policy

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/aggregen/aggregen/internal/model"
)

// Bucket is the use-case category a method name classifies into.
type Bucket string

const (
	BucketCreate Bucket = "create"
	BucketRead   Bucket = "read"
	BucketUpdate Bucket = "update"
	BucketDelete Bucket = "delete"
)

// MissingIDMode selects the behavior when an aggregate root has no
// identifier property anywhere along its embedding chain.
type MissingIDMode string

const (
	// MissingIDFail rejects the aggregate with a descriptive error.
	MissingIDFail MissingIDMode = "fail"
	// MissingIDDefaultGUID silently resolves the identifier type to
	// uuid.UUID and records a warning.
	MissingIDDefaultGUID MissingIDMode = "defaultGuid"
)

// LayerRule maps import-path segments to an architectural layer.
type LayerRule struct {
	Layer    model.Layer `yaml:"layer"`
	Segments []string    `yaml:"segments"`
}

// Policy is the versioned rule set for one analysis run.
type Policy struct {
	// Prefix tables, matched case-insensitively on a word boundary, in
	// fixed precedence: create, delete, read; anything else is an update.
	CreatePrefixes []string `yaml:"createPrefixes"`
	DeletePrefixes []string `yaml:"deletePrefixes"`
	ReadPrefixes   []string `yaml:"readPrefixes"`

	// RootMarkers are the embedded type names that flag a struct as an
	// aggregate-root candidate.
	RootMarkers []string `yaml:"rootMarkers"`

	// AsyncWrappers are generic type names unwrapped (once) to their
	// single type argument before classification.
	AsyncWrappers []string `yaml:"asyncWrappers"`

	// CollectionTypes are generic type names with a single type argument
	// that are treated as list-shaped even when their underlying shape is
	// opaque.
	CollectionTypes []string `yaml:"collectionTypes"`

	// SystemNamespaces are import-path prefixes whose types are never
	// complex. WellKnownTypes lists individual full names with the same
	// effect.
	SystemNamespaces []string `yaml:"systemNamespaces"`
	WellKnownTypes   []string `yaml:"wellKnownTypes"`

	// ExcludedMembers are inherited bookkeeping property names dropped
	// from aggregate members. ExcludedMethods are framework-noise method
	// names dropped from use-case classification.
	ExcludedMembers []string `yaml:"excludedMembers"`
	ExcludedMethods []string `yaml:"excludedMethods"`

	// FactoryPrefixes and ConstructorPrefixes name the package-level
	// functions recognized as static factories ("Create"+Type) and
	// constructors ("New"+Type).
	FactoryPrefixes     []string `yaml:"factoryPrefixes"`
	ConstructorPrefixes []string `yaml:"constructorPrefixes"`

	MissingID MissingIDMode `yaml:"missingId"`

	// Layers classify projects by import-path segment; first match wins.
	Layers []LayerRule `yaml:"layers"`
}

// Default returns the built-in policy.
func Default() *Policy {
	return &Policy{
		CreatePrefixes: []string{"create"},
		DeletePrefixes: []string{"delete", "remove"},
		ReadPrefixes: []string{
			"get", "find", "calculate", "compute", "search", "fetch",
			"retrieve", "query", "list", "count", "check", "validate",
			"verify", "is", "has", "can",
		},
		RootMarkers:     []string{"AggregateRoot"},
		AsyncWrappers:   []string{"Task", "Future", "Promise", "Async", "Result"},
		CollectionTypes: []string{"List", "Set", "Collection"},
		SystemNamespaces: []string{
			"time", "net", "math/big", "encoding",
			"github.com/google/uuid",
		},
		WellKnownTypes: []string{
			"time.Time", "time.Duration", "github.com/google/uuid.UUID",
			"[]byte", "error",
		},
		ExcludedMembers: []string{"DomainEvents", "Events", "UncommittedEvents"},
		ExcludedMethods: []string{
			"String", "Error", "GoString", "Equal", "Hash",
			"MarshalJSON", "UnmarshalJSON", "RaiseEvent", "ClearEvents",
		},
		FactoryPrefixes:     []string{"Create"},
		ConstructorPrefixes: []string{"New"},
		MissingID:           MissingIDFail,
		Layers: []LayerRule{
			{Layer: model.LayerDomain, Segments: []string{"domain"}},
			{Layer: model.LayerApplication, Segments: []string{"application", "app", "usecase", "usecases"}},
			{Layer: model.LayerWeb, Segments: []string{"web", "api", "http", "transport", "handlers"}},
			{Layer: model.LayerInfrastructure, Segments: []string{"infrastructure", "infra", "persistence", "storage", "repository"}},
		},
	}
}

// Load reads a YAML policy file and merges it over the defaults: a field
// present in the file replaces the default wholesale, an absent field keeps
// the default.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy file %q: %w", path, err)
	}

	var loaded Policy
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parsing policy file %q: %w", path, err)
	}

	p := Default()
	p.merge(&loaded)
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy in %q: %w", path, err)
	}
	return p, nil
}

func (p *Policy) merge(loaded *Policy) {
	if loaded.CreatePrefixes != nil {
		p.CreatePrefixes = loaded.CreatePrefixes
	}
	if loaded.DeletePrefixes != nil {
		p.DeletePrefixes = loaded.DeletePrefixes
	}
	if loaded.ReadPrefixes != nil {
		p.ReadPrefixes = loaded.ReadPrefixes
	}
	if loaded.RootMarkers != nil {
		p.RootMarkers = loaded.RootMarkers
	}
	if loaded.AsyncWrappers != nil {
		p.AsyncWrappers = loaded.AsyncWrappers
	}
	if loaded.CollectionTypes != nil {
		p.CollectionTypes = loaded.CollectionTypes
	}
	if loaded.SystemNamespaces != nil {
		p.SystemNamespaces = loaded.SystemNamespaces
	}
	if loaded.WellKnownTypes != nil {
		p.WellKnownTypes = loaded.WellKnownTypes
	}
	if loaded.ExcludedMembers != nil {
		p.ExcludedMembers = loaded.ExcludedMembers
	}
	if loaded.ExcludedMethods != nil {
		p.ExcludedMethods = loaded.ExcludedMethods
	}
	if loaded.FactoryPrefixes != nil {
		p.FactoryPrefixes = loaded.FactoryPrefixes
	}
	if loaded.ConstructorPrefixes != nil {
		p.ConstructorPrefixes = loaded.ConstructorPrefixes
	}
	if loaded.MissingID != "" {
		p.MissingID = loaded.MissingID
	}
	if loaded.Layers != nil {
		p.Layers = loaded.Layers
	}
}

// Validate checks the policy for logical errors.
func (p *Policy) Validate() error {
	if len(p.RootMarkers) == 0 {
		return fmt.Errorf("rootMarkers must have at least one entry")
	}
	switch p.MissingID {
	case MissingIDFail, MissingIDDefaultGUID:
	default:
		return fmt.Errorf("missingId must be %q or %q, got %q",
			MissingIDFail, MissingIDDefaultGUID, p.MissingID)
	}
	return nil
}

// ClassifyMethodName assigns a method name to a use-case bucket by
// case-insensitive prefix on a word boundary, in fixed precedence
// create > delete > read; any unmatched name is an update. The boundary
// check keeps "Cancel" out of the "can" prefix while "CanCancel" matches it.
func (p *Policy) ClassifyMethodName(name string) Bucket {
	for _, prefix := range p.CreatePrefixes {
		if matchesPrefix(name, prefix) {
			return BucketCreate
		}
	}
	for _, prefix := range p.DeletePrefixes {
		if matchesPrefix(name, prefix) {
			return BucketDelete
		}
	}
	for _, prefix := range p.ReadPrefixes {
		if matchesPrefix(name, prefix) {
			return BucketRead
		}
	}
	return BucketUpdate
}

func matchesPrefix(name, prefix string) bool {
	if len(name) < len(prefix) || !strings.EqualFold(name[:len(prefix)], prefix) {
		return false
	}
	if len(name) == len(prefix) {
		return true
	}
	next := rune(name[len(prefix)])
	return unicode.IsUpper(next) || unicode.IsDigit(next) || next == '_'
}

// IsRootMarker reports whether an embedded type name flags an aggregate root.
func (p *Policy) IsRootMarker(name string) bool {
	return contains(p.RootMarkers, name)
}

// IsAsyncWrapper reports whether a generic type name is an asynchronous
// result wrapper to unwrap.
func (p *Policy) IsAsyncWrapper(name string) bool {
	return contains(p.AsyncWrappers, name)
}

// IsCollectionTypeName reports whether a generic type name is list-shaped by
// convention.
func (p *Policy) IsCollectionTypeName(name string) bool {
	return contains(p.CollectionTypes, name)
}

// IsSystemType reports whether a type is a well-known system type, which is
// never modeled as complex.
func (p *Policy) IsSystemType(fullName, namespace string) bool {
	if contains(p.WellKnownTypes, fullName) {
		return true
	}
	for _, prefix := range p.SystemNamespaces {
		if namespace == prefix || strings.HasPrefix(namespace, prefix+"/") {
			return true
		}
	}
	return false
}

// IsExcludedMember reports whether a property name is inherited bookkeeping.
func (p *Policy) IsExcludedMember(name string) bool {
	return contains(p.ExcludedMembers, name)
}

// IsExcludedMethod reports whether a method name is framework noise.
func (p *Policy) IsExcludedMethod(name string) bool {
	return contains(p.ExcludedMethods, name)
}

// FactoryNames returns the recognized static-factory function names for a
// type, most specific first: "CreateInvoice", then the bare "Create" used
// by single-type packages.
func (p *Policy) FactoryNames(typeName string) []string {
	names := make([]string, 0, 2*len(p.FactoryPrefixes))
	for _, prefix := range p.FactoryPrefixes {
		names = append(names, prefix+typeName)
	}
	names = append(names, p.FactoryPrefixes...)
	return names
}

// ConstructorNames returns the recognized constructor function names for a
// type, most specific first: "NewInvoice", then the bare "New".
func (p *Policy) ConstructorNames(typeName string) []string {
	names := make([]string, 0, 2*len(p.ConstructorPrefixes))
	for _, prefix := range p.ConstructorPrefixes {
		names = append(names, prefix+typeName)
	}
	names = append(names, p.ConstructorPrefixes...)
	return names
}

// LayerFor classifies an import path by its segments; first matching rule
// wins, unmatched paths are LayerOther.
func (p *Policy) LayerFor(importPath string) model.Layer {
	segments := strings.Split(importPath, "/")
	for _, rule := range p.Layers {
		for _, segment := range segments {
			if contains(rule.Segments, strings.ToLower(segment)) {
				return rule.Layer
			}
		}
	}
	return model.LayerOther
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
