// Package analyzer turns symbol-provider type descriptors into the
// normalized model: it classifies members, resolves aggregate identifiers,
// buckets use cases, and assembles projects and solutions.
package analyzer

import (
	"github.com/aggregen/aggregen/internal/model"
	"github.com/aggregen/aggregen/internal/policy"
	"github.com/aggregen/aggregen/internal/symbol"
)

// maxNestingDepth caps nested-member expansion depth and maxNestedMembers
// caps the member count per level. Prevents stack overflow and output
// blowup from pathologically nested or wide type graphs.
const (
	maxNestingDepth  = 20
	maxNestedMembers = 200
)

// classifier performs member classification for one analysis walk. It is
// pure over read-only symbol input; the expanding set breaks
// self-referential type cycles by stopping (not failing) nested expansion
// for a type that is already being expanded one level up.
type classifier struct {
	policy *policy.Policy
	// expanding tracks full names of types currently being expanded.
	expanding map[string]bool
	depth     int
}

func newClassifier(p *policy.Policy) *classifier {
	return &classifier{
		policy:    p,
		expanding: make(map[string]bool),
	}
}

func (c *classifier) typeRef(t symbol.Type) model.TypeRef {
	return model.TypeRef{
		Name:      t.Name(),
		Namespace: t.Namespace(),
		FullName:  t.FullName(),
	}
}

// effective unwraps an asynchronous-wrapper generic with exactly one type
// argument to that argument. The unwrap is single-level: a wrapper nested
// inside another wrapper is left intact.
func (c *classifier) effective(t symbol.Type) symbol.Type {
	if args := t.TypeArgs(); len(args) == 1 && c.policy.IsAsyncWrapper(t.Name()) {
		return args[0]
	}
	return t
}

// classifyProperty models one field. A property is required when it carries
// the required modifier or is declared non-nullable.
func (c *classifier) classifyProperty(p symbol.Property) model.Member {
	required := p.RequiredTag() || !p.Nullable()
	return c.classify(p.Name(), p.Type(), required, p.Doc())
}

// classifyParam models one parameter. A parameter is required when it is
// neither nullable nor omittable at the call site.
func (c *classifier) classifyParam(p symbol.Param) model.Member {
	required := !p.Nullable() && !p.Defaulted()
	return c.classify(p.Name(), p.Type(), required, "")
}

// classifyReturn models a method's return value: the first non-error result,
// or nil for void operations. Return values are always required.
func (c *classifier) classifyReturn(results []symbol.Type) *model.Member {
	for _, r := range results {
		if r.FullName() == "error" {
			continue
		}
		m := c.classify("", r, true, "")
		return &m
	}
	return nil
}

// classify runs the member-classification algorithm: async unwrap, then
// collection shape, then the complexity test on the effective subject (the
// element type for collections), then nested-member expansion.
func (c *classifier) classify(name string, t symbol.Type, required bool, doc string) model.Member {
	t = c.effective(t)

	m := model.Member{
		Name:          name,
		Type:          c.typeRef(t),
		IsRequired:    required,
		Documentation: doc,
	}

	subject := t
	if elem, ok := c.collectionElem(t); ok {
		m.IsCollection = true
		ref := c.typeRef(elem)
		m.ElementType = &ref
		subject = elem
	}

	if c.isComplex(subject) {
		m.IsComplex = true
		m.NestedMembers = c.nested(subject)
	}

	return m
}

// collectionElem reports whether a type is list-shaped and returns its
// element type: arrays, slices, and maps by underlying shape, plus generic
// containers with a single type argument named in the policy.
func (c *classifier) collectionElem(t symbol.Type) (symbol.Type, bool) {
	if elem, ok := t.Elem(); ok {
		return elem, true
	}
	if args := t.TypeArgs(); len(args) == 1 && c.policy.IsCollectionTypeName(t.Name()) {
		return args[0], true
	}
	return nil, false
}

// isComplex applies the complexity test: value types and well-known system
// types are never complex; a generic type is complex iff any of its type
// arguments is; any other type is complex.
func (c *classifier) isComplex(t symbol.Type) bool {
	if t.IsBasic() {
		return false
	}
	if c.policy.IsSystemType(t.FullName(), t.Namespace()) {
		return false
	}
	if args := t.TypeArgs(); len(args) > 0 {
		for _, arg := range args {
			if c.isComplex(arg) {
				return true
			}
		}
		return false
	}
	return true
}

// nested expands the public, non-static, non-synthesized properties of a
// complex type, including those promoted from its bases, each recursively
// classified. Expansion stops with an empty member list when the type is
// already being expanded higher up the same walk.
func (c *classifier) nested(t symbol.Type) []model.Member {
	key := t.FullName()
	if c.expanding[key] || c.depth >= maxNestingDepth {
		return []model.Member{}
	}
	c.expanding[key] = true
	c.depth++
	defer func() {
		delete(c.expanding, key)
		c.depth--
	}()

	members := []model.Member{}
	for _, level := range chain(t) {
		for _, prop := range level.Properties() {
			if !prop.Exported() || prop.Static() || prop.Synthesized() {
				continue
			}
			if len(members) >= maxNestedMembers {
				return members
			}
			members = model.AppendMember(members, c.classifyProperty(prop))
		}
	}
	return members
}

// chain returns a type followed by its base types, most-derived-first,
// walking embedded parents as an explicit worklist until the chain runs out.
func chain(t symbol.Type) []symbol.Type {
	var out []symbol.Type
	seen := make(map[string]bool)
	work := []symbol.Type{t}
	for len(work) > 0 {
		cur := work[0]
		work = work[1:]
		if seen[cur.FullName()] {
			continue
		}
		seen[cur.FullName()] = true
		out = append(out, cur)
		work = append(work, cur.BaseTypes()...)
	}
	return out
}
