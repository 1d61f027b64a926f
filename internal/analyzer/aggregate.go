package analyzer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aggregen/aggregen/internal/diagnostic"
	"github.com/aggregen/aggregen/internal/model"
	"github.com/aggregen/aggregen/internal/policy"
	"github.com/aggregen/aggregen/internal/symbol"
)

// guidIDType is the identifier type substituted under the defaultGuid
// missing-identifier policy.
var guidIDType = model.TypeRef{
	Name:      "UUID",
	Namespace: "github.com/google/uuid",
	FullName:  "github.com/google/uuid.UUID",
}

// MissingIDError reports an aggregate root with no identifier property
// anywhere along its embedding chain. It is fatal for that aggregate only.
type MissingIDError struct {
	Type string
}

func (e *MissingIDError) Error() string {
	return fmt.Sprintf("aggregate root %s has no public identifier property named %q or ending in %q on the type or its bases", e.Type, "Id", "Id")
}

// Builder lazily analyzes one aggregate-root candidate. Analysis runs on
// first access and is memoized behind an initialization barrier, so
// concurrent access observes a single converged result.
type Builder struct {
	typ    symbol.Type
	policy *policy.Policy
	diags  *diagnostic.Collector

	once sync.Once
	agg  *model.Aggregate
	err  error
}

// NewBuilder prepares a lazy builder for the given root candidate.
func NewBuilder(t symbol.Type, p *policy.Policy, diags *diagnostic.Collector) *Builder {
	return &Builder{typ: t, policy: p, diags: diags}
}

// Aggregate returns the analyzed aggregate, running the analysis on first
// call.
func (b *Builder) Aggregate() (*model.Aggregate, error) {
	b.once.Do(func() {
		b.agg, b.err = b.build()
	})
	return b.agg, b.err
}

func (b *Builder) build() (*model.Aggregate, error) {
	c := newClassifier(b.policy)

	idType, err := b.resolveID(c)
	if err != nil {
		return nil, err
	}

	agg := &model.Aggregate{
		Name:          b.typ.Name(),
		Namespace:     b.typ.Namespace(),
		IDType:        idType,
		Members:       b.members(c),
		Documentation: b.typ.Doc(),
	}

	if create := b.createUseCase(c); create != nil {
		agg.CreateUseCases = []model.CreateUseCase{*create}
	} else {
		b.diags.Warnf(diagnostic.CategoryNoCreateMechanism, b.typ.FullName(),
			"no public creation mechanism; the aggregate is modeled without a create use case")
	}

	agg.ReadUseCases, agg.UpdateUseCases, agg.DeleteUseCases = b.useCases(c)
	return agg, nil
}

// resolveID walks the type and its bases most-derived-first, looking at each
// level for a public readable property named exactly "Id" (case-insensitive)
// or ending in "Id". The first match along the walk wins.
func (b *Builder) resolveID(c *classifier) (model.TypeRef, error) {
	for _, level := range chain(b.typ) {
		for _, prop := range level.Properties() {
			if !prop.Exported() || prop.Static() || prop.Synthesized() {
				continue
			}
			if isIDName(prop.Name()) {
				return c.typeRef(c.effective(prop.Type())), nil
			}
		}
	}

	if b.policy.MissingID == policy.MissingIDDefaultGUID {
		b.diags.Warnf(diagnostic.CategoryMissingID, b.typ.FullName(),
			"no identifier property found; defaulting to %s per policy", guidIDType.FullName)
		return guidIDType, nil
	}
	return model.TypeRef{}, &MissingIDError{Type: b.typ.FullName()}
}

func isIDName(name string) bool {
	if strings.EqualFold(name, "id") {
		return true
	}
	return strings.HasSuffix(name, "Id") || strings.HasSuffix(name, "ID")
}

// members collects the public, non-static, non-synthesized properties of the
// type and its ancestors, most-derived-first, minus the policy's bookkeeping
// names, deduplicated by name.
func (b *Builder) members(c *classifier) []model.Member {
	members := []model.Member{}
	for _, level := range chain(b.typ) {
		for _, prop := range level.Properties() {
			if !prop.Exported() || prop.Static() || prop.Synthesized() {
				continue
			}
			if b.policy.IsExcludedMember(prop.Name()) {
				continue
			}
			members = model.AppendMember(members, c.classifyProperty(prop))
		}
	}
	return members
}

// useCases classifies every qualifying method on the aggregate and its
// ancestors into the read/update/delete buckets by name prefix. Methods
// matching a create prefix are excluded here; creation is owned by the
// dedicated mechanism pass. Overrides along the chain are counted once,
// keyed by name plus ordered parameter types.
func (b *Builder) useCases(c *classifier) (reads, updates, deletes []model.UseCase) {
	for _, level := range chain(b.typ) {
		for _, m := range level.Methods() {
			if !m.Exported() || m.Static() || m.Synthesized() {
				continue
			}
			if b.policy.IsExcludedMethod(m.Name()) {
				continue
			}
			bucket := b.policy.ClassifyMethodName(m.Name())
			if bucket == policy.BucketCreate {
				continue
			}
			u := b.useCase(c, m)
			switch bucket {
			case policy.BucketDelete:
				deletes = model.AppendUseCase(deletes, u)
			case policy.BucketRead:
				reads = model.AppendUseCase(reads, u)
			default:
				updates = model.AppendUseCase(updates, u)
			}
		}
	}
	return reads, updates, deletes
}

func (b *Builder) useCase(c *classifier, m symbol.Method) model.UseCase {
	u := model.UseCase{Name: m.Name(), Documentation: m.Doc()}
	for _, p := range m.Params() {
		u.Parameters = append(u.Parameters, c.classifyParam(p))
	}
	u.ReturnType = c.classifyReturn(m.Results())
	return u
}

// createUseCase selects the creation mechanism by fixed priority:
// required-modifier properties, then a static factory, then a constructor
// with parameters, then a parameterless or implicit constructor. Returns nil
// when the type offers no public way to construct it.
func (b *Builder) createUseCase(c *classifier) *model.CreateUseCase {
	// 1. Required init properties anywhere on the chain.
	required := []model.Member{}
	for _, level := range chain(b.typ) {
		for _, prop := range level.Properties() {
			if !prop.Exported() || prop.Static() || prop.Synthesized() {
				continue
			}
			if prop.RequiredTag() {
				required = model.AppendMember(required, c.classifyProperty(prop))
			}
		}
	}
	if len(required) > 0 {
		return &model.CreateUseCase{
			UseCase:   model.UseCase{Name: "Create", Parameters: required},
			Mechanism: model.MechanismInitOnlyProperties,
		}
	}

	ctors := b.typ.Constructors()

	// 2. Static factory method.
	if fn := findNamed(ctors, b.policy.FactoryNames(b.typ.Name())); fn != nil {
		return &model.CreateUseCase{
			UseCase:   b.creationFromFunc(c, fn),
			Mechanism: model.MechanismStaticFactoryMethod,
		}
	}

	// 3 and 4. Constructor, with or without parameters.
	if fn := findNamed(ctors, b.policy.ConstructorNames(b.typ.Name())); fn != nil {
		mechanism := model.MechanismParameterlessConstructor
		if len(fn.Params()) > 0 {
			mechanism = model.MechanismConstructor
		}
		return &model.CreateUseCase{
			UseCase:   b.creationFromFunc(c, fn),
			Mechanism: mechanism,
		}
	}

	// 4. No declared constructor: the implicit literal counts as a
	// parameterless constructor, but only while every field is settable
	// from outside the package.
	if !b.typ.HasUnexportedFields() {
		return &model.CreateUseCase{
			UseCase:   model.UseCase{Name: "Create"},
			Mechanism: model.MechanismParameterlessConstructor,
		}
	}

	// 5. Nothing public can construct the type.
	return nil
}

func (b *Builder) creationFromFunc(c *classifier, fn symbol.Method) model.UseCase {
	u := model.UseCase{Name: "Create", Documentation: fn.Doc()}
	for _, p := range fn.Params() {
		u.Parameters = append(u.Parameters, c.classifyParam(p))
	}
	return u
}

func findNamed(fns []symbol.Method, names []string) symbol.Method {
	for _, name := range names {
		for _, fn := range fns {
			if fn.Exported() && fn.Name() == name {
				return fn
			}
		}
	}
	return nil
}
