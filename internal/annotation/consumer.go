package annotation

import (
	"reflect"

	"fixturegen/generator"
	"fixturegen/settings"
)

// Consumer applies the directives of one tag key to a generator spec.
type Consumer interface {
	// Key is the struct tag key the consumer reads.
	Key() string
	// IsPrimary reports whether d alone decides the generator, e.g. email.
	IsPrimary(d Directive) bool
	// Consume returns the generator to use for target. In the primary pass spec
	// is nil and tags holds only the primary directive; the consumer returns
	// a new generator, or nil when it cannot serve target.
	Consume(tags *TagMap, spec generator.Spec, target reflect.Type, ctx *generator.Context) generator.Spec
}

// Registry holds consumers in registration order.
type Registry struct {
	consumers []Consumer
}

func NewRegistry(consumers ...Consumer) *Registry {
	return &Registry{consumers: consumers}
}

// DefaultRegistry returns the validate and gorm consumers enabled in s.
func DefaultRegistry(s *settings.Settings) *Registry {
	r := NewRegistry()

	if settings.Get(s, settings.TagsValidateEnabled) {
		r.Register(Validate{})
	}

	if settings.Get(s, settings.TagsGormEnabled) {
		r.Register(Gorm{})
	}

	return r
}

// Register appends c; later consumers override earlier ones.
func (r *Registry) Register(c Consumer) {
	r.consumers = append(r.consumers, c)
}

func (r *Registry) Len() int { return len(r.consumers) }

func (r *Registry) keys() []string {
	keys := make([]string, len(r.consumers))
	for i, c := range r.consumers {
		keys[i] = c.Key()
	}

	return keys
}

// Apply runs the consumers over the tag of a field. The first consumer
// claiming a primary directive replaces spec; then every consumer configures
// the result with the remaining directives in registration order.
func (r *Registry) Apply(
	tag reflect.StructTag,
	spec generator.Spec,
	target reflect.Type,
	ctx *generator.Context,
) (generator.Spec, error) {
	if r == nil || len(r.consumers) == 0 || tag == "" {
		return spec, nil
	}

	tags, err := Parse(tag, r.keys()...)
	if err != nil {
		return spec, err
	}

	if tags.Len() == 0 {
		return spec, nil
	}

	if primary := r.primary(tags, target, ctx); primary != nil {
		spec = primary
	}

	if spec == nil {
		return nil, tags.Err()
	}

	for _, c := range r.consumers {
		spec = c.Consume(tags, spec, target, ctx)
	}

	return spec, tags.Err()
}

func (r *Registry) primary(tags *TagMap, target reflect.Type, ctx *generator.Context) generator.Spec {
	for _, d := range tags.All() {
		for _, c := range r.consumers {
			if c.Key() != d.Key || !c.IsPrimary(d) {
				continue
			}

			single := Of(d)
			spec := c.Consume(single, nil, target, ctx)
			tags.errs = append(tags.errs, single.errs...)

			if spec != nil {
				tags.Remove(d)

				return spec
			}
		}
	}

	return nil
}
