package model

import "fmt"

// Decorator enriches a form model after Build has produced the canonical
// structure.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormModel) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}

// Decorate applies decorators in order, stopping at the first error.
func Decorate(form *FormModel, decorators ...Decorator) error {
	for idx, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(form); err != nil {
			return fmt.Errorf("model: decorator %d: %w", idx, err)
		}
	}
	return nil
}

// WithMetadata returns a decorator setting form-level metadata.
func WithMetadata(values map[string]string) Decorator {
	return DecoratorFunc(func(form *FormModel) error {
		if len(values) == 0 {
			return nil
		}
		if form.Metadata == nil {
			form.Metadata = make(map[string]string, len(values))
		}
		for key, value := range values {
			form.Metadata[key] = value
		}
		return nil
	})
}
