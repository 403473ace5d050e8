package models

// Patch describes the replacement of a single field.
// The zero value leaves the field untouched, Set replaces it and
// Clear removes an optional field.
type Patch[T any] struct {
	set   bool
	value *T
}

// Set returns a patch replacing the field with v
func Set[T any](v T) Patch[T] {
	return Patch[T]{set: true, value: &v}
}

// Clear returns a patch removing an optional field
func Clear[T any]() Patch[T] {
	return Patch[T]{set: true}
}

// SetPtr replaces the field with *v, or clears it when v is nil
func SetPtr[T any](v *T) Patch[T] {
	if v == nil {
		return Clear[T]()
	}
	return Set(*v)
}

// IsSet reports whether the patch touches the field at all
func (p Patch[T]) IsSet() bool {
	return p.set
}

// Get returns the new value. ok is false for unset and clearing patches.
func (p Patch[T]) Get() (v T, ok bool) {
	if !p.set || p.value == nil {
		return v, false
	}
	return *p.value, true
}

// Apply writes the patch into an optional field
func (p Patch[T]) Apply(dst **T) {
	if !p.set {
		return
	}
	if p.value == nil {
		*dst = nil
		return
	}
	v := *p.value
	*dst = &v
}

// ApplyValue writes the patch into a required field. Clearing is ignored.
func (p Patch[T]) ApplyValue(dst *T) {
	if v, ok := p.Get(); ok {
		*dst = v
	}
}
