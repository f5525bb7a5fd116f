package blitzcache

import "reflect"

// SizerMode selects how deeply the default ValueSizer traverses a value
// before estimating its byte cost. See spec.md §4.3.
type SizerMode int

const (
	// SizerFast does a shallow estimate, never following references.
	SizerFast SizerMode = iota
	// SizerBalanced follows one level of references (the default).
	SizerBalanced
	// SizerAdaptive is cheap for simple values, deeper for composite ones.
	SizerAdaptive
	// SizerAccurate traverses to the configured depth/object limits.
	SizerAccurate
)

// String renders the mode name.
func (m SizerMode) String() string {
	switch m {
	case SizerFast:
		return "Fast"
	case SizerBalanced:
		return "Balanced"
	case SizerAdaptive:
		return "Adaptive"
	case SizerAccurate:
		return "Accurate"
	default:
		return "Unknown"
	}
}

// SizerOptions configures the default ValueSizer's traversal limits.
type SizerOptions struct {
	Mode                SizerMode
	MaxDepth            int
	MaxObjects          int
	ReflectIntoStructs  bool
}

// DefaultSizerOptions returns the spec's recommended defaults: Balanced
// mode, depth 3, 512 objects, struct reflection enabled.
func DefaultSizerOptions() SizerOptions {
	return SizerOptions{
		Mode:               SizerBalanced,
		MaxDepth:           3,
		MaxObjects:         512,
		ReflectIntoStructs: true,
	}
}

// ValueSizer estimates the in-memory byte cost of a value for the capacity
// enforcer's accounting. Implementations must be safe for concurrent use,
// return non-negative results, and never loop forever on cyclic graphs.
type ValueSizer interface {
	Size(value any) (int64, error)
}

// reflectSizer is the built-in approximate ValueSizer (spec.md §4.3,
// §9 "type-layout cache" guidance). It walks a value with reflect,
// tracking visited pointers/maps/slices to stay cycle-safe, and stops at
// the configured depth/object budget rather than hand-rolling a
// per-type field-offset cache — a generic Go value sizer has no
// off-the-shelf library anywhere in the retrieved pack (see DESIGN.md).
type reflectSizer struct {
	opts SizerOptions
}

// NewValueSizer builds the default ValueSizer for the given options.
func NewValueSizer(opts SizerOptions) ValueSizer {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 3
	}
	if opts.MaxObjects <= 0 {
		opts.MaxObjects = 512
	}
	return &reflectSizer{opts: opts}
}

// effectiveDepth returns the traversal depth to use for this call, per
// spec.md's mode ordering contract (Fast <= Balanced <= Accurate,
// Fast <= Adaptive <= Accurate).
func (s *reflectSizer) effectiveDepth(value any) int {
	switch s.opts.Mode {
	case SizerFast:
		return 0
	case SizerAccurate:
		return s.opts.MaxDepth
	case SizerAdaptive:
		if isSimple(value) {
			return 0
		}
		return s.opts.MaxDepth
	default: // SizerBalanced
		if s.opts.MaxDepth < 1 {
			return 1
		}
		return 1
	}
}

func isSimple(value any) bool {
	if value == nil {
		return true
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	default:
		return false
	}
}

// Size implements ValueSizer.
func (s *reflectSizer) Size(value any) (int64, error) {
	if value == nil {
		return 0, nil
	}
	maxDepth := s.effectiveDepth(value)
	walker := &sizeWalker{
		maxDepth:           maxDepth,
		maxObjects:         s.opts.MaxObjects,
		reflectIntoStructs: s.opts.ReflectIntoStructs,
		visited:            make(map[uintptr]bool),
	}
	return walker.walk(reflect.ValueOf(value), 0), nil
}

type sizeWalker struct {
	maxDepth           int
	maxObjects         int
	reflectIntoStructs bool
	visited            map[uintptr]bool
	objectCount        int
}

// walk estimates the byte size of v, descending up to maxDepth and never
// visiting the same pointer/map/slice-backing-array twice.
func (w *sizeWalker) walk(v reflect.Value, depth int) int64 {
	if !v.IsValid() {
		return 0
	}
	if w.objectCount >= w.maxObjects {
		return int64(v.Type().Size())
	}
	w.objectCount++

	switch v.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return int64(v.Type().Size())

	case reflect.String:
		return int64(v.Type().Size()) + int64(v.Len())

	case reflect.Ptr:
		if v.IsNil() {
			return int64(v.Type().Size())
		}
		addr := v.Pointer()
		if w.visited[addr] {
			return int64(v.Type().Size())
		}
		w.visited[addr] = true
		if depth >= w.maxDepth {
			return int64(v.Type().Size())
		}
		return int64(v.Type().Size()) + w.walk(v.Elem(), depth+1)

	case reflect.Interface:
		if v.IsNil() {
			return 16
		}
		return 16 + w.walk(v.Elem(), depth)

	case reflect.Slice:
		base := int64(24) // slice header: ptr + len + cap
		if v.IsNil() {
			return base
		}
		if v.Len() > 0 {
			addr := v.Pointer()
			if w.visited[addr] {
				return base
			}
			w.visited[addr] = true
		}
		elemSize := int64(v.Type().Elem().Size())
		if depth >= w.maxDepth || !elementsNeedTraversal(v.Type().Elem()) {
			return base + elemSize*int64(v.Len())
		}
		n := v.Len()
		sampled := n
		if sampled > w.maxObjects {
			sampled = w.maxObjects
		}
		var sum int64
		for i := 0; i < sampled; i++ {
			sum += w.walk(v.Index(i), depth+1)
		}
		if sampled < n && sampled > 0 {
			avg := sum / int64(sampled)
			sum = avg * int64(n)
		}
		return base + sum

	case reflect.Array:
		elemSize := int64(v.Type().Elem().Size())
		if depth >= w.maxDepth || !elementsNeedTraversal(v.Type().Elem()) {
			return elemSize * int64(v.Len())
		}
		var sum int64
		for i := 0; i < v.Len(); i++ {
			sum += w.walk(v.Index(i), depth+1)
		}
		return sum

	case reflect.Map:
		base := int64(8) // map header pointer
		if v.IsNil() {
			return base
		}
		addr := v.Pointer()
		if w.visited[addr] {
			return base
		}
		w.visited[addr] = true
		if depth >= w.maxDepth {
			// Rough per-entry estimate without descending.
			keySize := int64(v.Type().Key().Size())
			valSize := int64(v.Type().Elem().Size())
			return base + int64(v.Len())*(keySize+valSize)
		}
		iter := v.MapRange()
		count := 0
		var sum int64
		for iter.Next() {
			if count >= w.maxObjects {
				break
			}
			sum += w.walk(iter.Key(), depth+1)
			sum += w.walk(iter.Value(), depth+1)
			count++
		}
		if count < v.Len() && count > 0 {
			avg := sum / int64(count)
			sum = avg * int64(v.Len())
		}
		return base + sum

	case reflect.Struct:
		if !w.reflectIntoStructs || depth >= w.maxDepth {
			return int64(v.Type().Size())
		}
		var sum int64
		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			if !f.CanInterface() {
				sum += int64(f.Type().Size())
				continue
			}
			sum += w.walk(f, depth+1)
		}
		return sum

	default:
		return int64(v.Type().Size())
	}
}

// elementsNeedTraversal reports whether a slice/array element type can
// contain further references worth descending into.
func elementsNeedTraversal(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Struct, reflect.Array, reflect.String:
		return true
	default:
		return false
	}
}
