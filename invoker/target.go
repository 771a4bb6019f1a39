package invoker

import (
	"context"
	"fmt"
	"math"
	"reflect"

	"github.com/hupe1980/cmdinvoke/core"
	"github.com/hupe1980/cmdinvoke/signature"
)

// Target is something an invoker can call: a named function with a fixed
// signature.
type Target interface {
	Name() string
	Signature() *signature.Signature
	// Call runs the target body. Errors are returned to the caller unchanged.
	Call(ctx context.Context, args *signature.Bound) (any, error)
}

// ArgumentChecker is implemented by targets that need to vet bound arguments
// beyond what the signature expresses. A failed check is an argument error,
// reported before Call.
type ArgumentChecker interface {
	CheckArguments(args *signature.Bound) error
}

// Func is a target body receiving the bound arguments.
type Func func(ctx context.Context, args *signature.Bound) (any, error)

type funcTarget struct {
	name string
	sig  *signature.Signature
	fn   Func
}

// NewFunc creates a target from an explicit parameter descriptor and a body.
func NewFunc(name string, fn Func, params ...signature.Param) (Target, error) {
	if fn == nil {
		return nil, fmt.Errorf("target %q: nil function", name)
	}
	sig, err := signature.New(params...)
	if err != nil {
		return nil, fmt.Errorf("target %q: %w", name, err)
	}
	return &funcTarget{name: name, sig: sig, fn: fn}, nil
}

// MustFunc is like NewFunc but panics on error.
func MustFunc(name string, fn Func, params ...signature.Param) Target {
	t, err := NewFunc(name, fn, params...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *funcTarget) Name() string                    { return t.name }
func (t *funcTarget) Signature() *signature.Signature { return t.sig }

func (t *funcTarget) Call(ctx context.Context, args *signature.Bound) (any, error) {
	return t.fn(ctx, args)
}

type reflectTarget struct {
	name  string
	fn    reflect.Value
	shape signature.FuncShape
	sig   *signature.Signature
}

// Reflect wraps a plain Go function. params names the Go parameters in order
// (a leading context.Context is supplied by the invoker and not described).
// The function may return (), (error), (T) or (T, error).
//
// Bound values are handed to the function as is when assignable; []any and
// map[string]any values are converted element-wise for slice and map
// parameters, and numeric values are converted between numeric kinds.
// Anything else is an argument error. Parsing strings into other types is
// left to transforms.
func Reflect(name string, fn any, params ...signature.Param) (Target, error) {
	sig, err := signature.FromFunc(fn, params...)
	if err != nil {
		return nil, fmt.Errorf("target %q: %w", name, err)
	}
	shape, _ := signature.InspectFunc(fn)
	return &reflectTarget{name: name, fn: reflect.ValueOf(fn), shape: shape, sig: sig}, nil
}

// MustReflect is like Reflect but panics on error.
func MustReflect(name string, fn any, params ...signature.Param) Target {
	t, err := Reflect(name, fn, params...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *reflectTarget) Name() string                    { return t.name }
func (t *reflectTarget) Signature() *signature.Signature { return t.sig }

func (t *reflectTarget) CheckArguments(args *signature.Bound) error {
	_, err := t.arguments(args)
	return err
}

func (t *reflectTarget) Call(ctx context.Context, args *signature.Bound) (any, error) {
	in, err := t.arguments(args)
	if err != nil {
		return nil, err
	}
	if t.shape.TakesContext {
		in = append([]reflect.Value{reflect.ValueOf(&ctx).Elem()}, in...)
	}

	out := t.fn.Call(in)

	var (
		result  any
		callErr error
	)
	if t.shape.ReturnsValue {
		result = out[0].Interface()
	}
	if t.shape.ReturnsError {
		if e := out[len(out)-1]; !e.IsNil() {
			callErr = e.Interface().(error)
		}
	}
	return result, callErr
}

// arguments converts the bound values into Go call arguments.
func (t *reflectTarget) arguments(args *signature.Bound) ([]reflect.Value, error) {
	ft := t.shape.Type
	offset := 0
	if t.shape.TakesContext {
		offset = 1
	}

	params := t.sig.Params()
	in := make([]reflect.Value, 0, len(params))
	for i, p := range params {
		gt := ft.In(i + offset)
		v := args.Get(p.Name)

		if p.Kind == signature.VarPositional {
			for j, e := range args.Args() {
				rv, err := convertValue(e, gt.Elem())
				if err != nil {
					return nil, core.NewArgumentError("argument %q[%d]: %v", p.Name, j, err)
				}
				in = append(in, rv)
			}
			continue
		}

		rv, err := convertValue(v, gt)
		if err != nil {
			return nil, core.NewArgumentError("argument %q: %v", p.Name, err)
		}
		in = append(in, rv)
	}
	return in, nil
}

func convertValue(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	switch {
	case t.Kind() == reflect.Slice && rv.Kind() == reflect.Slice:
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			e, err := convertValue(rv.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(e)
		}
		return out, nil
	case t.Kind() == reflect.Map && rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String && t.Key().Kind() == reflect.String:
		out := reflect.MakeMapWithSize(t, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			e, err := convertValue(iter.Value().Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("key %q: %w", iter.Key().String(), err)
			}
			out.SetMapIndex(iter.Key().Convert(t.Key()), e)
		}
		return out, nil
	case isNumeric(rv.Kind()) && isNumeric(t.Kind()) && !(isFloat(rv.Kind()) && !isFloat(t.Kind())):
		return convertNumber(rv, t)
	}

	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", v, t)
}

// convertNumber converts between numeric kinds, refusing values that the
// target type cannot represent.
func convertNumber(rv reflect.Value, t reflect.Type) (reflect.Value, error) {
	dst := reflect.New(t).Elem()
	overflow := false

	switch {
	case isSigned(rv.Kind()):
		i := rv.Int()
		switch {
		case isSigned(t.Kind()):
			overflow = dst.OverflowInt(i)
		case isUnsigned(t.Kind()):
			overflow = i < 0 || dst.OverflowUint(uint64(i))
		}
	case isUnsigned(rv.Kind()):
		u := rv.Uint()
		switch {
		case isSigned(t.Kind()):
			overflow = u > math.MaxInt64 || dst.OverflowInt(int64(u))
		case isUnsigned(t.Kind()):
			overflow = dst.OverflowUint(u)
		}
	case isFloat(rv.Kind()):
		overflow = dst.OverflowFloat(rv.Float())
	}

	if overflow {
		return reflect.Value{}, fmt.Errorf("value %v overflows %s", rv.Interface(), t)
	}
	return rv.Convert(t), nil
}

func isNumeric(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uint64) || isFloat(k)
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
