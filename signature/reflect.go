package signature

import (
	"context"
	"fmt"
	"reflect"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// FuncShape is what reflection reveals about a Go function used as a target.
type FuncShape struct {
	Type reflect.Type
	// TakesContext is set when the first Go parameter is a context.Context.
	TakesContext bool
	// ReturnsValue is set when the function returns a value besides an error.
	ReturnsValue bool
	// ReturnsError is set when the last result is an error.
	ReturnsError bool
}

// InspectFunc checks that fn is a function with a supported result shape:
// (), (error), (T) or (T, error).
func InspectFunc(fn any) (FuncShape, error) {
	if fn == nil {
		return FuncShape{}, fmt.Errorf("%w: nil function", ErrInvalidSignature)
	}
	ft := reflect.TypeOf(fn)
	if ft.Kind() != reflect.Func {
		return FuncShape{}, fmt.Errorf("%w: %T is not a function", ErrInvalidSignature, fn)
	}

	shape := FuncShape{Type: ft}
	shape.TakesContext = ft.NumIn() > 0 && ft.In(0) == contextType

	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) == errorType {
			shape.ReturnsError = true
		} else {
			shape.ReturnsValue = true
		}
	case 2:
		if ft.Out(1) != errorType {
			return FuncShape{}, fmt.Errorf("%w: second result of %s must be error", ErrInvalidSignature, ft)
		}
		shape.ReturnsValue = true
		shape.ReturnsError = true
	default:
		return FuncShape{}, fmt.Errorf("%w: %s returns too many results", ErrInvalidSignature, ft)
	}
	return shape, nil
}

// FromFunc builds a Signature for a plain Go function. params names the Go
// parameters in order (excluding a leading context.Context); reflection
// supplies any missing types. The last descriptor of a variadic function is
// forced to VarPositional, and a VarKeyword descriptor must correspond to a
// map[string]T parameter.
func FromFunc(fn any, params ...Param) (*Signature, error) {
	shape, err := InspectFunc(fn)
	if err != nil {
		return nil, err
	}
	ft := shape.Type

	offset := 0
	if shape.TakesContext {
		offset = 1
	}
	if got := ft.NumIn() - offset; got != len(params) {
		return nil, fmt.Errorf("%w: %s takes %d parameters but %d were described", ErrInvalidSignature, ft, got, len(params))
	}

	described := make([]Param, len(params))
	for i, p := range params {
		gt := ft.In(i + offset)
		variadic := ft.IsVariadic() && i == len(params)-1

		switch {
		case variadic:
			p.Kind = VarPositional
			gt = gt.Elem()
		case p.Kind == VarPositional:
			return nil, fmt.Errorf("%w: %q is var-positional but %s is not variadic", ErrInvalidSignature, p.Name, ft)
		case p.Kind == VarKeyword:
			if gt.Kind() != reflect.Map || gt.Key().Kind() != reflect.String {
				return nil, fmt.Errorf("%w: var-keyword %q must be a map with string keys, got %s", ErrInvalidSignature, p.Name, gt)
			}
			gt = gt.Elem()
		}

		if p.Type == nil && gt.Kind() != reflect.Interface {
			p.Type = gt
		}
		described[i] = p
	}

	sig, err := New(described...)
	if err != nil {
		return nil, err
	}
	if shape.ReturnsValue {
		sig = sig.WithReturn(ft.Out(0))
	}
	return sig, nil
}
