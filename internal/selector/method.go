package selector

import (
	"errors"
	"reflect"
	"runtime"
	"strings"
)

var (
	ErrNotAMethodExpression = errors.New("not a method expression")
	ErrNotAFunction         = errors.New("not a function")
)

// methodRef is a method expression such as (*Person).GetName.
type methodRef struct {
	Decl   reflect.Type
	Symbol string
	Param  reflect.Type
}

// parseMethodRef inspects fn. Getters take only the receiver and return one
// value; setters take the receiver and one argument and return nothing.
func parseMethodRef(fn any, setter bool) (methodRef, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return methodRef{}, ErrNotAFunction
	}

	t := v.Type()

	wantIn, wantOut := 1, 1
	if setter {
		wantIn, wantOut = 2, 0
	}

	if t.NumIn() != wantIn || t.NumOut() != wantOut {
		return methodRef{}, ErrNotAMethodExpression
	}

	decl := t.In(0)
	if decl.Kind() == reflect.Pointer {
		decl = decl.Elem()
	}

	if decl.Kind() != reflect.Struct {
		return methodRef{}, ErrNotAMethodExpression
	}

	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return methodRef{}, ErrNotAMethodExpression
	}

	ref := methodRef{Decl: decl, Symbol: f.Name()}
	if setter {
		ref.Param = t.In(1)
	}

	// closures are named like pkg.Func.func1
	if name := methodName(ref.Symbol); !isValidIdent(name) || strings.HasPrefix(name, "func") {
		return methodRef{}, ErrNotAMethodExpression
	}

	return ref, nil
}

// methodName extracts the method name from a runtime symbol such as
// "example.com/m.(*Person).GetName" or its "-fm" method value form.
func methodName(symbol string) string {
	symbol = strings.TrimSuffix(symbol, "-fm")
	if dot := strings.LastIndexByte(symbol, '.'); dot >= 0 {
		return symbol[dot+1:]
	}

	return symbol
}
