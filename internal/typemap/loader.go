package typemap

import (
	"errors"
	"fmt"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// LoadMode is the package information LoadParamNames needs.
const LoadMode = packages.NeedName | packages.NeedTypes

// LoadParamNames reads the declared type parameter names of every generic
// type in the packages matched by patterns.
func LoadParamNames(patterns ...string) (ParamNames, error) {
	cfg := &packages.Config{Mode: LoadMode}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	names := make(ParamNames)

	for _, pkg := range pkgs {
		collectParamNames(pkg, names)
	}

	return names, nil
}

func collectParamNames(pkg *packages.Package, into ParamNames) {
	scope := pkg.Types.Scope()

	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok || named.TypeParams().Len() == 0 {
			continue
		}

		params := named.TypeParams()
		list := make([]string, params.Len())

		for i := range params.Len() {
			list[i] = params.At(i).Obj().Name()
		}

		into[pkg.PkgPath+"."+name] = list
	}
}

// Merge adds every entry of other not already present in n.
func (n ParamNames) Merge(other ParamNames) {
	for k, v := range other {
		if _, ok := n[k]; !ok {
			n[k] = v
		}
	}
}
