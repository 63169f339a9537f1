package wasmclass

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/starbind/classdb"
	"github.com/wippyai/starbind/variant"
)

type boundExports struct {
	methods    []*classdb.Method
	properties []*classdb.Property
}

type export struct {
	name    string
	params  []scalar
	results []scalar
}

// bindExports maps the exported functions of a compiled module onto
// class members. Declarations in iface refine the core signatures.
func bindExports(class string, defs map[string]api.FunctionDefinition, iface map[string]*signature, log *zap.Logger) boundExports {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	slices.Sort(names)

	exports := make(map[string]*export)
	var out boundExports
	for _, name := range names {
		if strings.HasPrefix(name, "_") {
			continue
		}
		e, ok := resolveExport(name, defs[name], iface[name], log.With(zap.String("class", class)))
		if !ok {
			continue
		}
		m, ok := e.method()
		if !ok {
			log.Debug("export not bound",
				zap.String("class", class),
				zap.String("export", name),
				zap.String("signature", coreSignature(defs[name])))
			continue
		}
		exports[name] = e
		out.methods = append(out.methods, m)
	}

	for _, name := range names {
		prop, ok := strings.CutPrefix(name, "get_")
		get := exports[name]
		if !ok || prop == "" || get == nil || exports[prop] != nil {
			continue
		}
		if len(get.params) != 0 || len(get.results) != 1 {
			continue
		}
		typ := get.results[0]

		var setter classdb.Setter
		if set := exports["set_"+prop]; set != nil && len(set.results) == 0 &&
			len(set.params) == 1 && set.params[0] == typ {
			setter = set.setter()
		}
		out.properties = append(out.properties, classdb.NewProperty(prop, typ.typ, get.getter(), setter))
	}
	return out
}

func resolveExport(name string, def api.FunctionDefinition, decl *signature, log *zap.Logger) (*export, bool) {
	if decl != nil {
		params, ok1 := scalars(decl.params, def.ParamTypes())
		results, ok2 := scalars(decl.results, def.ResultTypes())
		if ok1 && ok2 {
			return &export{name: name, params: params, results: results}, true
		}
		log.Warn("interface declaration does not match export",
			zap.String("export", name),
			zap.String("signature", coreSignature(def)))
	}

	params, ok1 := coreScalars(def.ParamTypes())
	results, ok2 := coreScalars(def.ResultTypes())
	if !ok1 || !ok2 {
		log.Debug("export not bound",
			zap.String("export", name),
			zap.String("signature", coreSignature(def)))
		return nil, false
	}
	return &export{name: name, params: params, results: results}, true
}

func (e *export) method() (*classdb.Method, bool) {
	if len(e.results) > 1 {
		return nil, false
	}
	argTypes := make([]variant.Type, len(e.params))
	for i, p := range e.params {
		argTypes[i] = p.typ
	}
	ret := variant.Nil
	if len(e.results) == 1 {
		ret = e.results[0].typ
	}

	return classdb.NewMethod(e.name, argTypes, ret,
		func(ctx context.Context, inst *classdb.Instance, args []variant.Variant) (variant.Variant, error) {
			obj, err := instanceOf(inst)
			if err != nil {
				return variant.NewNil(), err
			}
			return obj.call(ctx, e, args)
		}), true
}

func (e *export) getter() classdb.Getter {
	return func(ctx context.Context, inst *classdb.Instance) (variant.Variant, error) {
		obj, err := instanceOf(inst)
		if err != nil {
			return variant.NewNil(), err
		}
		return obj.call(ctx, e, nil)
	}
}

func (e *export) setter() classdb.Setter {
	return func(ctx context.Context, inst *classdb.Instance, v variant.Variant) error {
		obj, err := instanceOf(inst)
		if err != nil {
			return err
		}
		_, err = obj.call(ctx, e, []variant.Variant{v})
		return err
	}
}

func instanceOf(inst *classdb.Instance) (*Instance, error) {
	obj, ok := inst.Value().(*Instance)
	if !ok {
		return nil, fmt.Errorf("%s is not backed by a wasm module", inst.ClassName())
	}
	return obj, nil
}

func coreSignature(def api.FunctionDefinition) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range def.ParamTypes() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(api.ValueTypeName(p))
	}
	b.WriteString(") -> (")
	for i, r := range def.ResultTypes() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(api.ValueTypeName(r))
	}
	b.WriteByte(')')
	return b.String()
}
