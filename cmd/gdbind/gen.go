package main

import (
	"github.com/dave/jennifer/jen"

	"github.com/wippyai/gdbind/api"
	"github.com/wippyai/gdbind/errors"
)

const apiPkg = "github.com/wippyai/gdbind/api"

// generate emits a Go file holding the selected engine classes as static
// api tables, plus a Context constructor over them. All classes are
// emitted when names is empty.
func generate(ctx *api.Context, pkg string, names []string) (*jen.File, error) {
	if len(names) == 0 {
		names = ctx.Classes()
	}

	var classes []jen.Code
	for _, name := range names {
		c, ok := ctx.Class(name)
		if !ok {
			return nil, errors.NotFound(errors.PhaseLoad, "engine class", name)
		}
		classes = append(classes, classValue(c))
	}

	h := ctx.API().Header
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by gdbind gen. DO NOT EDIT.")

	f.Comment("Header describes the engine build the tables were generated from.")
	f.Var().Id("Header").Op("=").Qual(apiPkg, "Header").Values(jen.Dict{
		jen.Id("VersionFull"):  jen.Lit(h.VersionFull),
		jen.Id("Precision"):    jen.Lit(h.Precision),
		jen.Id("BuildConfig"):  jen.Lit(h.BuildConfig),
		jen.Id("VersionMajor"): jen.Lit(h.VersionMajor),
		jen.Id("VersionMinor"): jen.Lit(h.VersionMinor),
		jen.Id("VersionPatch"): jen.Lit(h.VersionPatch),
	})

	f.Comment("Classes lists the generated engine classes.")
	f.Var().Id("Classes").Op("=").Index().Qual(apiPkg, "Class").Values(classes...)

	f.Comment("Context indexes the generated tables.")
	f.Func().Id("Context").Params(jen.Id("opts").Op("...").Qual(apiPkg, "ContextOption")).
		Params(jen.Op("*").Qual(apiPkg, "Context"), jen.Error()).
		Block(
			jen.Return(jen.Qual(apiPkg, "NewContext").Call(
				jen.Op("&").Qual(apiPkg, "API").Values(jen.Dict{
					jen.Id("Header"):  jen.Id("Header"),
					jen.Id("Classes"): jen.Id("Classes"),
				}),
				jen.Id("opts").Op("..."),
			)),
		)
	return f, nil
}

func classValue(c *api.Class) jen.Code {
	d := jen.Dict{
		jen.Id("Name"):           jen.Lit(c.Name),
		jen.Id("APIType"):        jen.Lit(c.APIType),
		jen.Id("IsRefcounted"):   jen.Lit(c.IsRefcounted),
		jen.Id("IsInstantiable"): jen.Lit(c.IsInstantiable),
	}
	if c.Inherits != "" {
		d[jen.Id("Inherits")] = jen.Lit(c.Inherits)
	}
	if len(c.Constants) > 0 {
		var consts []jen.Code
		for _, k := range c.Constants {
			consts = append(consts, jen.Values(jen.Lit(k.Name), jen.Lit(k.Value)))
		}
		d[jen.Id("Constants")] = jen.Index().Qual(apiPkg, "Constant").Values(consts...)
	}
	if len(c.Methods) > 0 {
		var methods []jen.Code
		for i := range c.Methods {
			methods = append(methods, methodValue(&c.Methods[i]))
		}
		d[jen.Id("Methods")] = jen.Index().Qual(apiPkg, "Method").Values(methods...)
	}
	if len(c.Properties) > 0 {
		var props []jen.Code
		for _, p := range c.Properties {
			props = append(props, jen.Values(jen.Dict{
				jen.Id("Name"):   jen.Lit(p.Name),
				jen.Id("Type"):   jen.Lit(p.Type),
				jen.Id("Getter"): jen.Lit(p.Getter),
				jen.Id("Setter"): jen.Lit(p.Setter),
			}))
		}
		d[jen.Id("Properties")] = jen.Index().Qual(apiPkg, "Property").Values(props...)
	}
	if len(c.Signals) > 0 {
		var signals []jen.Code
		for _, s := range c.Signals {
			sd := jen.Dict{jen.Id("Name"): jen.Lit(s.Name)}
			if len(s.Arguments) > 0 {
				sd[jen.Id("Arguments")] = arguments(s.Arguments)
			}
			signals = append(signals, jen.Values(sd))
		}
		d[jen.Id("Signals")] = jen.Index().Qual(apiPkg, "Signal").Values(signals...)
	}
	return jen.Values(d)
}

func methodValue(m *api.Method) jen.Code {
	d := jen.Dict{
		jen.Id("Name"): jen.Lit(m.Name),
		jen.Id("Hash"): jen.Lit(m.Hash),
	}
	for field, set := range map[string]bool{
		"IsConst":   m.IsConst,
		"IsVararg":  m.IsVararg,
		"IsStatic":  m.IsStatic,
		"IsVirtual": m.IsVirtual,
	} {
		if set {
			d[jen.Id(field)] = jen.True()
		}
	}
	if r := m.Return(); r != "" {
		d[jen.Id("ReturnValue")] = jen.Op("&").Qual(apiPkg, "ReturnValue").Values(jen.Dict{
			jen.Id("Type"): jen.Lit(r),
		})
	}
	if len(m.Arguments) > 0 {
		d[jen.Id("Arguments")] = arguments(m.Arguments)
	}
	return jen.Values(d)
}

func arguments(args []api.Argument) jen.Code {
	var out []jen.Code
	for _, a := range args {
		ad := jen.Dict{
			jen.Id("Name"): jen.Lit(a.Name),
			jen.Id("Type"): jen.Lit(a.Type),
		}
		if a.DefaultValue != "" {
			ad[jen.Id("DefaultValue")] = jen.Lit(a.DefaultValue)
		}
		out = append(out, jen.Values(ad))
	}
	return jen.Index().Qual(apiPkg, "Argument").Values(out...)
}
