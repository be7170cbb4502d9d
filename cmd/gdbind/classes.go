package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/gdbind/api"
)

func loadAPI(path string) (*api.Context, error) {
	ctx, err := api.LoadContext(path, api.WithoutPrecisionCheck())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ctx, nil
}

// matchClasses returns the classes whose name contains filter, ignoring
// case, in metadata order.
func matchClasses(ctx *api.Context, filter string) []string {
	filter = strings.ToLower(filter)
	var out []string
	for _, name := range ctx.Classes() {
		if filter == "" || strings.Contains(strings.ToLower(name), filter) {
			out = append(out, name)
		}
	}
	return out
}

// lineage formats a class with its bases, nearest first.
func lineage(ctx *api.Context, class string) string {
	return strings.Join(append([]string{class}, ctx.Bases(class)...), " < ")
}

func classFlags(ctx *api.Context, c *api.Class) string {
	var flags []string
	if c.IsRefcounted {
		flags = append(flags, "refcounted")
	}
	if !c.IsInstantiable {
		flags = append(flags, "abstract")
	}
	if ctx.IsSingleton(c.Name) {
		flags = append(flags, "singleton")
	}
	if c.APIType != "" && c.APIType != "core" {
		flags = append(flags, c.APIType)
	}
	return strings.Join(flags, ", ")
}

func listClasses(w io.Writer, ctx *api.Context, filter string) error {
	names := matchClasses(ctx, filter)
	fmt.Fprintf(w, "Engine: %s (%s precision)\n", ctx.Version(), orDefault(ctx.API().Header.Precision, "single"))
	fmt.Fprintf(w, "Classes: %d\n\n", len(names))
	for _, name := range names {
		c, _ := ctx.Class(name)
		line := "  " + lineage(ctx, name)
		if f := classFlags(ctx, c); f != "" {
			line += " [" + f + "]"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatMethod(m *api.Method) string {
	var params []string
	for _, a := range m.Arguments {
		params = append(params, a.Name+": "+a.Type)
	}
	if m.IsVararg {
		params = append(params, "...")
	}
	s := m.Name + "(" + strings.Join(params, ", ") + ")"
	if r := m.Return(); r != "" {
		s += " -> " + r
	}
	if m.IsVirtual {
		s += " virtual"
	}
	return s
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
