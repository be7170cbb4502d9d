package main

import (
	"flag"
	"fmt"
	"os"
)

const usage = `Usage: gdbind <command> [flags]

Commands:
  classes -api <extension_api.json> [-filter s] [-i]   list engine classes
  gen     -api <extension_api.json> -pkg name -o file   generate class tables
  check   -manifest <extension.yaml> [-probe]           validate a manifest
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "classes":
		err = classesCmd(args)
	case "gen":
		err = genCmd(args)
	case "check":
		err = checkCmd(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func classesCmd(args []string) error {
	fs := flag.NewFlagSet("classes", flag.ExitOnError)
	var (
		apiFile     = fs.String("api", "", "Path to extension_api.json")
		filter      = fs.String("filter", "", "Only list classes containing this text")
		interactive = fs.Bool("i", false, "Interactive mode with TUI")
	)
	_ = fs.Parse(args)
	if *apiFile == "" {
		return fmt.Errorf("classes: -api is required")
	}

	ctx, err := loadAPI(*apiFile)
	if err != nil {
		return err
	}
	if *interactive {
		return runInteractive(ctx, *apiFile, *filter)
	}
	return listClasses(os.Stdout, ctx, *filter)
}

func genCmd(args []string) error {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	var (
		apiFile = fs.String("api", "", "Path to extension_api.json")
		pkg     = fs.String("pkg", "engineapi", "Package name of the generated file")
		out     = fs.String("o", "", "Output file (stdout if empty)")
		classes = fs.String("classes", "", "Comma-separated classes to include (all if empty)")
	)
	_ = fs.Parse(args)
	if *apiFile == "" {
		return fmt.Errorf("gen: -api is required")
	}

	ctx, err := loadAPI(*apiFile)
	if err != nil {
		return err
	}
	f, err := generate(ctx, *pkg, splitList(*classes))
	if err != nil {
		return err
	}
	if *out == "" {
		return f.Render(os.Stdout)
	}
	if err := f.Save(*out); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	fmt.Printf("Wrote %s\n", *out)
	return nil
}

func checkCmd(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var (
		manifest = fs.String("manifest", "", "Path to the extension manifest")
		probe    = fs.Bool("probe", false, "Open this platform's library and resolve the entry symbol")
	)
	_ = fs.Parse(args)
	if *manifest == "" {
		return fmt.Errorf("check: -manifest is required")
	}

	report, err := check(*manifest, *probe)
	if err != nil {
		return err
	}
	report.print(os.Stdout)
	if !report.ok() {
		os.Exit(2)
	}
	return nil
}
