package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/starbind/runtime"
	"github.com/wippyai/starbind/scene"
	"github.com/wippyai/starbind/wasmclass"
)

type options struct {
	script      string
	expr        string
	wasmFile    string
	witFile     string
	class       string
	parent      string
	list        bool
	interactive bool
	verbose     bool
	inherited   bool
	wasi        bool
}

func main() {
	var opts options
	flag.StringVar(&opts.script, "script", "", "Starlark script to run (or pass it as the first argument)")
	flag.StringVar(&opts.expr, "e", "", "Expression to evaluate")
	flag.StringVar(&opts.wasmFile, "wasm", "", "Wasm module to load as a class")
	flag.StringVar(&opts.witFile, "wit", "", "WIT declarations for the wasm module's exports")
	flag.StringVar(&opts.class, "class", "", "Class name of the wasm module (default: file name)")
	flag.StringVar(&opts.parent, "parent", "Object", "Parent class of the wasm class")
	flag.BoolVar(&opts.list, "list", false, "List classes and exit")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.BoolVar(&opts.inherited, "inherited", false, "Copy inherited members into every type")
	flag.BoolVar(&opts.wasi, "wasi", false, "Provide wasi_snapshot_preview1 to wasm classes")
	flag.Parse()

	if opts.script == "" && flag.NArg() > 0 {
		opts.script = flag.Arg(0)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	ctx := context.Background()

	var stdout io.Writer = os.Stdout
	var tuiOut *syncBuffer
	useTUI := opts.interactive ||
		(opts.script == "" && opts.expr == "" && !opts.list && term.IsTerminal(int(os.Stdin.Fd())))
	if useTUI {
		tuiOut = &syncBuffer{}
		stdout = tuiOut
	}

	cfg := &runtime.Config{
		Stdout:           stdout,
		IncludeInherited: opts.inherited,
		EnableWASI:       opts.wasi,
	}
	if opts.verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer log.Sync()
		cfg.Logger = log
	}

	rt, err := runtime.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	if err := scene.Register(ctx, rt.Classes()); err != nil {
		return fmt.Errorf("register scene classes: %w", err)
	}
	if opts.wasmFile != "" {
		if err := loadWasm(ctx, rt, opts); err != nil {
			return err
		}
	}

	switch {
	case opts.list:
		listClasses(os.Stdout, rt)
		return nil
	case useTUI:
		return runInteractive(rt, tuiOut)
	case opts.expr != "":
		v, err := rt.Eval(ctx, opts.expr)
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	case opts.script != "":
		_, err := rt.ExecFile(ctx, opts.script, nil)
		return err
	}

	// Not a terminal: read the script from stdin.
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	_, err = rt.ExecFile(ctx, "<stdin>", src)
	return err
}

func loadWasm(ctx context.Context, rt *runtime.Runtime, opts options) error {
	data, err := os.ReadFile(opts.wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	def := wasmclass.Def{
		Name:   opts.class,
		Parent: opts.parent,
		Wasm:   data,
	}
	if def.Name == "" {
		def.Name = className(opts.wasmFile)
	}
	if opts.witFile != "" {
		wit, err := os.ReadFile(opts.witFile)
		if err != nil {
			return fmt.Errorf("read WIT: %w", err)
		}
		def.Interface = string(wit)
	}
	if err := rt.LoadWasmClass(ctx, def); err != nil {
		return fmt.Errorf("load %s: %w", opts.wasmFile, err)
	}
	return nil
}

// className derives a class name from a file name: my_counter.wasm
// becomes MyCounter.
func className(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	for _, part := range strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	}) {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

func listClasses(w io.Writer, rt *runtime.Runtime) {
	db := rt.Classes()
	for _, class := range db.ClassList() {
		header := class
		if parent := db.ParentClass(class); parent != "" {
			header += "(" + parent + ")"
		}
		fmt.Fprintf(w, "%s\n", header)
		for _, k := range db.IntegerConstantList(class, false) {
			v, _ := db.IntegerConstant(class, k)
			fmt.Fprintf(w, "  %s = %d\n", k, v)
		}
		for _, p := range db.PropertyList(class, false) {
			fmt.Fprintf(w, "  %s: %s\n", p.Name, witTypeStr(witType(p.Type)))
		}
		for _, m := range db.MethodList(class, false) {
			fmt.Fprintf(w, "  %s\n", formatSignature(m))
		}
	}
	if names := db.Singletons(); len(names) > 0 {
		fmt.Fprintf(w, "\nSingletons:\n")
		for _, name := range names {
			if obj := db.Singleton(name); obj != nil {
				fmt.Fprintf(w, "  %s: %s\n", name, obj.ClassName())
			}
		}
	}
}
