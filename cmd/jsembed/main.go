package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/jsembed/engine"
	"github.com/wippyai/jsembed/jsval"
	"github.com/wippyai/jsembed/native"
	"github.com/wippyai/jsembed/runtime"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to YAML config")
		funcName    = flag.String("call", "", "Native to call on the global object")
		argList     = flag.String("args", "", "Arguments (comma-separated literals)")
		wasmFile    = flag.String("wasm", "", "Run a wasm guest importing the natives from env")
		export      = flag.String("export", "call", "Guest export taking (vp, argc)")
		vp          = flag.Uint("vp", 1024, "Frame offset in guest memory")
		list        = flag.Bool("list", false, "List natives and exit")
		schema      = flag.Bool("schema", false, "Print the config JSON schema and exit")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *schema {
		if err := printSchema(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			engine.SetLogger(log)
			runtime.SetLogger(log)
			defer func() { _ = log.Sync() }()
		}
	}

	cfg := runtime.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = runtime.LoadConfig(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *interactive {
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *funcName == "" && *wasmFile == "" && !*list {
		fmt.Fprintln(os.Stderr, "Usage: jsembed -call <name> [-args a,b,...] [-config file.yaml]")
		fmt.Fprintln(os.Stderr, "       jsembed -wasm <guest.wasm> [-export call] [-args a,b,...]")
		fmt.Fprintln(os.Stderr, "       jsembed -list | -schema | -i")
		os.Exit(1)
	}

	var args []string
	if *argList != "" {
		args = strings.Split(*argList, ",")
	}

	if err := run(cfg, *funcName, args, *wasmFile, *export, uint32(*vp), *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// session is a runtime, a context with a standard global, and the demo
// natives installed on it.
type session struct {
	rt     *runtime.Runtime
	cx     *runtime.Context
	global jsval.ObjectRef
	table  *native.Table
}

func openSession(cfg runtime.Config) (*session, error) {
	rt, err := runtime.New(runtime.WithConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("create runtime: %w", err)
	}
	cx, err := rt.NewContext()
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("create context: %w", err)
	}
	global, err := cx.NewStandardGlobal()
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("create global: %w", err)
	}
	cx.SetErrorReporter(func(r *engine.ErrorReport) {
		kind := "error"
		if r.Flags.IsWarning() {
			kind = "warning"
		}
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", kind, r.Filename, r.Message)
	})

	tbl, err := demoNatives(cx, os.Stdout)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	if err := cx.DefineFunctions(global, tbl); err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("install natives: %w", err)
	}
	return &session{rt: rt, cx: cx, global: global, table: tbl}, nil
}

func (s *session) close() {
	s.cx.Destroy()
	_ = s.rt.Close()
}

func (s *session) call(name string, raw []string) (string, error) {
	args, err := parseArgs(s.cx, raw)
	if err != nil {
		return "", err
	}
	result, err := s.cx.CallFunctionName(s.global, name, args...)
	if err != nil {
		return "", err
	}
	return s.cx.ValueToString(result)
}

func run(cfg runtime.Config, funcName string, args []string, wasmFile, export string, vp uint32, listOnly bool) error {
	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()

	if listOnly {
		fmt.Println("Natives:")
		for _, spec := range s.table.Specs() {
			fmt.Printf("  %s/%d\n", spec.Name(), spec.Nargs)
		}
		return nil
	}

	if wasmFile != "" {
		return runGuest(s, wasmFile, export, vp, args)
	}

	fmt.Printf("Calling %s(%s)...\n", funcName, strings.Join(args, ", "))
	result, err := s.call(funcName, args)
	if err != nil {
		return fmt.Errorf("call %s: %w", funcName, err)
	}
	fmt.Printf("Result: %s\n", result)
	return nil
}

func runGuest(s *session, wasmFile, export string, vp uint32, raw []string) error {
	ctx := context.Background()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	tbl, err := demoNatives(s.cx, os.Stdout)
	if err != nil {
		return err
	}
	guest, err := engine.NewGuest(ctx, s.cx.Engine(), tbl, data, &engine.GuestConfig{Name: "guest"})
	if err != nil {
		return fmt.Errorf("load guest: %w", err)
	}
	defer guest.Close(ctx)

	args, err := parseArgs(s.cx, raw)
	if err != nil {
		return err
	}
	words := make([]jsval.Word, len(args))
	for i, a := range args {
		if words[i], err = jsval.Encode(a); err != nil {
			return err
		}
	}

	fmt.Printf("Calling guest %s...\n", export)
	rval, err := guest.CallFrame(ctx, export, vp, jsval.WordVoid, words)
	if err != nil {
		return fmt.Errorf("call %s: %w", export, err)
	}
	v, err := jsval.Decode(rval)
	if err != nil {
		return err
	}
	str, err := s.cx.ValueToString(v)
	if err != nil {
		return err
	}
	fmt.Printf("Result: %s\n", str)
	return nil
}

func printSchema() error {
	data, err := json.MarshalIndent(runtime.ConfigSchema(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
