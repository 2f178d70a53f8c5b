// pathmodgen emits per-field accessor constructors for struct types.
//
// For every requested struct type it generates, into the scanned package, one
// zero-argument constructor per field:
//
//	func (T) AccField() pathmod.Accessor[T, FieldType]
//
// backed by pathmod.FromOffset with an unsafe.Offsetof-proven offset. Targets
// without a fixed per-field layout (non-structs, interfaces, generic types,
// field-less structs) are rejected with a descriptive diagnostic and nothing
// is written.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	pathmod "github.com/dahankzter/pathmod"
	"github.com/dahankzter/pathmod/internal/gen"
	"github.com/dahankzter/pathmod/internal/scan"
)

// config mirrors the CLI flags; a YAML file keeps generator invocations in the
// repository instead of in Makefiles.
type config struct {
	PkgDir     string   `yaml:"pkgdir"`
	Types      []string `yaml:"types"`
	Out        string   `yaml:"out"`
	Positional bool     `yaml:"positional"`
}

// diagReport is the machine-readable scan/generation report behind -diag.
type diagReport struct {
	PkgDir     string       `json:"pkgdir"`
	Positional bool         `json:"positional"`
	Out        string       `json:"out,omitempty"`
	Targets    []diagTarget `json:"targets"`
}

type diagTarget struct {
	Name    string      `json:"name"`
	OK      bool        `json:"ok"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Fields  []diagField `json:"fields,omitempty"`
}

type diagField struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

func main() {
	fs := flag.NewFlagSet("pathmodgen", flag.ExitOnError)
	var (
		pkgdir     string
		typesCSV   string
		out        string
		positional bool
		configPath string
		diagPath   string
		verbose    bool
	)
	fs.StringVar(&pkgdir, "pkgdir", "", "directory of the package declaring the target types")
	fs.StringVar(&typesCSV, "type", "", "comma-separated struct type names to generate accessors for")
	fs.StringVar(&out, "o", "", "output filename (written into the scanned package directory)")
	fs.BoolVar(&positional, "positional", false, "name constructors Acc0, Acc1, ... by declaration index")
	fs.StringVar(&configPath, "config", "", "YAML config file; flags override its values")
	fs.StringVar(&diagPath, "diag", "", "write a JSON scan/generation report to this path")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:\n  pathmodgen -pkgdir ./pkg -type T1[,T2,...] -o accessors_pathmod.go [-positional] [-config pathmodgen.yaml] [-diag report.json] [-v]")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	cfg := config{PkgDir: pkgdir, Types: splitCSV(typesCSV), Out: out, Positional: positional}
	if configPath != "" {
		fileCfg, err := loadConfig(configPath)
		if err != nil {
			fatalf("config: %v", err)
		}
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		cfg = applyFlags(fileCfg, cfg, set)
	}
	if cfg.PkgDir == "" || len(cfg.Types) == 0 || cfg.Out == "" {
		fs.Usage()
		os.Exit(2)
	}

	log := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fatalf("logger: %v", err)
		}
		log = l
	}
	defer log.Sync()

	log.Info("scanning package",
		zap.String("pkgdir", cfg.PkgDir),
		zap.Strings("types", cfg.Types),
		zap.Bool("positional", cfg.Positional))

	targets, scanErr := scan.Package(cfg.PkgDir, cfg.Types)
	iss, _ := pathmod.AsIssues(scanErr)
	if scanErr != nil && iss == nil {
		fatalf("%v", scanErr)
	}

	report := buildReport(cfg, targets, iss)
	if diagPath != "" {
		if err := writeDiag(diagPath, report); err != nil {
			fatalf("diag: %v", err)
		}
		log.Info("wrote diagnostics", zap.String("path", diagPath))
	}

	if len(iss) > 0 {
		for _, is := range iss {
			fmt.Fprintf(os.Stderr, "pathmodgen: %v\n", error(is))
		}
		os.Exit(1)
	}

	for _, t := range targets {
		log.Info("resolved target", zap.String("type", t.Name), zap.Int("fields", len(t.Fields)))
	}

	code, err := gen.Render(targets[0].PkgName, targets, cfg.Positional)
	if err != nil {
		fatalf("%v", err)
	}

	outPath := cfg.Out
	if !filepath.IsAbs(outPath) && filepath.Dir(outPath) == "." {
		outPath = filepath.Join(cfg.PkgDir, outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fatalf("creating output dir: %v", err)
	}
	if err := os.WriteFile(outPath, code, 0o644); err != nil {
		fatalf("writing output: %v", err)
	}
	log.Info("wrote generated file", zap.String("path", outPath), zap.Int("bytes", len(code)))
}

func loadConfig(path string) (config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config{}, err
	}
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags lets flags present on the command line win over config file
// values. Presence is tracked rather than comparing against zero values, so an
// explicit -positional=false overrides positional: true from the config while
// an omitted flag keeps the config's choice.
func applyFlags(base, flags config, set map[string]bool) config {
	if set["pkgdir"] {
		base.PkgDir = flags.PkgDir
	}
	if set["type"] {
		base.Types = flags.Types
	}
	if set["o"] {
		base.Out = flags.Out
	}
	if set["positional"] {
		base.Positional = flags.Positional
	}
	return base
}

func buildReport(cfg config, targets []scan.Target, iss pathmod.Issues) diagReport {
	byName := make(map[string]scan.Target, len(targets))
	for _, t := range targets {
		byName[t.Name] = t
	}
	issByName := make(map[string]pathmod.Issue, len(iss))
	for _, is := range iss {
		issByName[is.Container] = is
	}

	r := diagReport{PkgDir: cfg.PkgDir, Positional: cfg.Positional, Out: cfg.Out}
	for _, name := range cfg.Types {
		if t, ok := byName[name]; ok {
			dt := diagTarget{Name: name, OK: true}
			for _, f := range t.Fields {
				dt.Fields = append(dt.Fields, diagField{Name: f.Name, Type: f.Type, Index: f.Index})
			}
			r.Targets = append(r.Targets, dt)
			continue
		}
		dt := diagTarget{Name: name}
		if is, ok := issByName[name]; ok {
			dt.Code = is.Code
			dt.Message = is.Message
		}
		r.Targets = append(r.Targets, dt)
	}
	return r
}

func writeDiag(path string, report diagReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "pathmodgen: "+format+"\n", a...)
	os.Exit(1)
}
