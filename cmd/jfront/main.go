package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/jfront/format"
	"github.com/dhamidi/jfront/java"
	"github.com/dhamidi/jfront/project"
)

const version = "0.1.0"

// errFailed makes the process exit with status 1 after the output was
// printed.
var errFailed = errors.New("analysis reported errors")

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "jfront:", err)
		}
		os.Exit(1)
	}
}

// app holds the global flags and the configuration they override.
type app struct {
	in  io.Reader
	out io.Writer

	configPath string
	verbose    int
	format     string
	width      int
	dump       bool
	warnings   bool
	gate       bool

	config *project.Config
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out, config: project.Default()}

	rootCmd := &cobra.Command{
		Use:           "jfront",
		Short:         "Lexer, parser, semantic checks and intermediate code for a Java subset",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Flags())
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	a.bindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newTokensCmd(a))
	rootCmd.AddCommand(newStructureCmd(a))
	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newSemanticsCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newSymbolsCmd(a))
	rootCmd.AddCommand(newClassesCmd(a))
	rootCmd.AddCommand(newTriplesCmd(a))
	rootCmd.AddCommand(newQuadsCmd(a))

	rootCmd.AddCommand(newScanCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))
	rootCmd.AddCommand(newREPLCmd(a))

	return rootCmd
}

func (a *app) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&a.configPath, "config", "", "read settings from this file instead of ./"+project.FileName)
	fs.CountVarP(&a.verbose, "verbose", "v", "log more; repeat for more detail")
	fs.StringVarP(&a.format, "format", "f", "table", "output format ("+strings.Join(format.Names, ", ")+")")
	fs.IntVar(&a.width, "width", format.DefaultWidth, "maximum table width")
	fs.BoolVar(&a.dump, "dump", false, "print the Go values behind the output")
	fs.BoolVar(&a.warnings, "warnings", true, "report variables that are never used")
	fs.BoolVar(&a.gate, "structural-gate", true, "skip parsing when the structural scan finds problems")
}

// setup configures logging and loads the configuration file. Flags the
// user set win over the file.
func (a *app) setup(fs *pflag.FlagSet) error {
	commonlog.Configure(a.verbose, nil)

	var cfg *project.Config
	var err error
	if a.configPath != "" {
		cfg, err = project.LoadFile(a.configPath)
	} else {
		cfg, err = project.Load()
	}
	if err != nil {
		return err
	}

	if fs.Changed("format") {
		cfg.Output.Format = a.format
	}
	if fs.Changed("width") {
		cfg.Output.Width = a.width
	}
	if fs.Changed("warnings") {
		cfg.Analysis.Warnings = a.warnings
	}
	if fs.Changed("structural-gate") {
		cfg.Analysis.StructuralGate = a.gate
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.config = cfg
	return nil
}

// checks turns the [analysis] settings into analysis options.
func (a *app) checks() []java.Option {
	return []java.Option{
		java.WithWarnings(a.config.Analysis.Warnings),
		java.WithStructuralGate(a.config.Analysis.StructuralGate),
	}
}

func (a *app) analysis(file string) []java.Option {
	return append(a.checks(), java.WithFile(file))
}

// readSource reads the file named by args, or standard input when args
// is empty or "-".
func (a *app) readSource(args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		src, err := io.ReadAll(a.in)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return src, "<stdin>", nil
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("read source: %w", err)
	}
	return src, args[0], nil
}

// emit prints docs in the configured format. With --dump the values are
// printed with litter instead.
func (a *app) emit(docs ...*format.Document) error {
	if a.dump {
		for _, doc := range docs {
			if _, err := fmt.Fprintln(a.out, litter.Sdump(doc.Value)); err != nil {
				return err
			}
		}
		return nil
	}

	enc, err := format.New(a.config.Output.Format, a.out, a.config.Output.Width)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode %s: %w", strings.ToLower(doc.Title), err)
		}
	}
	return nil
}
