// Command linkorder resolves the single-pass link order of the static
// libraries under a directory tree and prints the resulting linker
// directives.
//
// Typical use in a build script, after the wrapped library has been
// built:
//
//	linkorder --root build/ --format args
//
// With --source set, the wrapped library's CMake build is run first and
// its build directory becomes the scan root.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	linkorder "github.com/contriboss/linkorder-go"
)

type rootFlags struct {
	root        string
	source      string
	buildDir    string
	format      string
	parallelism int
	dumpSymbols bool
	verbose     bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "linkorder",
		Short: "Resolve the link order of static libraries",
		Long: `linkorder scans a directory tree for static archives (lib<name>.a),
resolves the order in which a single-pass linker must receive them, and
prints the corresponding linker directives.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.root, "root", "r", ".", "directory to scan for static archives")
	cmd.Flags().StringVar(&flags.source, "source", "", "CMake source directory to build before scanning")
	cmd.Flags().StringVar(&flags.buildDir, "build-dir", "", "build directory for --source (default <source>/build)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "args", "output format: args, cgo or list")
	cmd.Flags().IntVarP(&flags.parallelism, "parallel", "p", 1, "number of archives parsed concurrently")
	cmd.Flags().BoolVar(&flags.dumpSymbols, "dump-symbols", false, "dump the symbol resolution table to stderr")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func run(cmd *cobra.Command, flags *rootFlags) error {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	if flags.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	root := flags.root
	if flags.source != "" {
		buildDir, err := buildNative(cmd, flags, logger)
		if err != nil {
			return err
		}
		root = buildDir
	}

	result, err := linkorder.Resolve(linkorder.ScanConfig{
		Root:        root,
		Logger:      logger,
		Parallelism: flags.parallelism,
	})
	if err != nil {
		var cyclic *linkorder.CyclicDependencyError
		var multi *linkorder.MultipleDefinitionsError
		if errors.As(err, &cyclic) || errors.As(err, &multi) {
			logger.Error(err.Error())
		}
		return err
	}

	if flags.dumpSymbols {
		dumpTable(cmd, result)
	}

	return printDirectives(cmd, flags.format, result)
}

func buildNative(cmd *cobra.Command, flags *rootFlags, logger *logrus.Logger) (string, error) {
	builder := &linkorder.CMakeBuilder{}
	if err := builder.CheckTools(); err != nil {
		return "", err
	}

	config := &linkorder.NativeBuildConfig{
		SourceDir: flags.source,
		BuildDir:  flags.buildDir,
		Verbose:   flags.verbose,
	}
	result, err := builder.Build(cmd.Context(), config)
	if err != nil {
		return "", err
	}
	logger.WithField("archives", len(result.Archives)).Debug("native build complete")

	if flags.buildDir != "" {
		return flags.buildDir, nil
	}
	return filepath.Join(flags.source, "build"), nil
}

// dumpTable mirrors the resolver's internal state for debugging: every
// defined symbol with its owner, every undefined occurrence with its
// requester, and the discovered libraries.
func dumpTable(cmd *cobra.Command, result *linkorder.ResolveResult) {
	errOut := cmd.ErrOrStderr()

	for name, lib := range result.Table.Defined {
		fmt.Fprintf(errOut, "defined %s %s\n", name, lib)
	}
	for _, ref := range result.Table.Undefined {
		fmt.Fprintf(errOut, "undefined %s %s\n", ref.Symbol, ref.Requester)
	}
	for _, lib := range result.Ordered {
		fmt.Fprintf(errOut, "found static lib: %s\n", lib)
	}
}

func printDirectives(cmd *cobra.Command, format string, result *linkorder.ResolveResult) error {
	out := cmd.OutOrStdout()

	switch format {
	case "args":
		fmt.Fprintln(out, strings.Join(linkorder.LinkerArgs(result.Directives), " "))
	case "cgo":
		if line := linkorder.CgoLDFLAGS(result.Directives); line != "" {
			fmt.Fprintln(out, line)
		}
	case "list":
		for _, lib := range result.Ordered {
			fmt.Fprintln(out, lib.Path)
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}
