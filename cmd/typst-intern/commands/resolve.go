package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/purpl3F0x/typst/pkg/diag"
	"github.com/purpl3F0x/typst/pkg/pathstr"
	"github.com/purpl3F0x/typst/pkg/vpath"
)

const (
	resolveCmdUse   = "resolve [--within <file>] <path>..."
	resolveCmdShort = "Resolve paths relative to a file inside the sandbox"

	flagWithin  = "within"
	flagRoot    = "root"
	flagPackage = "package"
	flagNoColor = "no-color"
)

// ErrResolveFailed is returned when at least one path did not resolve. The
// individual diagnostics have already been written to stderr.
var ErrResolveFailed = errors.New("path resolution failed")

type resolveOptions struct {
	within   string
	rootKind string
	pkg      string
	noColor  bool
}

// NewResolveCommand creates the resolve subcommand.
func NewResolveCommand(opts *Options) *cobra.Command {
	ro := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   resolveCmdUse,
		Short: resolveCmdShort,
		Long: `Resolve each path the way a source file would when it imports or reads it.

Relative paths are taken from the directory of --within, absolute paths from the
sandbox root. Every resolved path is interned and printed with its file ID. Without
--within the paths are resolved from a detached source, which has no file system
access.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed(flagRoot) {
				cfg.Sandbox.Root = ro.rootKind
			}

			if cmd.Flags().Changed(flagPackage) {
				cfg.Sandbox.Package = ro.pkg
			}

			root, err := cfg.Sandbox.VirtualRoot()
			if err != nil {
				return err
			}

			providers, err := startObservability(cfg, "resolve", cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}

			defer shutdownObservability(providers)

			colored := !ro.noColor && !color.NoColor

			return runResolve(cmd.OutOrStdout(), cmd.ErrOrStderr(), providers.Logger, root, ro.within, args, colored)
		},
	}

	cmd.Flags().StringVar(&ro.within, flagWithin, "", "file the paths are relative to (empty: detached source)")
	cmd.Flags().StringVar(&ro.rootKind, flagRoot, "", "sandbox root: project or package (default from config)")
	cmd.Flags().StringVar(&ro.pkg, flagPackage, "", "package spec for --root package, e.g. @preview/example:0.1.0")
	cmd.Flags().BoolVar(&ro.noColor, flagNoColor, false, "disable colored diagnostics")

	return cmd
}

func runResolve(
	out, errOut io.Writer, logger *slog.Logger, root vpath.VirtualRoot, within string, paths []string, colored bool,
) error {
	var withinID vpath.FileID

	if within != "" {
		rootPath, err := vpath.New(root, "/")
		if err != nil {
			return fmt.Errorf("sandbox root: %w", err)
		}

		withinPath, err := pathstr.PathStr(within).Resolve(rootPath)
		if err != nil {
			return reportDiagnostic(errOut, err, colored)
		}

		withinID = withinPath.Intern()
	}

	files := vpath.Files().Table()
	failed := 0

	for _, p := range paths {
		resolved, err := pathstr.PathStr(p).ResolveID(withinID, files)
		if err != nil {
			failed++

			renderErr := reportDiagnostic(errOut, err, colored)
			if !errors.Is(renderErr, ErrResolveFailed) {
				return renderErr
			}

			continue
		}

		id := resolved.Intern()
		logger.Debug("resolved path", "input", p, "path", resolved.String(), "file_id", id.Raw())

		_, err = fmt.Fprintf(out, "%d\t%s\n", id.Raw(), resolved)
		if err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d paths", ErrResolveFailed, failed, len(paths))
	}

	return nil
}

// reportDiagnostic writes err to w and returns ErrResolveFailed, or the write
// error if rendering failed.
func reportDiagnostic(w io.Writer, err error, colored bool) error {
	var hinted *diag.HintedString
	if !errors.As(err, &hinted) {
		hinted = diag.New(err.Error())
	}

	renderErr := hinted.Render(w, colored)
	if renderErr != nil {
		return renderErr
	}

	return ErrResolveFailed
}
