package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Output string // output file path; empty means stdout
}

// RenderResult is the JSON payload for a successful render.
type RenderResult struct {
	HTML       string `json:"html"`
	InputBytes int    `json:"input_bytes"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a BBCode document to HTML",
		Long: `Render a single BBCode document to HTML.

Reads the named file, or stdin when no file is given, and writes the
rendered HTML to stdout (or to --output).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runRender(opts *RenderOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		_ = formatter.Error(ErrCodeBadConfig, err.Error())
		return WrapExitError(ExitCommandError, "loading config", err)
	}
	engine := BuildEngine(cfg)

	var input []byte
	if len(args) == 1 {
		input, err = os.ReadFile(args[0])
		if err != nil {
			_ = formatter.Error(ErrCodeReadFailed, err.Error())
			return WrapExitError(ExitCommandError, "reading input", err)
		}
		formatter.VerboseLog("Read %d byte(s) from %s", len(input), args[0])
	} else {
		input, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			_ = formatter.Error(ErrCodeReadFailed, err.Error())
			return WrapExitError(ExitFailure, "reading stdin", err)
		}
		formatter.VerboseLog("Read %d byte(s) from stdin", len(input))
	}

	html := engine.Transform(string(input))

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(html), 0644); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error())
			return WrapExitError(ExitFailure, "writing output", err)
		}
		formatter.VerboseLog("Wrote %d byte(s) to %s", len(html), opts.Output)
		if opts.Format == "json" {
			return formatter.Success(RenderResult{HTML: html, InputBytes: len(input)})
		}
		return nil
	}

	if opts.Format == "json" {
		return formatter.Success(RenderResult{HTML: html, InputBytes: len(input)})
	}
	fmt.Fprintln(formatter.Writer, html)
	return nil
}
