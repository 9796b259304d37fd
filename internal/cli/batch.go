package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bbhtml/internal/bbcode"
	"github.com/roach88/bbhtml/internal/store"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	CachePath string
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	Rendered int `json:"rendered"`
	Cached   int `json:"cached"`
	Failed   int `json:"failed"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Render every .bb file in a directory",
		Long: `Render every *.bb file in a directory to a sibling *.html file.

With --cache, rendered output is memoized in a sqlite database keyed by a
content hash of the input, so unchanged documents are not re-rendered.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.CachePath, "cache", "", "path to sqlite render cache")

	return cmd
}

func runBatch(opts *BatchOptions, dir string, cmd *cobra.Command) error {
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

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("not a directory: %s", dir))
		return NewExitError(ExitCommandError, fmt.Sprintf("not a directory: %s", dir))
	}

	cachePath := opts.CachePath
	if cachePath == "" {
		cachePath = cfg.CachePath
	}

	var cache *store.Store
	if cachePath != "" {
		cache, err = store.Open(cachePath)
		if err != nil {
			_ = formatter.Error(ErrCodeCacheError, err.Error())
			return WrapExitError(ExitCommandError, "opening render cache", err)
		}
		defer cache.Close()
	}

	inputs, err := filepath.Glob(filepath.Join(dir, "*.bb"))
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error())
		return WrapExitError(ExitCommandError, "scanning directory", err)
	}

	ctx := cmd.Context()
	var result BatchResult
	for _, in := range inputs {
		raw, err := os.ReadFile(in)
		if err != nil {
			slog.Error("batch read failed", "file", in, "error", err)
			result.Failed++
			continue
		}

		var html string
		hit := false
		hash := store.InputHash(string(raw))
		if cache != nil {
			html, hit, err = cache.Get(ctx, hash, bbcode.Version)
			if err != nil {
				slog.Warn("cache read failed, rendering", "file", in, "error", err)
				hit = false
			}
		}
		if !hit {
			html = engine.Transform(string(raw))
			if cache != nil {
				if err := cache.Put(ctx, hash, html, bbcode.Version); err != nil {
					slog.Warn("cache write failed", "file", in, "error", err)
				}
			}
		}

		out := strings.TrimSuffix(in, ".bb") + ".html"
		if err := os.WriteFile(out, []byte(html), 0644); err != nil {
			slog.Error("batch write failed", "file", out, "error", err)
			result.Failed++
			continue
		}

		if hit {
			result.Cached++
		} else {
			result.Rendered++
		}
		formatter.VerboseLog("%s -> %s (cached=%v)", in, out, hit)
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(formatter.Writer, "Rendered %d, cached %d, failed %d\n",
			result.Rendered, result.Cached, result.Failed)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) failed", result.Failed))
	}
	return nil
}
