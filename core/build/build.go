// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package build runs the inline engine over Go packages.

It loads packages with golang.org/x/tools/go/packages, rewrites every file on
a bounded worker pool and writes the results either in place or into a
mirror tree. Invalid calls and files whose rewrite does not parse are
logged and collected into the returned [Report] as diagnostics; host
failures (package loading, encoder errors, writes) abort the run.
*/
package build

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"codeberg.org/pixivfe/i18ninline/core/inline"
	"codeberg.org/pixivfe/i18ninline/core/stats"
)

var (
	ErrLoad  = errors.New("loading packages")
	ErrWrite = errors.New("writing output")

	errOutsideRoot = errors.New("file is outside the root directory")
	errBothOutputs = errors.New("OutDir and InPlace are mutually exclusive")
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// Options configures a [Run].
type Options struct {
	// Patterns are go/packages patterns such as "./...". Empty means "./...".
	Patterns []string
	// Dir is the directory packages are loaded from and the root that
	// OutDir mirrors. Empty means the working directory.
	Dir string
	// Tests includes _test.go files.
	Tests bool

	// OutDir receives every processed file at its path relative to Dir.
	OutDir string
	// InPlace overwrites changed files. With neither OutDir nor InPlace
	// nothing is written.
	InPlace bool

	// Workers bounds concurrent file rewrites. 0 means GOMAXPROCS.
	Workers int

	// RunID tags log lines and metrics. Empty means a fresh UUID.
	RunID string
	// Stats, when set, receives file and call site counts.
	Stats *stats.Stats
	// Logger receives progress and diagnostics. nil disables logging.
	Logger *zerolog.Logger
}

// Report summarizes a run.
type Report struct {
	RunID     string
	Files     int
	Changed   int
	Rewritten int
	Invalid   int
	// Diagnostics are sorted by file and line.
	Diagnostics []inline.Diagnostic
	Written     []string
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Report) HasErrors() bool {
	return slices.ContainsFunc(r.Diagnostics, func(d inline.Diagnostic) bool {
		return d.Severity == inline.SeverityError
	})
}

type job struct {
	path string
	fset *token.FileSet
	file *ast.File
	info *types.Info
}

// Run loads the packages named by opts and rewrites them with e.
func Run(ctx context.Context, e *inline.Engine, opts Options) (*Report, error) {
	if opts.OutDir != "" && opts.InPlace {
		return nil, errBothOutputs
	}

	start := time.Now()

	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("sys", "build").Str("run_id", opts.RunID).Logger()
	}

	root, err := filepath.Abs(cmp.Or(opts.Dir, "."))
	if err != nil {
		return nil, err
	}

	jobs, err := load(ctx, root, opts, &log)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("files", len(jobs)).Msg("Loaded packages")

	if opts.Stats != nil {
		opts.Stats.CatalogEntries.Set(float64(e.CatalogEntries()))
	}

	report := &Report{RunID: opts.RunID}

	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cmp.Or(opts.Workers, runtime.GOMAXPROCS(0)))

	for _, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, written, err := processFile(e, root, opts, j)
			if err != nil {
				return err
			}

			logDiagnostics(&log, res.Diagnostics)

			if opts.Stats != nil {
				opts.Stats.AddFile(res.Changed, res.Rewritten, res.Invalid)
			}

			mu.Lock()
			defer mu.Unlock()

			report.Files++
			report.Rewritten += res.Rewritten
			report.Invalid += res.Invalid
			report.Diagnostics = append(report.Diagnostics, res.Diagnostics...)

			if res.Changed {
				report.Changed++
			}

			if written != "" {
				report.Written = append(report.Written, written)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(report.Diagnostics, func(a, b inline.Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Pos.Filename, b.Pos.Filename),
			cmp.Compare(a.Pos.Offset, b.Pos.Offset),
		)
	})
	slices.Sort(report.Written)

	if opts.Stats != nil {
		opts.Stats.Duration.Set(time.Since(start).Seconds())
	}

	log.Info().
		Int("files", report.Files).
		Int("changed", report.Changed).
		Int("rewritten", report.Rewritten).
		Int("invalid", report.Invalid).
		Dur("took", time.Since(start)).
		Msg("Build finished")

	return report, nil
}

// load returns one job per Go source file. A file shared by a package and
// its test variant is processed once.
func load(ctx context.Context, root string, opts Options, log *zerolog.Logger) ([]job, error) {
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pkgs, err := packages.Load(&packages.Config{
		Mode:    loadMode,
		Context: ctx,
		Dir:     root,
		Tests:   opts.Tests,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	var (
		jobs  []job
		seen  = map[string]bool{}
		fatal int
	)

	for _, p := range pkgs {
		info := p.TypesInfo

		// Translation stubs may be missing. A package that parses but does
		// not type-check is rewritten from syntax alone; go list reports the
		// same compile errors again, so those are downgraded with it.
		fallback := len(p.TypeErrors) > 0 && !slices.ContainsFunc(p.Errors, func(e packages.Error) bool {
			return e.Kind == packages.ParseError
		})
		if fallback {
			info = nil
		}

		for _, perr := range p.Errors {
			if fallback {
				log.Warn().Str("package", p.PkgPath).Msg(perr.Error())

				continue
			}

			log.Error().Str("package", p.PkgPath).Msg(perr.Error())

			fatal++
		}

		goFiles := map[string]bool{}
		for _, f := range p.GoFiles {
			goFiles[f] = true
		}

		for _, f := range p.Syntax {
			path := p.Fset.File(f.Pos()).Name()

			// cgo output and the generated test main are not sources.
			if !goFiles[path] || seen[path] || !within(root, path) {
				continue
			}

			seen[path] = true
			jobs = append(jobs, job{path: path, fset: p.Fset, file: f, info: info})
		}
	}

	if fatal > 0 {
		return nil, fmt.Errorf("%w: %d errors", ErrLoad, fatal)
	}

	slices.SortFunc(jobs, func(a, b job) int { return cmp.Compare(a.path, b.path) })

	return jobs, nil
}

func processFile(e *inline.Engine, root string, opts Options, j job) (*inline.FileResult, string, error) {
	src, err := os.ReadFile(j.path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrLoad, err)
	}

	res, err := e.RewriteFile(j.fset, j.file, src, j.info)

	switch {
	case errors.Is(err, inline.ErrOutput):
		// The file is kept as is and the other files still run.
		res = &inline.FileResult{
			Source: src,
			Diagnostics: []inline.Diagnostic{{
				Pos:      token.Position{Filename: j.path},
				Severity: inline.SeverityError,
				Message:  err.Error(),
			}},
		}
	case err != nil:
		return nil, "", err
	}

	var dst string

	switch {
	case opts.InPlace && res.Changed:
		dst = j.path
	case opts.OutDir != "":
		if !within(root, j.path) {
			return nil, "", fmt.Errorf("%w: %w: %s", ErrWrite, errOutsideRoot, j.path)
		}

		rel, _ := filepath.Rel(root, j.path)
		dst = filepath.Join(opts.OutDir, rel)
	default:
		return res, "", nil
	}

	if err := writeFile(dst, res.Source, j.path); err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return res, dst, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)

	return err == nil && filepath.IsLocal(rel)
}

// writeFile writes data to dst with the permissions of the source file.
func writeFile(dst string, data []byte, source string) error {
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(source); err == nil {
		perm = fi.Mode().Perm()
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	return os.WriteFile(dst, data, perm)
}

func logDiagnostics(log *zerolog.Logger, diags []inline.Diagnostic) {
	for _, d := range diags {
		var ev *zerolog.Event

		switch d.Severity {
		case inline.SeverityError:
			ev = log.Error()
		case inline.SeverityWarning:
			ev = log.Warn()
		default:
			continue
		}

		ev.Str("pos", d.Pos.String()).Msg(d.Message)
	}
}
