package build

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spvbuild/internal/model"
)

// Config controls a build pass.
type Config struct {
	BaseDir   string   // Anchor for a relative SourceDir; defaults to the working directory
	SourceDir string   // Defaults to model.DefaultSourceDir
	Toolkit   Toolkit  // Compiler location
	ExtraArgs []string // Flags inserted before the input path
	Strict    bool     // Return a BatchError when any invocation fails
}

// Plan is everything resolved before the first compiler starts.
type Plan struct {
	SourceDir   string
	Compiler    string
	Invocations []model.CompilerInvocation
}

// Runner compiles every shader in the source directory, one at a time.
type Runner struct {
	cfg    Config
	exec   Executor
	out    io.Writer
	logger *slog.Logger
}

// NewRunner creates a Runner. Confirmation lines are written to out.
// A nil logger discards log output.
func NewRunner(cfg Config, exec Executor, out io.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{cfg: cfg, exec: exec, out: out, logger: logger}
}

// Confirmation is the line printed after every attempted file, whatever
// the compiler's exit status.
func Confirmation(name string) string {
	return "Compiled shader: " + name
}

// Prepare resolves the source directory, enumerates it and locates the
// compiler. It fails before any process is started.
func (r *Runner) Prepare() (*Plan, error) {
	base := r.cfg.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	rel := r.cfg.SourceDir
	if rel == "" {
		rel = model.DefaultSourceDir
	}

	dir, err := model.ResolveDir(base, rel)
	if err != nil {
		return nil, &DirectoryNotFoundError{Path: dir, Err: err}
	}
	r.logger.Debug("Source directory resolved.", "dir", dir)

	names, err := model.ListRegularFiles(dir)
	if err != nil {
		return nil, &DirectoryNotFoundError{Path: dir, Err: err}
	}
	r.logger.Debug("Directory enumerated.", "regular_files", len(names))

	compiler, err := r.cfg.Toolkit.ResolveCompiler()
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Compiler resolved.", "compiler", compiler)

	plan := &Plan{SourceDir: dir, Compiler: compiler}
	for _, f := range model.ShaderFiles(names) {
		input := filepath.Join(dir, f.Name)
		plan.Invocations = append(plan.Invocations, model.CompilerInvocation{
			Compiler: compiler,
			File:     f,
			Input:    input,
			Output:   model.OutputPath(input),
			Extra:    r.cfg.ExtraArgs,
		})
	}
	r.logger.Debug("Build plan ready.", "shaders", len(plan.Invocations))
	return plan, nil
}

// Invoke runs a single invocation and records its outcome. Failures are
// logged and returned in the Result, never as an error.
func (r *Runner) Invoke(inv model.CompilerInvocation) model.Result {
	start := time.Now()
	code, err := r.exec.Execute(inv)
	res := model.Result{
		File:     inv.File.Name,
		Stage:    inv.File.Stage,
		Output:   inv.Output,
		ExitCode: code,
		Duration: time.Since(start),
	}
	if err != nil {
		res.Error = err.Error()
		r.logger.Debug("Compiler could not be run.", "file", inv.File.Name, "error", err)
	} else if code != 0 {
		r.logger.Debug("Compiler exited non-zero.", "file", inv.File.Name, "exit_code", code)
	}
	return res
}

// Run performs a full pass: prepare, then compile each shader in order,
// printing a confirmation per file. Outside strict mode the returned error
// is non-nil only for the fatal setup conditions.
func (r *Runner) Run() (*model.BuildReport, error) {
	plan, err := r.Prepare()
	if err != nil {
		return nil, err
	}
	return r.Execute(plan)
}

// Execute compiles every invocation in plan sequentially.
func (r *Runner) Execute(plan *Plan) (*model.BuildReport, error) {
	report := &model.BuildReport{
		SourceDir: plan.SourceDir,
		Compiler:  plan.Compiler,
		Results:   make([]model.Result, 0, len(plan.Invocations)),
	}

	for _, inv := range plan.Invocations {
		res := r.Invoke(inv)
		report.Results = append(report.Results, res)
		fmt.Fprintln(r.out, Confirmation(inv.File.Name))
	}

	failed := report.Failed()
	r.logger.Debug("Build pass finished.", "total", len(report.Results), "failed", failed)

	if r.cfg.Strict && failed > 0 {
		return report, &BatchError{Failed: failed, Total: len(report.Results)}
	}
	return report, nil
}
