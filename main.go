package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"spvbuild/internal/build"
	"spvbuild/internal/model"
	"spvbuild/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/pflag"
)

// ExitError carries a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

type options struct {
	dir       string
	sdkEnv    string
	compiler  string
	extraArgs string
	strict    bool
	report    bool
	json      bool
	tui       bool
	watch     bool
	checkComp bool
	verbose   bool
	version   bool
	help      bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newFlagSet(opts *options, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("spvbuild", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: spvbuild [options]\n\n")
		fmt.Fprintf(stderr, "spvbuild compiles GLSL vertex and fragment shaders to SPIR-V.\n")
		fmt.Fprintf(stderr, "Every *.vert and *.frag file in the shader directory is passed to\n")
		fmt.Fprintf(stderr, "$VULKAN_SDK/bin/glslc and written next to its source as <name>.spv.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  spvbuild                      # Compile ../src/resources/shaders\n")
		fmt.Fprintf(stderr, "  spvbuild -d shaders -r        # Other directory, print a summary\n")
		fmt.Fprintf(stderr, "  spvbuild -a \"-O\" --strict     # Optimize, fail if any shader fails\n")
		fmt.Fprintf(stderr, "  spvbuild --watch              # Recompile on change\n")
	}

	fs.StringVarP(&opts.dir, "dir", "d", model.DefaultSourceDir, "Shader source directory, relative to the working directory")
	fs.StringVarP(&opts.sdkEnv, "sdk-env", "e", build.DefaultSDKEnv, "Environment variable naming the toolkit root")
	fs.StringVarP(&opts.compiler, "compiler", "c", build.DefaultCompiler, "Compiler binary under <root>/bin")
	fs.StringVarP(&opts.extraArgs, "args", "a", "", "Extra compiler flags, shell-quoted")
	fs.BoolVarP(&opts.strict, "strict", "s", false, "Exit non-zero when any compiler invocation fails")
	fs.BoolVarP(&opts.report, "report", "r", false, "Print a summary table after the run")
	fs.BoolVarP(&opts.json, "json", "j", false, "Print the build report as JSON")
	fs.BoolVarP(&opts.tui, "tui", "t", false, "Interactive progress view")
	fs.BoolVarP(&opts.watch, "watch", "w", false, "Recompile on changes until interrupted")
	fs.BoolVar(&opts.checkComp, "check-compiler", false, "Check for a newer shaderc release")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	fs.BoolVarP(&opts.version, "version", "V", false, "Print version information")
	fs.BoolVarP(&opts.help, "help", "h", false, "Show this help message")
	return fs
}

// run holds the program logic so it can be driven from tests.
func run(args []string, stdout, stderr io.Writer) error {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if fs.NArg() > 0 {
		return &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", fs.Arg(0))}
	}

	if opts.help {
		fs.Usage()
		return nil
	}
	if opts.version {
		fmt.Fprintf(stdout, "spvbuild version %s\n", model.Version)
		return nil
	}

	// A failing pass must not end a watch, so strict has nothing to act on.
	if opts.watch && opts.strict {
		return &ExitError{Code: 2, Message: "--strict cannot be combined with --watch"}
	}
	if opts.watch && opts.tui {
		return &ExitError{Code: 2, Message: "--tui cannot be combined with --watch"}
	}

	logger := newLogger(opts.verbose, stderr)

	extra, err := shellwords.Parse(opts.extraArgs)
	if err != nil {
		return &ExitError{Code: 2, Message: fmt.Sprintf("invalid --args: %v", err)}
	}

	tk := build.DefaultToolkit()
	tk.EnvVar = opts.sdkEnv
	tk.Compiler = opts.compiler

	cfg := build.Config{
		SourceDir: opts.dir,
		Toolkit:   tk,
		ExtraArgs: extra,
		Strict:    opts.strict,
	}

	if opts.checkComp {
		return runCheckCompiler(cfg.Toolkit, stdout)
	}

	// Confirmation lines move to stderr so stdout stays valid JSON.
	confirmW := stdout
	if opts.json {
		confirmW = stderr
	}
	exe := build.NewExecExecutor()
	exe.Stdout = confirmW
	exe.Stderr = stderr

	switch {
	case opts.tui:
		return runTuiMode(cfg, opts, logger, stdout, stderr)
	case opts.watch:
		return runWatchMode(cfg, opts, exe, confirmW, logger, stdout)
	}

	runner := build.NewRunner(cfg, exe, confirmW, logger)
	report, err := runner.Run()
	if report != nil {
		if werr := writeReports(report, opts, stdout); werr != nil {
			return werr
		}
	}
	return err
}

func writeReports(report *model.BuildReport, opts options, stdout io.Writer) error {
	if opts.json {
		if err := build.WriteJSON(stdout, report); err != nil {
			return fmt.Errorf("failed to write JSON report: %w", err)
		}
	}
	if opts.report && !opts.json {
		fmt.Fprint(stdout, "\n"+build.GenerateReport(report, opts.verbose, stdout))
	}
	return nil
}

func runWatchMode(cfg build.Config, opts options, exe build.Executor, confirmW io.Writer, logger *slog.Logger, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := &build.Watcher{
		Runner: build.NewRunner(cfg, exe, confirmW, logger),
		OnPass: func(report *model.BuildReport, err error) {
			if report == nil {
				return
			}
			if werr := writeReports(report, opts, stdout); werr != nil {
				logger.Error("Failed to write build report.", "error", werr)
			}
		},
	}
	return w.Watch(ctx)
}

func runTuiMode(cfg build.Config, opts options, logger *slog.Logger, stdout, stderr io.Writer) error {
	// Compiler output would tear the alt screen; hold it until the program exits.
	compilerOut := &safeBuffer{}
	exe := build.NewExecExecutor()
	exe.Stdin = nil
	exe.Stdout = compilerOut
	exe.Stderr = compilerOut

	// Logs are only useful after the view is gone.
	logBuf := &safeBuffer{}
	runner := build.NewRunner(cfg, exe, io.Discard, newLogger(opts.verbose, logBuf))

	m := tui.InitialModel(runner)
	p := tea.NewProgram(m, tea.WithOutput(progressOutput(opts, stdout, stderr)))
	final, err := p.Run()
	io.WriteString(stderr, compilerOut.String())
	io.WriteString(stderr, logBuf.String())
	if err != nil {
		return fmt.Errorf("progress view failed: %w", err)
	}

	fm, ok := final.(tui.AppModel)
	if !ok {
		return nil
	}
	if fm.Err != nil {
		return fm.Err
	}
	report := fm.Report()
	if err := writeReports(report, opts, stdout); err != nil {
		return err
	}
	logger.Debug("Progress view finished.", "attempted", len(report.Results), "failed", report.Failed())
	return progressOutcome(fm, cfg.Strict)
}

// progressOutput picks where the progress view draws. With --json, stdout
// is reserved for the report document.
func progressOutput(opts options, stdout, stderr io.Writer) io.Writer {
	if opts.json {
		return stderr
	}
	return stdout
}

// progressOutcome maps the final progress view state to the run's error.
// A batch stopped early never counts as success.
func progressOutcome(fm tui.AppModel, strict bool) error {
	report := fm.Report()
	if fm.Aborted {
		total := len(report.Results)
		if fm.Plan != nil {
			total = len(fm.Plan.Invocations)
		}
		return &ExitError{
			Code:    1,
			Message: fmt.Sprintf("stopped after %d of %d shaders", len(report.Results), total),
		}
	}
	if strict && report.Failed() > 0 {
		return &build.BatchError{Failed: report.Failed(), Total: len(report.Results)}
	}
	return nil
}

// safeBuffer is a bytes.Buffer that tolerates concurrent writers.
type safeBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

func runCheckCompiler(tk build.Toolkit, stdout io.Writer) error {
	compiler, err := tk.ResolveCompiler()
	if err != nil {
		return err
	}
	current, err := build.InstalledVersion(compiler)
	if err != nil {
		return fmt.Errorf("failed to read compiler version from %s: %w", compiler, err)
	}

	res, err := build.CheckLatest(current)
	if err != nil {
		fmt.Fprintf(stdout, "shaderc %s installed (release check unavailable)\n", current)
		return nil // Silently fail
	}
	if res.Outdated {
		fmt.Fprintf(stdout, "✨ A newer shaderc is available: %s (you have %s)\n", res.Current, current)
		fmt.Fprintln(stdout, "👉 Update the Vulkan SDK or see https://github.com/google/shaderc/releases")
	} else {
		fmt.Fprintf(stdout, "✅ shaderc %s is up to date\n", current)
	}
	return nil
}
