package model

import (
	"strings"
	"time"
)

// Version is the spvbuild release version.
const Version = "0.3.1"

// Stage is the pipeline stage a shader source file is compiled for.
type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
)

// OutputSuffix is appended to the full input path to name the compiled binary.
const OutputSuffix = ".spv"

// stageSuffixes maps recognized file name suffixes to their stage.
// Matching is a case-sensitive suffix test, not extension parsing.
var stageSuffixes = []struct {
	suffix string
	stage  Stage
}{
	{".vert", StageVertex},
	{".frag", StageFragment},
}

// ShaderFile is a recognized shader source inside the source directory.
type ShaderFile struct {
	Name  string // File name only (e.g. triangle.vert)
	Stage Stage  // Derived from the name suffix
}

// StageOf reports the stage for a file name, or false if the name
// does not end in a recognized shader suffix.
func StageOf(name string) (Stage, bool) {
	for _, s := range stageSuffixes {
		if strings.HasSuffix(name, s.suffix) {
			return s.stage, true
		}
	}
	return "", false
}

// IsShaderName reports whether name ends in a recognized shader suffix.
func IsShaderName(name string) bool {
	_, ok := StageOf(name)
	return ok
}

// OutputPath returns the compiled binary path for an input path.
// The suffix is appended, never substituted: shader.vert -> shader.vert.spv.
func OutputPath(input string) string {
	return input + OutputSuffix
}

// CompilerInvocation is one run of the external compiler for one file.
type CompilerInvocation struct {
	Compiler string     // Absolute path of the compiler executable
	File     ShaderFile // Source file name and stage
	Input    string     // Full input path
	Output   string     // Full output path (Input + ".spv")
	Extra    []string   // Additional compiler flags, placed before the input
}

// Args returns the argument vector passed to the compiler, without argv[0].
func (inv CompilerInvocation) Args() []string {
	args := make([]string, 0, len(inv.Extra)+3)
	args = append(args, inv.Extra...)
	return append(args, inv.Input, "-o", inv.Output)
}

// Result records the outcome of a single invocation.
type Result struct {
	File     string        `json:"file"`
	Stage    Stage         `json:"stage"`
	Output   string        `json:"output"`
	ExitCode int           `json:"exitCode"`
	Error    string        `json:"error,omitempty"` // Start failure (e.g. compiler not found)
	Duration time.Duration `json:"durationNs"`
}

// OK reports whether the compiler started and exited zero.
func (r Result) OK() bool {
	return r.Error == "" && r.ExitCode == 0
}

// BuildReport is the outcome of one pass over the source directory.
type BuildReport struct {
	SourceDir string   `json:"sourceDir"`
	Compiler  string   `json:"compiler"`
	Results   []Result `json:"results"`
}

// Failed returns the number of invocations that did not succeed.
func (r *BuildReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.OK() {
			n++
		}
	}
	return n
}

// Outputs returns the output paths of every attempted invocation, in order.
func (r *BuildReport) Outputs() []string {
	out := make([]string, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.Output
	}
	return out
}
