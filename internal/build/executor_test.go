package build

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spvbuild/internal/model"
)

// fakeGlslc stands in for the real compiler: it writes a stub SPIR-V file to
// the path after -o, or fails with exit 3 when the input name contains "bad".
const fakeGlslc = `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "shaderc v2023.8 v2023.8"
  echo "spirv-tools v2023.6 v2023.6"
  exit 0
fi
out=""
in=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift 2 ;;
    -*) shift ;;
    *) in="$1"; shift ;;
  esac
done
case "$in" in
  *bad*) echo "$in: error: syntax error" >&2; exit 3 ;;
esac
printf '\003\002\043\007' > "$out"
echo "compiled $in"
`

// installFakeSDK writes fakeGlslc to <root>/bin/glslc and returns root.
func installFakeSDK(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler is a POSIX shell script")
	}
	root := t.TempDir()
	bin := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bin, DefaultCompiler), []byte(fakeGlslc), 0o755))
	return root
}

func TestExecExecutor_Success(t *testing.T) {
	root := installFakeSDK(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "tri.vert")
	require.NoError(t, os.WriteFile(in, []byte("void main() {}\n"), 0o644))

	var stdout, stderr bytes.Buffer
	exe := &ExecExecutor{Stdout: &stdout, Stderr: &stderr}
	code, err := exe.Execute(model.CompilerInvocation{
		Compiler: filepath.Join(root, "bin", DefaultCompiler),
		File:     model.ShaderFile{Name: "tri.vert", Stage: model.StageVertex},
		Input:    in,
		Output:   model.OutputPath(in),
	})

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.FileExists(t, in+".spv")
	assert.Contains(t, stdout.String(), "compiled "+in)
}

func TestExecExecutor_NonZeroExitIsNotAnError(t *testing.T) {
	root := installFakeSDK(t)
	in := filepath.Join(t.TempDir(), "bad.frag")

	var stderr bytes.Buffer
	exe := &ExecExecutor{Stdout: &bytes.Buffer{}, Stderr: &stderr}
	code, err := exe.Execute(model.CompilerInvocation{
		Compiler: filepath.Join(root, "bin", DefaultCompiler),
		Input:    in,
		Output:   model.OutputPath(in),
	})

	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Contains(t, stderr.String(), "syntax error")
	assert.NoFileExists(t, in+".spv")
}

func TestExecExecutor_MissingCompiler(t *testing.T) {
	exe := &ExecExecutor{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	code, err := exe.Execute(model.CompilerInvocation{
		Compiler: filepath.Join(t.TempDir(), "bin", "glslc"),
		Input:    "x.vert",
		Output:   "x.vert.spv",
	})

	require.Error(t, err)
	assert.Equal(t, -1, code)
}

func TestRunner_EndToEndWithFakeCompiler(t *testing.T) {
	root := installFakeSDK(t)
	base, shaders := setupTree(t, "a.vert", "bad.frag", "c.frag", "readme.md")

	var confirm, compilerOut bytes.Buffer
	r := NewRunner(Config{
		BaseDir: base,
		Toolkit: Toolkit{Lookup: sdkLookup(root)},
	}, &ExecExecutor{Stdout: &compilerOut, Stderr: &compilerOut}, &confirm, nil)

	report, err := r.Run()
	require.NoError(t, err, "compiler failures are not surfaced by default")

	assert.FileExists(t, filepath.Join(shaders, "a.vert.spv"))
	assert.FileExists(t, filepath.Join(shaders, "c.frag.spv"))
	assert.NoFileExists(t, filepath.Join(shaders, "bad.frag.spv"))
	assert.NoFileExists(t, filepath.Join(shaders, "readme.md.spv"))

	lines := strings.Split(strings.TrimSpace(confirm.String()), "\n")
	assert.Equal(t, []string{
		"Compiled shader: a.vert",
		"Compiled shader: bad.frag",
		"Compiled shader: c.frag",
	}, lines)
	assert.Equal(t, 1, report.Failed())

	// A second pass names the same outputs.
	again, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, report.Outputs(), again.Outputs())
}

func TestInstalledVersion(t *testing.T) {
	root := installFakeSDK(t)

	v, err := InstalledVersion(filepath.Join(root, "bin", DefaultCompiler))

	require.NoError(t, err)
	assert.Equal(t, "2023.8", v)
}

func TestNewExecExecutor(t *testing.T) {
	exe := NewExecExecutor()

	assert.Equal(t, os.Stdin, exe.Stdin)
	assert.Equal(t, os.Stdout, exe.Stdout)
	assert.Equal(t, os.Stderr, exe.Stderr)
}
