package build

import (
	"os"
	"path/filepath"
)

const (
	// DefaultSDKEnv names the variable holding the toolkit installation root.
	DefaultSDKEnv = "VULKAN_SDK"
	// DefaultCompiler is the compiler binary under <root>/bin.
	DefaultCompiler = "glslc"
)

// LookupFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Toolkit locates the shader compiler inside an SDK installation.
type Toolkit struct {
	EnvVar   string     // Variable naming the SDK root
	Compiler string     // Binary name under <root>/bin
	Lookup   LookupFunc // Defaults to os.LookupEnv
}

// DefaultToolkit returns the Vulkan SDK / glslc layout.
func DefaultToolkit() Toolkit {
	return Toolkit{EnvVar: DefaultSDKEnv, Compiler: DefaultCompiler, Lookup: os.LookupEnv}
}

// ResolveCompiler returns <root>/bin/<compiler>. The binary is not checked
// for existence; a missing compiler surfaces when it is started.
func (t Toolkit) ResolveCompiler() (string, error) {
	lookup := t.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	envVar := t.EnvVar
	if envVar == "" {
		envVar = DefaultSDKEnv
	}
	compiler := t.Compiler
	if compiler == "" {
		compiler = DefaultCompiler
	}

	root, ok := lookup(envVar)
	if !ok || root == "" {
		return "", &MissingEnvironmentVariableError{Name: envVar}
	}
	return filepath.Join(root, "bin", compiler), nil
}
