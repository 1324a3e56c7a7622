package build

import (
	"bytes"
	"errors"
	"os/exec"
	"regexp"

	"github.com/tcnksm/go-latest"
)

// shadercVersionRe matches the first line of `glslc --version`, e.g.
//
//	shaderc v2023.8 v2023.8
var shadercVersionRe = regexp.MustCompile(`(?m)^shaderc v(\d+\.\d+(?:\.\d+)?)`)

// ParseShadercVersion extracts the shaderc release from compiler version output.
func ParseShadercVersion(out string) (string, bool) {
	m := shadercVersionRe.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", false
	}
	return m[1], true
}

// InstalledVersion runs `<compiler> --version` and parses the result.
func InstalledVersion(compiler string) (string, error) {
	var out bytes.Buffer
	cmd := exec.Command(compiler, "--version")
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	v, ok := ParseShadercVersion(out.String())
	if !ok {
		return "", errors.New("compiler did not report a shaderc version")
	}
	return v, nil
}

// Source of shaderc releases.
var shadercTag = &latest.GithubTag{
	Owner:             "google",
	Repository:        "shaderc",
	FixVersionStrFunc: latest.DeleteFrontV(),
}

// CheckLatest compares an installed shaderc version against the newest
// tagged release. It needs network access.
func CheckLatest(current string) (*latest.CheckResponse, error) {
	return latest.Check(shadercTag, current)
}
