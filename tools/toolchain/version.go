package main

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// defaultConstraint selects the Go releases whose 386 ABI0 calling convention
// and funcval layout match the assumptions made by the interrupt entry stubs.
const defaultConstraint = ">= 1.23.0, < 1.27.0"

// goVersion runs "<goCmd> version" and returns the reported release.
func goVersion(goCmd string) (*semver.Version, string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.Command(goCmd, "version")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, "", fmt.Errorf("%s version: %w: %s", goCmd, err, strings.TrimSpace(stderr.String()))
	}

	return parseGoVersion(stdout.String())
}

// parseGoVersion extracts the release from the output of "go version", e.g.
// "go version go1.23.4 linux/amd64". Release candidates ("go1.24rc1") are
// reported as pre-releases.
func parseGoVersion(out string) (*semver.Version, string, error) {
	fields := strings.Fields(out)
	if len(fields) < 3 || fields[0] != "go" || fields[1] != "version" || !strings.HasPrefix(fields[2], "go") {
		return nil, "", fmt.Errorf("unexpected go version output %q", strings.TrimSpace(out))
	}

	release := fields[2]
	v := strings.TrimPrefix(release, "go")
	if i := strings.IndexAny(v, "abcdefghijklmnopqrstuvwxyz"); i > 0 {
		v = v[:i] + "-" + v[i:]
	}

	ver, err := semver.NewVersion(v)
	if err != nil {
		return nil, "", fmt.Errorf("unsupported go release %q: %w", release, err)
	}

	return ver, release, nil
}

// checkVersion returns an error if ver does not satisfy constraint.
func checkVersion(ver *semver.Version, constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("constraint %q: %w", constraint, err)
	}

	if ok, errs := c.Validate(ver); !ok {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("go %s is not supported: %s", ver, strings.Join(msgs, "; "))
	}

	return nil
}
