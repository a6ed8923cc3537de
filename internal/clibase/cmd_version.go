package clibase

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

const (
	versionDepPrefix = "github.com/SkyMack"
	versionDevel     = "(devel)"
)

// versionText describes the binary and the dependencies under depPrefix
func versionText(name, depPrefix string) string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return fmt.Sprintf("%s %s\n", name, versionDevel)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s %s)\n", name, buildInfo.Main.Path, buildInfo.Main.Version)

	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "  Compiled with: %s\n", runtime.Compiler)
	fmt.Fprintf(&b, "         GOARCH: %s\n", runtime.GOARCH)
	fmt.Fprintf(&b, "           GOOS: %s\n", runtime.GOOS)
	fmt.Fprintf(&b, "     Go Version: %s\n", runtime.Version())

	var deps []string
	for _, pkg := range buildInfo.Deps {
		if !strings.HasPrefix(pkg.Path, depPrefix) {
			continue
		}
		output := fmt.Sprintf("%s %s", pkg.Path, pkg.Version)
		if pkg.Replace != nil {
			var struckthrough string
			for _, r := range output {
				struckthrough += "\u0336" + string(r)
			}
			output = fmt.Sprintf("%s\u0336  => %s", struckthrough, pkg.Replace.Path)
		}
		deps = append(deps, output)
	}
	if len(deps) > 0 {
		fmt.Fprintf(&b, "\n")
		for _, d := range deps {
			fmt.Fprintf(&b, "  %s\n", d)
		}
	}
	return b.String()
}

func binaryVersion() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok || buildInfo.Main.Version == "" {
		return versionDevel
	}
	return buildInfo.Main.Version
}

// addVersionFlag enables --version on rootCmd, printing the build information
func addVersionFlag(rootCmd *cobra.Command) {
	rootCmd.Version = binaryVersion()
	rootCmd.SetVersionTemplate(versionText(rootCmd.Name(), versionDepPrefix))
}
