package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "earlybird", displayVersion(version))
	},
}

// displayVersion canonicalizes a release version ("1.2" becomes "v1.2.0").
// Anything that is not semver is shown as is.
func displayVersion(v string) string {
	sv := v
	if !strings.HasPrefix(sv, "v") {
		sv = "v" + sv
	}
	if !semver.IsValid(sv) {
		return v
	}
	return semver.Canonical(sv)
}
