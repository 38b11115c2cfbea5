package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptquiz/internal/ui/theme"
)

// version is set via -ldflags at build time.
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version, revision and Go toolchain",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		bi, _ := debug.ReadBuildInfo()
		b := describeBuild(version, bi)
		fmt.Println(theme.Title.Render("adaptquiz " + b.Version))
		if b.Revision != "" {
			fmt.Println(theme.Hint.Render("revision " + b.Revision))
		}
		if b.GoVersion != "" {
			fmt.Println(theme.Hint.Render("built with " + b.GoVersion))
		}
	},
}

type buildDescription struct {
	Version   string
	Revision  string
	GoVersion string
}

// describeBuild prefers the linker-set version, then the main module's
// version, then "(devel)". A modified working tree marks the revision.
func describeBuild(linked string, bi *debug.BuildInfo) buildDescription {
	d := buildDescription{Version: linked}
	if bi != nil {
		d.GoVersion = bi.GoVersion
		if d.Version == "" && bi.Main.Version != "" {
			d.Version = bi.Main.Version
		}
		var dirty bool
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				d.Revision = s.Value
			case "vcs.modified":
				dirty = s.Value == "true"
			}
		}
		if len(d.Revision) > 12 {
			d.Revision = d.Revision[:12]
		}
		if dirty && d.Revision != "" {
			d.Revision += "-dirty"
		}
	}
	if d.Version == "" {
		d.Version = "(devel)"
	}
	return d
}
