package cmd

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeBuild(t *testing.T) {
	info := &debug.BuildInfo{
		GoVersion: "go1.25.6",
		Main:      debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name   string
		linked string
		info   *debug.BuildInfo
		want   buildDescription
	}{
		{"no build info", "", nil, buildDescription{Version: "(devel)"}},
		{"module version", "", info, buildDescription{
			Version: "v0.3.0", Revision: "0123456789ab-dirty", GoVersion: "go1.25.6",
		}},
		{"linker version wins", "v1.0.0", info, buildDescription{
			Version: "v1.0.0", Revision: "0123456789ab-dirty", GoVersion: "go1.25.6",
		}},
		{"clean tree", "", &debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc"},
		}}, buildDescription{Version: "(devel)", Revision: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeBuild(tt.linked, tt.info))
		})
	}
}
