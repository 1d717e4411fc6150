package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purpl3F0x/typst/pkg/version"
)

func TestPrintVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info version.Info
		want string
	}{
		{
			name: "clean",
			info: version.Info{Version: "v0.3.0", GitHash: "abc123", GoVersion: "go1.24.5"},
			want: "typst-intern v0.3.0 (commit: abc123, go1.24.5)\n",
		},
		{
			name: "dirty",
			info: version.Info{Version: "dev", GitHash: "abc123", GoVersion: "go1.24.5", Dirty: true},
			want: "typst-intern dev (commit: abc123, go1.24.5, dirty)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			printVersion(&buf, tt.info)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cmd := versionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(buf.String(), "typst-intern "))
}
