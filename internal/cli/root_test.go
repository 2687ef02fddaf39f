package cli

import (
	"io"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	want := map[string]bool{
		"layout":     false,
		"animate":    false,
		"serve":      false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	if root.Use != appName {
		t.Errorf("root.Use = %q, want %q", root.Use, appName)
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.SetLogLevel(log.DebugLevel)
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"json"}},
		{"json", []string{"json"}},
		{"json,svg", []string{"json", "svg"}},
		{"dot,svg,json", []string{"dot", "svg", "json"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"json", "g.layout.json"},
		{"dot", "g.dot"},
		{"svg", "g.svg"},
	}
	for _, tt := range tests {
		if got := artifactPath("g", tt.format); got != tt.want {
			t.Errorf("artifactPath(g, %q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestLayoutCommandFlagDefaults(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	cmd := c.layoutCommand()

	if got := cmd.Flags().Lookup("iterations").DefValue; got == "0" {
		t.Errorf("iterations default should come from config, got %s", got)
	}
	for _, name := range []string{"output", "format", "from", "no-cache", "refresh", "directed", "optimal", "seed", "scale", "labels"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag %q not registered", name)
		}
	}
}
