package scenario

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/talgya/sengoku/internal/realm"
)

//go:embed scenarios/*.yaml
var builtins embed.FS

// DefaultName is the scenario used when none is configured.
const DefaultName = "okehazama"

// Builtins lists the embedded scenario names.
func Builtins() []string {
	entries, _ := fs.ReadDir(builtins, "scenarios")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	return names
}

// Builtin parses an embedded scenario by name.
func Builtin(name string) (*realm.State, error) {
	data, err := builtins.ReadFile("scenarios/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: no built-in scenario %q", ErrInvalid, name)
	}
	return Parse(data)
}

// Default returns the Okehazama opening.
func Default() (*realm.State, error) {
	return Builtin(DefaultName)
}
