package scene

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed models/*.yaml
var builtins embed.FS

// Builtins lists the names of the embedded models.
func Builtins() []string {
	entries, err := builtins.ReadDir("models")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

func Builtin(name string) (*Document, error) {
	data, err := builtins.ReadFile(path.Join("models", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return Parse(data)
}

// Resolve returns the builtin called ref, or loads ref as a file path.
func Resolve(ref string) (*Document, error) {
	if _, err := os.Stat(ref); err == nil {
		return Load(ref)
	}
	return Builtin(ref)
}
