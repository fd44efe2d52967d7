package contrib

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
)

// Env is the complete environment passed to build commands. Commands never
// inherit the parent environment implicitly.
type Env map[string]string

// EnvFromOS builds an Env from KEY=VALUE pairs, dropping variables whose
// name ends in ALIRE_PREFIX so that an outer Alire session does not leak
// into the build crate.
func EnvFromOS(environ []string) Env {
	env := make(Env, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		if strings.HasSuffix(key, "ALIRE_PREFIX") {
			continue
		}
		env[key] = value
	}
	return env
}

// Clone returns a copy of e.
func (e Env) Clone() Env {
	return maps.Clone(e)
}

// List returns the environment as sorted KEY=VALUE pairs.
func (e Env) List() []string {
	list := make([]string, 0, len(e))
	for _, k := range slices.Sorted(maps.Keys(e)) {
		list = append(list, k+"="+e[k])
	}
	return list
}

// PrependPath puts dirs in front of the path list stored in key.
func (e Env) PrependPath(key string, dirs ...string) {
	e[key] = joinPathList(append(slices.Clone(dirs), e[key]))
}

// AppendPath adds dirs to the end of the path list stored in key.
func (e Env) AppendPath(key string, dirs ...string) {
	e[key] = joinPathList(append([]string{e[key]}, dirs...))
}

func joinPathList(parts []string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, string(os.PathListSeparator))
}

// MergeExports applies the `export KEY="VALUE"` lines printed by
// `alr printenv --unix`. Other lines are ignored.
func (e Env) MergeExports(output string) error {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "export ") {
			continue
		}
		key, value, ok := strings.Cut(strings.TrimPrefix(line, "export "), "=")
		if !ok || key == "" {
			return fmt.Errorf("malformed export line: %q", line)
		}
		if len(value) < 2 || !strings.HasPrefix(value, `"`) || !strings.HasSuffix(value, `"`) {
			return fmt.Errorf("export %s: value is not quoted: %q", key, value)
		}
		e[key] = value[1 : len(value)-1]
	}
	return nil
}
