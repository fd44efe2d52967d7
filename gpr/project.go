// Package gpr exposes GNAT project files through the GPR2 engine. Project is
// the facade most callers need; Tree and Attribute give raw access to the
// engine's answers.
package gpr

import (
	"maps"
	"path/filepath"
	"slices"

	"github.com/LegacyCodeHQ/gpr2go/gpr2c"
)

// LibraryKind is how a library project's artifact is linked.
type LibraryKind int

const (
	Static LibraryKind = iota
	Dynamic
)

func (k LibraryKind) String() string {
	if k == Dynamic {
		return "dynamic"
	}
	return "static"
}

// ParseLibraryKind maps a raw Library_Kind attribute value to a LibraryKind.
func ParseLibraryKind(raw string) (LibraryKind, bool) {
	switch raw {
	case "static", "static-pic":
		return Static, true
	case "dynamic", "relocatable":
		return Dynamic, true
	default:
		return 0, false
	}
}

// Project is a loaded project file. Accessors query the engine on every
// call; nothing is cached on the Go side.
type Project struct {
	path    string
	baseDir string
	tree    *Tree
	context map[string]string
}

// Load canonicalizes file and loads it as the root of a project tree.
// Nothing is returned unless the engine accepted the project.
func Load(rt *gpr2c.Runtime, file string, opts LoadOptions) (*Project, error) {
	path, err := canonicalize(file)
	if err != nil {
		return nil, ioError(err)
	}

	tree, err := LoadTree(rt, path, opts)
	if err != nil {
		return nil, err
	}

	return &Project{
		path:    path,
		baseDir: filepath.Dir(path),
		tree:    tree,
		context: maps.Clone(opts.Context),
	}, nil
}

func canonicalize(file string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// Path returns the canonical project file path.
func (p *Project) Path() string {
	return p.path
}

// BaseDir returns the directory containing the project file.
func (p *Project) BaseDir() string {
	return p.baseDir
}

// Tree returns the underlying project tree.
func (p *Project) Tree() *Tree {
	return p.tree
}

// Attribute fetches a raw attribute from the root view.
func (p *Project) Attribute(q AttributeQuery) (*Attribute, error) {
	return p.tree.Attribute(q)
}

// Name returns the declared project name.
func (p *Project) Name() (string, error) {
	return p.single("name")
}

// LibraryName returns the Library_Name attribute.
func (p *Project) LibraryName() (string, error) {
	return p.single("library_name")
}

// LibraryDir returns Library_Dir resolved against the project directory.
// An absolute value is returned cleaned, as filepath joining would discard
// the base directory anyway.
func (p *Project) LibraryDir() (string, error) {
	dir, err := p.single("library_dir")
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir), nil
	}
	return filepath.Join(p.baseDir, dir), nil
}

// LibraryKind returns Library_Kind as Static or Dynamic.
func (p *Project) LibraryKind() (LibraryKind, error) {
	raw, err := p.single("library_kind")
	if err != nil {
		return 0, err
	}
	kind, ok := ParseLibraryKind(raw)
	if !ok {
		return 0, invalidAttribute(p.path, "library_kind", raw)
	}
	return kind, nil
}

// SourceDirs returns Source_Dirs as reported by the engine.
func (p *Project) SourceDirs() ([]string, error) {
	return p.list("source_dirs")
}

// GprbuildArgs returns the arguments that build this project with
// gprbuild, including its scenario variables.
func (p *Project) GprbuildArgs() []string {
	args := []string{"-P", p.path, "-p", "-j0"}
	for _, name := range slices.Sorted(maps.Keys(p.context)) {
		args = append(args, "-X"+name+"="+p.context[name])
	}
	return args
}

// LinkFlags returns linker flags for the library this project produces.
func (p *Project) LinkFlags() ([]string, error) {
	dir, err := p.LibraryDir()
	if err != nil {
		return nil, err
	}
	name, err := p.LibraryName()
	if err != nil {
		return nil, err
	}
	kind, err := p.LibraryKind()
	if err != nil {
		return nil, err
	}

	flags := []string{"-L" + dir}
	if kind == Static {
		return append(flags, "-Wl,-Bstatic", "-l"+name, "-Wl,-Bdynamic"), nil
	}
	return append(flags, "-l"+name), nil
}

func (p *Project) single(name string) (string, error) {
	attr, err := p.tree.Attribute(AttributeQuery{Name: name})
	if err != nil {
		return "", err
	}
	v, ok := attr.Value.Single()
	if !ok {
		return "", invalidAttributeValue(p.path, name, attr.Value.Kind())
	}
	return v, nil
}

func (p *Project) list(name string) ([]string, error) {
	attr, err := p.tree.Attribute(AttributeQuery{Name: name})
	if err != nil {
		return nil, err
	}
	v, ok := attr.Value.List()
	if !ok {
		return nil, invalidAttributeValue(p.path, name, attr.Value.Kind())
	}
	return v, nil
}
