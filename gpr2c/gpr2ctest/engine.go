package gpr2ctest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/gpr2go/gpr2c"
)

// Project describes a project file known to an Engine.
type Project struct {
	Name string
	// Attributes maps attribute names, or "pkg.name" for package
	// attributes, to a string or []string value.
	Attributes map[string]any
	// LoadError, when set, makes loading the project fail with a
	// GPR2.Project_Error carrying this message.
	LoadError string
}

type loadedTree struct {
	rootView string
	project  Project
}

// Engine is a Backend that answers TreeLoad and ViewAttribute requests from
// an in-memory set of projects, the way libgpr2c answers them from disk.
type Engine struct {
	*Backend
	projects map[string]Project
	trees    map[string]loadedTree
}

// NewEngine returns an Engine with no projects.
func NewEngine() *Engine {
	e := &Engine{
		Backend:  NewBackend(),
		projects: make(map[string]Project),
		trees:    make(map[string]loadedTree),
	}
	e.Handle(gpr2c.OpTreeLoad, e.load)
	e.Handle(gpr2c.OpViewAttribute, e.attribute)
	return e
}

// AddProject makes path loadable. The path is canonicalized the same way
// the gpr package canonicalizes project paths.
func (e *Engine) AddProject(path string, p Project) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.projects[canonical(path)] = p
}

func (e *Engine) load(request []byte) (gpr2c.Status, string) {
	var req struct {
		Filename string            `json:"filename"`
		Context  map[string]string `json:"context"`
	}
	if err := json.Unmarshal(request, &req); err != nil || req.Filename == "" {
		return 1, ErrorAnswer(1, "GPR2C.Invalid_Request", "missing filename")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.projects[canonical(req.Filename)]
	if !ok {
		return 2, ErrorAnswer(2, "GPR2.Project_Error", fmt.Sprintf("%s: project file not found", req.Filename))
	}
	if p.LoadError != "" {
		return 2, ErrorAnswer(2, "GPR2.Project_Error", fmt.Sprintf("%s: %s", req.Filename, p.LoadError))
	}

	id := fmt.Sprintf("tree-%d", len(e.trees)+1)
	root := id + "-root"
	e.trees[id] = loadedTree{rootView: root, project: p}

	ctx := req.Context
	if ctx == nil {
		ctx = map[string]string{}
	}
	return 0, OKAnswer(TreeResult{
		ID:              id,
		RootView:        root,
		Target:          "x86_64-linux",
		CanonicalTarget: "x86_64-pc-linux-gnu",
		SearchPaths:     []string{filepath.Dir(req.Filename)},
		Views:           []string{root},
		Context:         ctx,
	})
}

func (e *Engine) attribute(request []byte) (gpr2c.Status, string) {
	var req struct {
		TreeID string `json:"tree_id"`
		ViewID string `json:"view_id"`
		Name   string `json:"name"`
		Pkg    string `json:"pkg"`
		Index  string `json:"index"`
	}
	if err := json.Unmarshal(request, &req); err != nil {
		return 1, ErrorAnswer(1, "GPR2C.Invalid_Request", err.Error())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tree, ok := e.trees[req.TreeID]
	if !ok {
		return 1, ErrorAnswer(1, "GPR2C.Invalid_Request", fmt.Sprintf("unknown tree %q", req.TreeID))
	}
	if req.ViewID != tree.rootView {
		return 1, ErrorAnswer(1, "GPR2C.Invalid_Request", fmt.Sprintf("unknown view %q", req.ViewID))
	}

	key := strings.ToLower(req.Name)
	if req.Pkg != "" {
		key = strings.ToLower(req.Pkg) + "." + key
	}
	if req.Index != "" {
		key += "(" + req.Index + ")"
	}

	if value, ok := tree.project.Attributes[key]; ok {
		return 0, AttributeAnswer(value, false)
	}
	if key == "name" {
		return 0, AttributeAnswer(tree.project.Name, true)
	}
	return 2, ErrorAnswer(2, "GPR2.Attribute_Error", fmt.Sprintf("attribute %s not defined", key))
}

func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
