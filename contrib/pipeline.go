package contrib

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	graphlib "github.com/dominikbraun/graph"
)

// LinkLib is the name libgpr2c is linked under.
const LinkLib = "gpr2c"

// Result locates the built library.
type Result struct {
	LibDir  string
	LinkLib string
}

// LDFlags returns the linker flags for cgo.
func (r Result) LDFlags() string {
	return "-L" + r.LibDir + " -l" + r.LinkLib
}

// Options configures a Pipeline. Zero values select GitCheckouter, an
// ExecRunner writing to Log, the current process environment and no log.
type Options struct {
	Runner     Runner
	Checkouter Checkouter
	Env        Env
	Log        io.Writer
}

type state struct {
	layout   Layout
	manifest *Manifest
	env      Env
}

func (s *state) repoDir(name string) string {
	repo, _ := s.manifest.Repository(name)
	return s.layout.Repo(repo)
}

type step struct {
	id   string
	deps []string

	// checkout steps
	repo *Repository

	// command steps
	command  func(s *state) Command
	skip     func(s *state) (bool, error)
	skipNote string
	tolerate bool
	after    func(s *state, stdout string) error
}

// Pipeline builds libgpr2c. Steps form a DAG and run one at a time in a
// deterministic topological order.
type Pipeline struct {
	state      *state
	steps      map[string]*step
	order      []string
	runner     Runner
	checkouter Checkouter
	log        io.Writer
}

// NewPipeline prepares the build of libgpr2c from m under layout.
func NewPipeline(layout Layout, m *Manifest, opts Options) (*Pipeline, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		runner:     opts.Runner,
		checkouter: opts.Checkouter,
		log:        opts.Log,
	}
	if p.log == nil {
		p.log = io.Discard
	}
	if p.runner == nil {
		p.runner = ExecRunner{Log: p.log}
	}
	if p.checkouter == nil {
		p.checkouter = GitCheckouter{}
	}
	env := opts.Env
	if env == nil {
		env = EnvFromOS(os.Environ())
	}
	p.state = &state{layout: layout, manifest: m, env: env.Clone()}

	steps := buildSteps(m)
	order, err := orderSteps(steps)
	if err != nil {
		return nil, err
	}
	p.order = order
	p.steps = make(map[string]*step, len(steps))
	for _, st := range steps {
		p.steps[st.id] = st
	}
	return p, nil
}

func checkoutID(name string) string {
	return "checkout:" + name
}

func buildSteps(m *Manifest) []*step {
	var steps []*step

	for i := range m.Repositories {
		repo := m.Repositories[i]
		st := &step{id: checkoutID(repo.Name), repo: &repo}
		for _, other := range m.Repositories {
			if other.Name != repo.Name && isNestedPath(repo.Path, other.Path) {
				st.deps = append(st.deps, checkoutID(other.Name))
			}
		}
		steps = append(steps, st)
	}

	alr := func(s *state, args ...string) Command {
		return Command{
			Name: "alr",
			Args: append([]string{"--no-tty", "-n"}, args...),
			Dir:  s.layout.AlireCrate(s.manifest.AlireCrate),
			Env:  s.env,
		}
	}

	steps = append(steps,
		&step{
			id: "alr-index",
			command: func(s *state) Command {
				return Command{Name: "alr", Args: []string{"index", "--update-all"}, Env: s.env}
			},
		},
		&step{
			id:   "alr-init",
			deps: []string{"alr-index"},
			command: func(s *state) Command {
				c := alr(s, "init", "--lib", s.manifest.AlireCrate)
				c.Dir = s.layout.OutDir
				return c
			},
			skip: func(s *state) (bool, error) {
				return alireCrateExists(s.layout.AlireCrate(s.manifest.AlireCrate), s.manifest.AlireCrate)
			},
			skipNote: "if alire.toml is missing",
		},
		&step{
			id:   "alr-with",
			deps: []string{"alr-init"},
			command: func(s *state) Command {
				return alr(s, append([]string{"with"}, s.manifest.CrateArgs()...)...)
			},
			tolerate: true,
		},
		&step{
			// alr update would be the natural step here, but it skips the
			// post_fetch actions XML/Ada depends on (alire-project/alire#1235).
			id:   "alr-build",
			deps: []string{"alr-with"},
			command: func(s *state) Command {
				return alr(s, "build", "--", "-cargs", "-fPIC")
			},
		},
		&step{
			id:   "alr-printenv",
			deps: []string{"alr-build"},
			command: func(s *state) Command {
				return alr(s, "printenv", "--unix")
			},
			after: func(s *state, stdout string) error {
				return s.env.MergeExports(stdout)
			},
		},
		&step{
			id:   "venv",
			deps: []string{"alr-printenv"},
			command: func(s *state) Command {
				return Command{Name: "python3", Args: []string{"-m", "virtualenv", s.layout.Venv()}, Env: s.env}
			},
			after: func(s *state, _ string) error {
				s.env["VIRTUAL_ENV"] = s.layout.Venv()
				s.env.PrependPath("PATH", filepath.Join(s.layout.Venv(), "bin"))
				return nil
			},
		},
		&step{
			id:   "pip-langkit",
			deps: []string{"venv", checkoutID(RepoLangkit), checkoutID(RepoAdaSAT)},
			command: func(s *state) Command {
				return Command{Name: "pip", Args: []string{"install", "-e", s.repoDir(RepoLangkit)}, Env: s.env}
			},
		},
		&step{
			id:   "make-langkit",
			deps: []string{"pip-langkit", checkoutID(RepoGPR)},
			command: func(s *state) Command {
				return Command{Name: "make", Args: []string{"-C", filepath.Join(s.repoDir(RepoGPR), "langkit")}, Env: s.env}
			},
		},
		&step{
			id:   "make-gpr",
			deps: []string{"make-langkit", checkoutID(RepoGPRConfigKB)},
			command: func(s *state) Command {
				env := s.env.Clone()
				env.AppendPath("GPR_PROJECT_PATH", filepath.Join(s.repoDir(RepoLangkit), "support"), s.repoDir(RepoGPR))
				return Command{
					Name: "make",
					Args: []string{
						"-C", s.repoDir(RepoGPR),
						"GPR2KBDIR=" + filepath.Join(s.repoDir(RepoGPRConfigKB), "db"),
						"build-lib-static-pic",
					},
					Env: env,
				}
			},
		},
		&step{
			id:   "gprbuild-gpr2c",
			deps: []string{"make-gpr"},
			command: func(s *state) Command {
				env := s.env.Clone()
				env.PrependPath("GPR_PROJECT_PATH", s.repoDir(RepoGPR))
				return Command{
					Name: "gprbuild",
					Args: []string{
						"-j0", "-p",
						"-P", filepath.Join(bindingDir(s), "gpr2_c_binding.gpr"),
						"-XGPR2_BUILD=release",
						"-cargs", "-fPIC",
					},
					Env: env,
				}
			},
		},
	)
	return steps
}

func bindingDir(s *state) string {
	return filepath.Join(s.repoDir(RepoGPR), "bindings", "c")
}

func isNestedPath(path, parent string) bool {
	path = filepath.ToSlash(filepath.Clean(path))
	parent = filepath.ToSlash(filepath.Clean(parent))
	return strings.HasPrefix(path, parent+"/")
}

// orderSteps returns the step ids in topological order, breaking ties by
// declaration order so plans are reproducible.
func orderSteps(steps []*step) ([]string, error) {
	g := graphlib.New(graphlib.StringHash, graphlib.Directed(), graphlib.PreventCycles())
	index := make(map[string]int, len(steps))
	for i, st := range steps {
		if err := g.AddVertex(st.id); err != nil {
			return nil, fmt.Errorf("step %s: %w", st.id, err)
		}
		index[st.id] = i
	}
	for _, st := range steps {
		for _, dep := range st.deps {
			if err := g.AddEdge(dep, st.id); err != nil {
				return nil, fmt.Errorf("step %s depends on %s: %w", st.id, dep, err)
			}
		}
	}

	preds, err := g.PredecessorMap()
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, len(steps))
	done := make(map[string]bool, len(steps))
	for len(order) < len(steps) {
		next := ""
		for id, in := range preds {
			if done[id] || !allDone(in, done) {
				continue
			}
			if next == "" || index[id] < index[next] {
				next = id
			}
		}
		if next == "" {
			return nil, fmt.Errorf("build steps contain a cycle")
		}
		done[next] = true
		order = append(order, next)
	}
	return order, nil
}

func allDone(preds map[string]graphlib.Edge[string], done map[string]bool) bool {
	for id := range preds {
		if !done[id] {
			return false
		}
	}
	return true
}

// Order returns the step ids in execution order.
func (p *Pipeline) Order() []string {
	return append([]string(nil), p.order...)
}

// Plan describes every step without running anything.
func (p *Pipeline) Plan() []string {
	lines := make([]string, 0, len(p.order))
	for _, id := range p.order {
		lines = append(lines, p.describe(p.steps[id]))
	}
	return lines
}

func (p *Pipeline) describe(st *step) string {
	if st.repo != nil {
		return fmt.Sprintf("%s: git %s@%s -> %s", st.id, st.repo.URL, st.repo.Rev, p.state.layout.Repo(*st.repo))
	}
	line := fmt.Sprintf("%s: %s", st.id, st.command(p.state))
	if st.skipNote != "" {
		line += " [" + st.skipNote + "]"
	}
	if st.tolerate {
		line += " [failure tolerated]"
	}
	return line
}

// Run executes the steps in order and stops at the first failure that is
// not tolerated.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	if err := os.MkdirAll(p.state.layout.Contrib(), 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create contrib directory: %w", err)
	}

	for _, id := range p.order {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		st := p.steps[id]
		fmt.Fprintf(p.log, "==> %s\n", p.describe(st))

		if st.repo != nil {
			if err := p.checkouter.Checkout(ctx, *st.repo, p.state.layout.Repo(*st.repo)); err != nil {
				return Result{}, fmt.Errorf("step %s: %w", id, err)
			}
			continue
		}

		if st.skip != nil {
			skip, err := st.skip(p.state)
			if err != nil {
				return Result{}, fmt.Errorf("step %s: %w", id, err)
			}
			if skip {
				fmt.Fprintf(p.log, "    skipped\n")
				continue
			}
		}

		stdout, err := p.runner.Run(ctx, st.command(p.state))
		if err != nil {
			if st.tolerate && ctx.Err() == nil {
				fmt.Fprintf(p.log, "    warning: %v\n", err)
				continue
			}
			return Result{}, fmt.Errorf("step %s: %w", id, err)
		}
		if st.after != nil {
			if err := st.after(p.state, stdout); err != nil {
				return Result{}, fmt.Errorf("step %s: %w", id, err)
			}
		}
	}

	return p.Result(), nil
}

// Result returns where the library ends up once the pipeline has run.
func (p *Pipeline) Result() Result {
	return Result{
		LibDir:  filepath.Join(bindingDir(p.state), "build", "release", "lib"),
		LinkLib: LinkLib,
	}
}

// Env returns the environment as it stands after the steps run so far.
func (p *Pipeline) Env() Env {
	return p.state.env.Clone()
}
