package initgen

import (
	"fmt"
	"log/slog"

	"github.com/raymyers/zinit/pkg/ctypes"
	"github.com/raymyers/zinit/pkg/fieldtree"
	"github.com/raymyers/zinit/pkg/typedef"
)

// Options configures a Generator. The zero value uses the default
// primitive set, the "my" index prefix and tab indentation.
type Options struct {
	Primitives  *ctypes.Set
	IndexPrefix string
	Indent      string
	Logger      *slog.Logger
}

// Result holds every intermediate form of one generation run.
type Result struct {
	Tree   *fieldtree.Node
	Exprs  []string // flat leaf statements
	Blocks []string // Exprs after loop nesting
}

// Generator produces initializers for aliases of one typedef database.
type Generator struct {
	db       typedef.Database
	resolver *fieldtree.Resolver
	nester   Nester
	log      *slog.Logger
}

// New creates a generator over db.
func New(db typedef.Database, opts Options) *Generator {
	prims := opts.Primitives
	if prims == nil {
		prims = ctypes.Default()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log.Debug("primitive set", "names", prims.Names())
	return &Generator{
		db:       db,
		resolver: &fieldtree.Resolver{DB: db, Primitives: prims},
		nester:   Nester{IndexPrefix: opts.IndexPrefix, Indent: opts.Indent},
		log:      log,
	}
}

// Database returns the typedef database the generator resolves against.
func (g *Generator) Database() typedef.Database {
	return g.db
}

// Generate resolves alias under the root field name and returns its
// initializer blocks, one per primitive leaf.
func (g *Generator) Generate(alias, name string) (*Result, error) {
	tree, err := g.resolver.Resolve(alias, name)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", alias, err)
	}
	g.log.Debug("resolved alias", "alias", alias, "name", name, "leaves", tree.Leaves())

	res := &Result{Tree: tree, Exprs: Emit(tree)}
	res.Blocks = make([]string, len(res.Exprs))
	for i, expr := range res.Exprs {
		res.Blocks[i] = g.nester.Nest(expr)
	}
	return res, nil
}

// Generate parses header src and produces the initializer blocks for alias.
func Generate(src, alias, name string, opts Options) (*Result, error) {
	db, err := typedef.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing typedefs: %w", err)
	}
	if opts.Logger != nil {
		opts.Logger.Debug("parsed typedefs", "count", len(db))
	}
	return New(db, opts).Generate(alias, name)
}
