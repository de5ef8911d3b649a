package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/buildinfo"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/cache"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/config"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/observability"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "graphvis"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline, cache
// and HTTP hooks log every event.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		h := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(h)
		observability.SetCacheHooks(h)
		observability.SetHTTPHooks(h)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "graphvis lays out and explores drug interaction graphs",
		Long: `graphvis loads drug interaction knowledge graphs, collapses linear chains of
same-category nodes, lays them out in level bands or as a tree, and answers
"how does this node connect to the drugs" queries by highlighting every path
through a node.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ./"+config.FileName+")")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.collapseCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.pathsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mcpCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	c.cfg = &cfg
	return cfg, nil
}

// options returns the pipeline defaults from the loaded configuration.
func (c *CLI) options() (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.FromConfig(cfg), nil
}

// newRunner creates a pipeline runner backed by the configured cache. A
// cache that cannot be opened degrades to no caching.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	store, err := cache.Open(ctx, cache.Options{
		Backend:   cfg.Cache.Backend,
		Dir:       cfg.Cache.Dir,
		RedisAddr: cfg.Cache.RedisAddr,
	})
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "err", err)
		store = cache.NewNullCache()
	}
	var keyer cache.Keyer
	if cfg.Cache.Backend == config.BackendRedis {
		// a shared database may hold other tools' keys
		keyer = cache.DefaultKeyer{Prefix: appName + ":"}
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// =============================================================================
// Flag Helpers
// =============================================================================

// viewFlags are the layout, query and prepare flags shared by several
// commands. Only flags set on the command line override the config file.
type viewFlags struct {
	mode         string
	root         string
	hgap         float64
	vgap         float64
	treeWidth    float64
	maxDepth     int
	collapse     bool
	dropIsolated bool
}

func (f *viewFlags) bind(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().StringVarP(&f.mode, "mode", "m", d.Layout.Mode, "layout mode: layered, tree")
	cmd.Flags().StringVar(&f.root, "root", "", "root node for the tree layout (default: first root)")
	cmd.Flags().Float64Var(&f.hgap, "hgap", d.Layout.HorizontalGap, "horizontal gap between nodes")
	cmd.Flags().Float64Var(&f.vgap, "vgap", d.Layout.VerticalGap, "vertical gap between levels")
	cmd.Flags().Float64Var(&f.treeWidth, "tree-width", d.Layout.TreeWidth, "width of the tree layout")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", d.Query.MaxDepth, "longest descendant path, in edges")
	cmd.Flags().BoolVar(&f.collapse, "collapse", d.Prepare.Collapse, "collapse same-category chains")
	cmd.Flags().BoolVar(&f.dropIsolated, "drop-isolated", d.Prepare.DropIsolated, "remove nodes without edges")
}

func (f *viewFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	changed := cmd.Flags().Changed
	if changed("mode") {
		opts.Mode = f.mode
	}
	opts.Root = f.root
	if changed("hgap") {
		opts.Layered.HorizontalGap = f.hgap
		opts.Tree.FallbackGap = f.hgap
	}
	if changed("vgap") {
		opts.Layered.VerticalGap = f.vgap
		opts.Tree.VerticalGap = f.vgap
	}
	if changed("tree-width") {
		opts.Tree.Width = f.treeWidth
	}
	if changed("max-depth") {
		opts.Query.MaxDepth = f.maxDepth
	}
	if changed("collapse") {
		opts.Prepare.Collapse = f.collapse
	}
	if changed("drop-isolated") {
		opts.Prepare.DropIsolated = f.dropIsolated
	}
}

// viewOptions merges the config file and the command-line flags.
func (c *CLI) viewOptions(cmd *cobra.Command, f *viewFlags) (pipeline.Options, error) {
	opts, err := c.options()
	if err != nil {
		return opts, err
	}
	f.apply(cmd, &opts)
	return opts, opts.Validate()
}
