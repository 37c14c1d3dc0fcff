package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Arch-Mind/frontend-sub001/pkg/errors"
	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
	"github.com/Arch-Mind/frontend-sub001/pkg/layout"
	"github.com/Arch-Mind/frontend-sub001/pkg/pipeline"
)

// layoutFlags holds the layout command's flags. Zero values defer to the
// configuration file.
type layoutFlags struct {
	output        string
	strategy      string
	all           []string
	cluster       bool
	repo          string
	minSize       int
	maxDepth      int
	prefixes      []string
	keepTempRoots bool
	skipHierarchy bool
	refresh       bool
	noCache       bool
	watch         bool
	timeout       time.Duration
	seed          uint64
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout <graph.json>",
		Short: "Compute a positioned graph from raw graph data",
		Long: `Compute a positioned graph from raw graph data.

The input is a JSON document with "nodes" and "edges" as delivered by the
analysis backend. The output (default: <input>.layout.json) holds every
visible node with coordinates and size, the edges between visible nodes and,
with --cluster, the cluster summaries.

With --cluster, the saved expand/collapse state of the repository is
applied. The repository is --repo, or the directory of the input file. Results are cached by graph content and options.

Strategies: ` + strings.Join(layout.Names(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			input := args[0]
			if err := errors.ValidatePath(input); err != nil {
				return err
			}
			if !f.watch {
				return c.runLayout(ctx, input, f)
			}
			return watchFile(ctx, input, c.Logger, func(ctx context.Context) {
				if err := c.runLayout(ctx, input, f); err != nil {
					printError("%s", errors.UserMessage(err))
				}
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output file (default: <input>.layout.json)")
	fl.StringVarP(&f.strategy, "strategy", "s", "", "layout strategy (default from config)")
	fl.StringSliceVar(&f.all, "all", nil, "compute several strategies concurrently, one file each")
	fl.BoolVar(&f.cluster, "cluster", false, "group large directories into clusters")
	fl.StringVar(&f.repo, "repo", "", "repository identity for saved cluster state")
	fl.IntVar(&f.minSize, "min-cluster-size", 0, "minimum nodes for a directory cluster")
	fl.IntVar(&f.maxDepth, "max-cluster-depth", 0, "deepest directory considered for clustering")
	fl.StringSliceVar(&f.prefixes, "prefix", nil, "path prefix to strip from identifiers (repeatable)")
	fl.BoolVar(&f.keepTempRoots, "keep-temp-roots", false, "do not strip temporary checkout roots")
	fl.BoolVar(&f.skipHierarchy, "skip-hierarchy", false, "do not synthesize directory nodes")
	fl.BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.BoolVarP(&f.watch, "watch", "w", false, "recompute when the input file changes")
	fl.DurationVar(&f.timeout, "engine-timeout", 0, "timeout for the graphviz engine (advanced strategies)")
	fl.Uint64Var(&f.seed, "seed", 0, "seed for the force strategy")

	return cmd
}

// layoutOptions merges flags over the configuration.
func (c *CLI) layoutOptions(f layoutFlags) pipeline.Options {
	opts := c.pipelineOptions()
	if f.strategy != "" {
		opts.Strategy = f.strategy
	}
	if f.minSize > 0 {
		opts.MinClusterSize = f.minSize
	}
	if f.maxDepth > 0 {
		opts.MaxClusterDepth = f.maxDepth
	}
	if len(f.prefixes) > 0 {
		opts.Prefixes = f.prefixes
	}
	opts.Cluster = f.cluster
	opts.KeepTempRoots = f.keepTempRoots
	opts.SkipHierarchy = f.skipHierarchy
	opts.Refresh = f.refresh
	opts.EngineTimeout = f.timeout
	opts.Seed = f.seed
	return opts
}

// runLayout loads the raw graph, runs the pipeline and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, f layoutFlags) error {
	prog := newProgress(c.Logger)
	raw, err := graph.ReadRawFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "load graph %s", input)
	}

	opts := c.layoutOptions(f)
	repo := resolveRepo(f.repo, input)
	if f.cluster {
		if err := errors.ValidateRepo(repo); err != nil {
			return err
		}
		store, err := c.openStore(ctx)
		if err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "open cluster state")
		}
		st, err := store.Load(ctx, repo)
		store.Close()
		if err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "load cluster state")
		}
		opts.State = st
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return errors.Wrap(errors.ErrCodeCache, err, "initialize runner")
	}
	defer runner.Close()

	if len(f.all) > 0 {
		return c.runLayoutAll(ctx, runner, raw, input, opts, f)
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Computing %s layout...", opts.Strategy))
	spinner.Start()
	res, err := runner.Execute(ctx, raw, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	out := f.output
	if out == "" {
		out = defaultOutput(input, "")
	}
	if err := graph.WriteLayoutFile(res.Layout, out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	prog.done(fmt.Sprintf("Laid out %s with %s", filepath.Base(input), res.Layout.Strategy))
	if res.Layout.Fallback {
		printWarning("graphviz failed; used the layered fallback")
	}
	printFile(out)
	fmt.Println(formatStats(res.Stats, res.CacheHit))
	if f.cluster && res.Stats.Clusters > 0 {
		printNextStep("Change cluster state", appName+" clusters toggle "+input+" <cluster-id>")
	}
	return nil
}

func (c *CLI) runLayoutAll(ctx context.Context, runner *pipeline.Runner, raw graph.RawGraph, input string, opts pipeline.Options, f layoutFlags) error {
	spinner := newSpinner(ctx, fmt.Sprintf("Computing %d layouts...", len(f.all)))
	spinner.Start()
	results, err := runner.ExecuteAll(ctx, raw, opts, f.all)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	base := f.output
	if base == "" {
		base = input
	}
	written := 0
	for _, name := range f.all {
		res, ok := results[name]
		if !ok {
			continue
		}
		out := defaultOutput(base, name)
		if err := graph.WriteLayoutFile(res.Layout, out); err != nil {
			return fmt.Errorf("write output %s: %w", out, err)
		}
		delete(results, name)
		written++
		printFile(out)
		fmt.Println(formatStats(res.Stats, res.CacheHit))
	}
	printSuccess("Computed %d layouts", written)
	return nil
}

// defaultOutput derives the output path from the input path:
// graph.json -> graph.layout.json, or graph.<strategy>.layout.json.
func defaultOutput(input, strategy string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	base = strings.TrimSuffix(base, ".layout")
	if strategy != "" {
		return base + "." + strategy + ".layout.json"
	}
	return base + ".layout.json"
}
