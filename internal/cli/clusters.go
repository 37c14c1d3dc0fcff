package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Arch-Mind/frontend-sub001/pkg/cluster"
	"github.com/Arch-Mind/frontend-sub001/pkg/errors"
	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
	"github.com/Arch-Mind/frontend-sub001/pkg/state"
)

// clustersCommand creates the cluster state management command.
func (c *CLI) clustersCommand() *cobra.Command {
	var repo string

	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Inspect and change saved cluster expand/collapse state",
		Long: `Inspect and change saved cluster expand/collapse state.

State is stored per repository identity (--repo) in the configured backend.
When --repo is omitted, the absolute directory of the graph file is used, the
same identity archmind layout --cluster loads. toggle, show and reset take
the graph file as an optional first argument; without it they fall back to
the current directory.`,
	}
	cmd.PersistentFlags().StringVar(&repo, "repo", "", "repository identity")

	cmd.AddCommand(&cobra.Command{
		Use:   "list <graph.json>",
		Short: "List the clusters of a graph with their state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClusters(cmd.Context(), args[0], repo, func(_ *state.Store, id string, clusters []cluster.Cluster, st *cluster.State) error {
				if len(clusters) == 0 {
					printInfo("No directory reaches the cluster threshold")
					return nil
				}
				fmt.Println(StyleTitle.Render(id))
				fmt.Println(renderClusterTable(cluster.Summaries(clusters, st)))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle [graph.json] <cluster-id>...",
		Short: "Flip the expand/collapse state of clusters",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, ids := splitGraphArg(args)
			if len(ids) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "no cluster id given")
			}
			for _, id := range ids {
				if err := errors.ValidateClusterID(id); err != nil {
					return err
				}
			}
			expanded := make([]bool, len(ids))
			err := c.updateState(cmd.Context(), resolveRepo(repo, input), func(st *cluster.State) {
				for i, id := range ids {
					expanded[i] = st.Toggle(id)
				}
			})
			if err != nil {
				return err
			}
			for i, id := range ids {
				if expanded[i] {
					printSuccess("%s expanded", id)
				} else {
					printSuccess("%s collapsed", id)
				}
			}
			return nil
		},
	})

	for _, expand := range []bool{true, false} {
		use, short := "collapse-all <graph.json>", "Collapse every cluster of a graph"
		if expand {
			use, short = "expand-all <graph.json>", "Expand every cluster of a graph"
		}
		cmd.AddCommand(&cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withClusters(cmd.Context(), args[0], repo, func(store *state.Store, id string, clusters []cluster.Cluster, st *cluster.State) error {
					if expand {
						st.ExpandAll(clusters)
					} else {
						st.CollapseAll(clusters)
					}
					if err := store.Save(cmd.Context(), id, st); err != nil {
						return errors.Wrap(errors.ErrCodeStorage, err, "save cluster state")
					}
					printSuccess("Updated %d clusters for %s", len(clusters), id)
					return nil
				})
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show [graph.json]",
		Short: "Print the saved state as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "open cluster state")
			}
			defer store.Close()

			st, err := store.Load(ctx, resolveRepo(repo, firstArg(args)))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset [graph.json]",
		Short: "Forget the saved state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "open cluster state")
			}
			defer store.Close()

			id := resolveRepo(repo, firstArg(args))
			if err := store.Reset(ctx, id); err != nil {
				return err
			}
			printSuccess("Reset cluster state for %s", id)
			return nil
		},
	})

	return cmd
}

// withClusters builds the graph at input, computes its clusters and loads
// the saved state before calling fn.
func (c *CLI) withClusters(ctx context.Context, input, repo string, fn func(*state.Store, string, []cluster.Cluster, *cluster.State) error) error {
	raw, err := graph.ReadRawFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "load graph %s", input)
	}
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	opts := c.pipelineOptions()
	g, _, err := runner.Build(ctx, raw, opts)
	if err != nil {
		return err
	}
	clusters := cluster.Build(g.Nodes, cluster.Options{
		MinSize:  c.Config.Cluster.MinSize,
		MaxDepth: c.Config.Cluster.MaxDepth,
	})

	store, err := c.openStore(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "open cluster state")
	}
	defer store.Close()

	id := resolveRepo(repo, input)
	if err := errors.ValidateRepo(id); err != nil {
		return err
	}
	st, err := store.Load(ctx, id)
	if err != nil {
		return err
	}
	return fn(store, id, clusters, st)
}

func (c *CLI) updateState(ctx context.Context, repo string, fn func(*cluster.State)) error {
	if err := errors.ValidateRepo(repo); err != nil {
		return err
	}
	store, err := c.openStore(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "open cluster state")
	}
	defer store.Close()
	_, err = store.Update(ctx, repo, fn)
	return err
}

// splitGraphArg separates an optional leading graph file from cluster ids.
func splitGraphArg(args []string) (input string, ids []string) {
	if len(args) > 0 && strings.EqualFold(filepath.Ext(args[0]), ".json") {
		return args[0], args[1:]
	}
	return "", args
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// resolveRepo returns repo, or the absolute directory of input, or the
// working directory.
func resolveRepo(repo, input string) string {
	if repo != "" {
		return repo
	}
	dir := "."
	if input != "" {
		dir = filepath.Dir(input)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return filepath.ToSlash(abs)
	}
	return dir
}
