package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Arch-Mind/frontend-sub001/pkg/cluster"
	"github.com/Arch-Mind/frontend-sub001/pkg/errors"
	"github.com/Arch-Mind/frontend-sub001/pkg/state"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand opens an interactive cluster browser.
func (c *CLI) browseCommand() *cobra.Command {
	var repo string

	cmd := &cobra.Command{
		Use:   "browse <graph.json>",
		Short: "Interactively expand and collapse clusters",
		Long: `Interactively expand and collapse the clusters of a graph.

Keys: ↑/↓ move, space toggle, a expand all, c collapse all,
enter save and quit, q quit without saving.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClusters(cmd.Context(), args[0], repo, func(store *state.Store, id string, clusters []cluster.Cluster, st *cluster.State) error {
				if len(clusters) == 0 {
					printInfo("No directory reaches the cluster threshold")
					return nil
				}
				final, err := tea.NewProgram(newClusterModel(id, clusters, st), tea.WithContext(cmd.Context())).Run()
				if err != nil {
					return err
				}
				m := final.(clusterModel)
				if !m.save {
					printInfo("Discarded changes")
					return nil
				}
				if err := store.Save(cmd.Context(), id, m.state); err != nil {
					return errors.Wrap(errors.ErrCodeStorage, err, "save cluster state")
				}
				printSuccess("Saved cluster state for %s", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&repo, "repo", "", "repository identity (default: graph directory)")
	return cmd
}

// =============================================================================
// clusterModel - Interactive cluster toggling
// =============================================================================

// clusterModel is the bubbletea model behind archmind browse. It edits a
// copy of the loaded state; the caller persists it when save is set.
type clusterModel struct {
	repo     string
	clusters []cluster.Cluster
	state    *cluster.State
	cursor   int
	offset   int
	height   int
	save     bool
}

func newClusterModel(repo string, clusters []cluster.Cluster, st *cluster.State) clusterModel {
	edit := st.Clone()
	if edit == nil {
		edit = cluster.NewState()
	}
	return clusterModel{
		repo:     repo,
		clusters: clusters,
		state:    edit,
		height:   15,
	}
}

func (m clusterModel) Init() tea.Cmd {
	return nil
}

func (m clusterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.save = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.clusters)-1 {
				m.cursor++
			}
		case " ", "space", "x":
			if len(m.clusters) > 0 {
				m.state.Toggle(m.clusters[m.cursor].ID)
			}
		case "a":
			m.state.ExpandAll(m.clusters)
		case "c":
			m.state.CollapseAll(m.clusters)
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 5)
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	return m, nil
}

func (m clusterModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Clusters of " + m.repo))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  space toggle  a expand all  c collapse all  ⏎ save  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.clusters))
	for i := m.offset; i < end; i++ {
		cl := m.clusters[i]
		icon := StyleSuccess.Render(iconExpanded)
		if !m.state.IsExpanded(cl.ID) {
			icon = StyleWarning.Render(iconCollapsed)
		}
		cursor := "  "
		if i == m.cursor {
			cursor = "› "
		}
		indent := strings.Repeat("  ", max(cl.Depth-1, 0))
		line := fmt.Sprintf("%s%s%s %-32s", cursor, indent, icon, cl.Path)
		counts := listDimStyle.Render(fmt.Sprintf("%d nodes · %d files", cl.Metrics.Total, cl.Metrics.Files))

		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString(" " + counts + "\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.clusters))))
	return b.String()
}
