package layout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"
)

// AdvancedMode selects the graphviz engine.
type AdvancedMode string

const (
	ModeLayered AdvancedMode = "layered" // dot
	ModeForce   AdvancedMode = "force"   // fdp
)

// DefaultEngineTimeout bounds a single graphviz run.
const DefaultEngineTimeout = 30 * time.Second

const pointsPerInch = 72.0

// ErrEngine wraps every failure of the graphviz engine.
var ErrEngine = errors.New("layout engine failed")

// graphviz runs in a shared WebAssembly runtime; one layout at a time.
var engineMu sync.Mutex

// Advanced lays out a graph with graphviz, running dot in [ModeLayered] and
// fdp in [ModeForce]. The engine runs on its own goroutine. When it fails
// or exceeds Timeout the result comes from [Layered] with the same
// direction and spacing, and the fallback is reported on [AsyncResult].
type Advanced struct {
	Mode      AdvancedMode
	Direction Direction
	NodeSep   float64
	RankSep   float64
	Timeout   time.Duration
	Logger    *log.Logger
}

func (a Advanced) Name() string {
	if a.Mode == ModeForce {
		return NameAdvancedForce
	}
	return NameAdvanced
}

func (a Advanced) fallback() Layered {
	return Layered{Direction: a.Direction, NodeSep: a.NodeSep, RankSep: a.RankSep}
}

// Layout implements [Strategy]. It blocks until the engine or the fallback
// finishes.
func (a Advanced) Layout(nodes []Node, edges []Edge) Result {
	r, _ := a.LayoutContext(context.Background(), nodes, edges)
	return r
}

// LayoutContext implements [AsyncStrategy].
func (a Advanced) LayoutContext(ctx context.Context, nodes []Node, edges []Edge) (Result, error) {
	res := <-a.LayoutAsync(ctx, nodes, edges)
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Result, nil
}

// LayoutAsync implements [AsyncStrategy].
func (a Advanced) LayoutAsync(ctx context.Context, nodes []Node, edges []Edge) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)
	nodes = uniqueNodes(nodes)

	if len(nodes) == 0 {
		out <- AsyncResult{Result: Result{}}
		close(out)
		return out
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultEngineTimeout
	}

	go func() {
		defer close(out)

		runCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		type engineResult struct {
			r   Result
			err error
		}
		done := make(chan engineResult, 1)
		go func() {
			r, err := a.run(runCtx, nodes, edges)
			done <- engineResult{r, err}
		}()

		var cause error
		select {
		case <-ctx.Done():
			out <- AsyncResult{Err: ctx.Err()}
			return
		case <-runCtx.Done():
			if ctx.Err() != nil {
				out <- AsyncResult{Err: ctx.Err()}
				return
			}
			cause = fmt.Errorf("%w: %w", ErrEngine, runCtx.Err())
		case res := <-done:
			if res.err == nil {
				out <- AsyncResult{Result: res.r}
				return
			}
			if ctx.Err() != nil {
				out <- AsyncResult{Err: ctx.Err()}
				return
			}
			cause = res.err
		}

		if a.Logger != nil {
			a.Logger.Warn("graphviz layout failed, using layered", "mode", a.Mode, "err", cause)
		}
		out <- AsyncResult{
			Result:   a.fallback().Layout(nodes, edges),
			Fallback: true,
			Cause:    cause,
		}
	}()
	return out
}

func (a Advanced) run(ctx context.Context, nodes []Node, edges []Edge) (Result, error) {
	engineMu.Lock()
	defer engineMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: init graphviz: %w", ErrEngine, err)
	}
	defer gv.Close()
	if a.Mode == ModeForce {
		gv.SetLayout(graphviz.FDP)
	} else {
		gv.SetLayout(graphviz.DOT)
	}

	g, err := graphviz.ParseBytes([]byte(a.toDOT(nodes, edges)))
	if err != nil {
		return nil, fmt.Errorf("%w: parse DOT: %w", ErrEngine, err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("%w: render: %w", ErrEngine, err)
	}
	return readPositions(buf.Bytes(), nodes)
}

// toDOT emits one fixed-size, unlabeled box per node named by its index.
// Sizes are in inches.
func (a Advanced) toDOT(nodes []Node, edges []Edge) string {
	l := a.fallback().withDefaults()
	index := make(map[string]int, len(nodes))

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  graph [rankdir=%s, nodesep=%.3f, ranksep=%.3f, splines=false];\n",
		l.Direction, l.NodeSep/pointsPerInch, l.RankSep/pointsPerInch)
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	for i, n := range nodes {
		index[n.ID] = i
		fmt.Fprintf(&buf, "  n%d [width=%.3f, height=%.3f];\n", i, n.Width/pointsPerInch, n.Height/pointsPerInch)
	}
	for _, e := range edges {
		from, ok1 := index[e.Source]
		to, ok2 := index[e.Target]
		if !ok1 || !ok2 || from == to {
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", from, to)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// readPositions parses the engine's DOT output. Graphviz reports node
// centers in points with the origin at the bottom left; results are
// top-left corners with y growing downward.
func readPositions(out []byte, nodes []Node) (Result, error) {
	g, err := graphviz.ParseBytes(out)
	if err != nil {
		return nil, fmt.Errorf("%w: parse output: %w", ErrEngine, err)
	}
	defer g.Close()

	bb, err := parseFloats(g.GetStr("bb"), 4)
	if err != nil {
		return nil, fmt.Errorf("%w: bounding box: %w", ErrEngine, err)
	}
	top := bb[3]

	centers := make(map[string][]float64, len(nodes))
	n, err := g.FirstNode()
	for n != nil && err == nil {
		name, nerr := n.Name()
		if nerr != nil {
			return nil, fmt.Errorf("%w: node name: %w", ErrEngine, nerr)
		}
		pos, perr := parseFloats(strings.TrimSuffix(n.GetStr("pos"), "!"), 2)
		if perr != nil {
			return nil, fmt.Errorf("%w: position of %s: %w", ErrEngine, name, perr)
		}
		centers[name] = pos
		n, err = g.NextNode(n)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: walk nodes: %w", ErrEngine, err)
	}

	r := make(Result, len(nodes))
	for i, node := range nodes {
		c, ok := centers["n"+strconv.Itoa(i)]
		if !ok {
			return nil, fmt.Errorf("%w: no position for %q", ErrEngine, node.ID)
		}
		r[node.ID] = Position{X: c[0] - node.Width/2, Y: top - c[1] - node.Height/2}
	}
	translate(r)
	return r, nil
}

func parseFloats(s string, want int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("want %d values, got %q", want, s)
	}
	out := make([]float64, want)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
