// Command sim runs a demo layout: a follower rides the track while the
// terminal shows the graph state. Keys: t toggles the turnout, r
// regenerates all paths, q quits. A status page and an SSE snapshot stream
// are served over HTTP.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"go.uber.org/zap"

	"nyiyui.ca/hato/senro/chime"
	"nyiyui.ca/hato/senro/kumoi"
	"nyiyui.ca/hato/senro/sumire"
	"nyiyui.ca/hato/senro/track"
	"nyiyui.ca/hato/senro/track/fit"
	"nyiyui.ca/hato/senro/track/preset"
)

const tickInterval = 100 * time.Millisecond

func main() {
	level := zap.LevelFlag("log-level", zap.InfoLevel, "set log level")
	addr := flag.String("addr", "0.0.0.0:8080", "status page and SSE address")
	flag.Parse()
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(*level)
	cfg.OutputPaths = []string{"sim.log"}
	dev, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(dev)
	defer zap.S().Sync()

	g, err := preset.Testbench4()
	if err != nil {
		zap.S().Fatalf("build layout: %s", err)
	}
	junction := preset.MustLookup(g, "tb2-junction")

	addFollower := func(comment string, speed float64) *track.Follower {
		f := track.NewFollower(comment, speed)
		g.AttachFollower(f)
		if paths := g.Paths(); len(paths) > 0 {
			f.SetPath(paths[0].Clone(), 0)
		}
		return f
	}
	f := addFollower("demo", 0.5)

	kumoiServer := kumoi.NewServer()
	sumireServer := sumire.NewServer()
	sm := http.NewServeMux()
	sm.Handle("/events", kumoiServer.Handler())
	sm.Handle("/", sumireServer)
	go func() {
		zap.S().Infof("serving on %s", *addr)
		err := http.ListenAndServe(*addr, sm)
		zap.S().Fatalf("serve: %s", err)
	}()

	events := make(chan track.Event, 8)
	g.Mux.Subscribe("sim", events)
	defer g.Mux.Unsubscribe(events)

	if err := termui.Init(); err != nil {
		zap.S().Fatalf("termui: %s", err)
	}
	defer termui.Close()
	state := widgets.NewParagraph()
	state.Title = "senro sim (t: toggle, a: add follower, r: regenerate, q: quit)"
	state.SetRect(0, 0, 100, 30)

	hist := &fit.History{}
	publish := func() {
		snap := g.Snapshot()
		kumoiServer.Publish(snap)
		sumireServer.SetSnapshot(snap)
	}
	publish()

	uiEvents := termui.PollEvents()
	tick := time.NewTicker(tickInterval)
	defer tick.Stop()
	for {
		select {
		case e := <-uiEvents:
			switch e.ID {
			case "q", "<C-c>":
				return
			case "t":
				junction.Switch.Toggle()
			case "r":
				g.RegenerateAllPaths()
			case "a":
				addFollower(fmt.Sprintf("extra%d", len(g.Followers())), 0.3)
				publish()
			}
		case ev := <-events:
			if ev.Kind == track.EventSwitchToggled {
				chime.Play()
			}
			publish()
		case <-tick.C:
			for _, each := range g.Followers() {
				each.Tick(tickInterval.Seconds())
				if each.AtEnd() {
					// bounce at the end of the line
					p := each.Path()
					p.Reverse()
					each.SetPath(p, 0)
					if each == f {
						hist.Spans = nil
					}
				}
			}
			hist.Add(time.Now(), f.Distance())
			state.Text = render(g, f, hist)
			termui.Render(state)
			publish()
		}
	}
}

func render(g *track.Graph, f *track.Follower, hist *fit.History) string {
	b := new(strings.Builder)
	for _, seg := range g.Segments() {
		fmt.Fprintf(b, "%-18s", seg)
		if seg.Switch != nil {
			fmt.Fprintf(b, " [%s]", seg.Switch.State())
		}
		fmt.Fprint(b, "\n")
	}
	fmt.Fprint(b, "\n")
	for _, p := range g.Paths() {
		fmt.Fprintf(b, "%s\n", p)
	}
	for _, each := range g.Followers() {
		pos := each.Position()
		fmt.Fprintf(b, "\n%s at (%.2f, %.2f)", each.Comment, pos.X, pos.Y)
		if each == f {
			if rel, ok := hist.Fit(); ok {
				fmt.Fprintf(b, " ~%.2f u/s", rel.Speed(time.Now()))
			}
		}
	}
	return b.String()
}
