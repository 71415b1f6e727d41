// Package senri renders path geometry to charts, for eyeballing Bezier
// sampling and stitching without a game view.
package senri

import (
	"errors"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"nyiyui.ca/hato/senro/track"
)

// PathChart plots a path's waypoint polyline in the XY plane.
func PathChart(p *track.Path) (chart.Chart, error) {
	if p == nil || len(p.Waypoints) == 0 {
		return chart.Chart{}, errors.New("no waypoints")
	}
	xs := make([]float64, len(p.Waypoints))
	ys := make([]float64, len(p.Waypoints))
	for i, w := range p.Waypoints {
		xs[i] = w.X
		ys[i] = w.Y
	}
	return chart.Chart{
		Height: 400,
		Width:  600,
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeWidth: 1,
					DotWidth:    3,
					DotColor:    drawing.ColorFromHex("444444"),
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}, nil
}

// WritePNG renders the path chart as a PNG.
func WritePNG(p *track.Path, w io.Writer) error {
	c, err := PathChart(p)
	if err != nil {
		return err
	}
	return c.Render(chart.PNG, w)
}
