// Package kumoi serves graph snapshots over server-sent events so external
// viewers can watch the layout live.
package kumoi

import (
	"encoding/json"
	"net/http"

	"github.com/r3labs/sse/v2"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"nyiyui.ca/hato/senro/track"
)

const snapshotStream = "snapshot"

type Server struct {
	s *sse.Server
}

func NewServer() *Server {
	s := &Server{s: sse.New()}
	s.s.CreateStream(snapshotStream)
	return s
}

// Publish pushes a snapshot to all connected clients. Call it from the
// goroutine that owns the graph, after each change.
func (s *Server) Publish(snap track.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		zap.S().Errorf("kumoi: marshal snapshot: %s", err)
		return
	}
	s.s.TryPublish(snapshotStream, &sse.Event{Data: data})
}

// Handler returns the SSE endpoint with permissive CORS, for browser
// viewers served from elsewhere.
func (s *Server) Handler() http.Handler {
	return cors.AllowAll().Handler(s.s)
}
