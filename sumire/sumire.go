// Package sumire is a plain HTML status page for a track graph: segments,
// switch positions, current paths, and followers.
package sumire

import (
	"embed"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/Masterminds/sprig/v3"
	"go.uber.org/zap"

	"nyiyui.ca/hato/senro/track"
)

//go:embed index.html
var templates embed.FS

type Server struct {
	t *template.Template

	lock   sync.RWMutex
	latest track.Snapshot
}

func NewServer() *Server {
	s := new(Server)
	s.t = template.Must(template.New("index").
		Funcs(sprig.FuncMap()).
		ParseFS(templates, "*.html"))
	return s
}

// SetSnapshot replaces the snapshot the page renders. Call after each
// graph change.
func (s *Server) SetSnapshot(snap track.Snapshot) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.latest = snap
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.lock.RLock()
	snap := s.latest
	s.lock.RUnlock()
	err := s.t.ExecuteTemplate(w, "index", map[string]interface{}{
		"snap": snap,
		"now":  time.Now().Format("15:04:05"),
	})
	if err != nil {
		zap.S().Errorf("sumire: render: %s", err)
	}
}
