package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tplfvg/tariffe/utils"
)

type healthResponse struct {
	Status    string `json:"status"`
	Loaded    bool   `json:"loaded"`
	Loading   bool   `json:"loading"`
	Lines     int    `json:"lines"`
	Version   string `json:"version,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleHealth(c *gin.Context) {
	status := "ok"
	lines := len(s.registry.Data())
	if lines == 0 {
		status = "degraded"
	}
	writeJSON(c, http.StatusOK, healthResponse{
		Status:    status,
		Loaded:    s.registry.IsLoaded(),
		Loading:   s.registry.IsLoading(),
		Lines:     lines,
		Version:   s.registry.Version(),
		Timestamp: utils.Iso8601Now(),
	})
}
