package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tplfvg/tariffe/alerts"
	"github.com/tplfvg/tariffe/formatter"
	"github.com/tplfvg/tariffe/pricing"
	"github.com/tplfvg/tariffe/stops"
	"github.com/tplfvg/tariffe/utils"
)

type lineSummary struct {
	Index int      `json:"index"`
	Name  string   `json:"name"`
	Stops []string `json:"stops"`
}

func (s *Server) handleLines(c *gin.Context) {
	out := []lineSummary{}
	for i, l := range s.registry.Data() {
		if l == nil {
			continue
		}
		names := l.Stops
		if names == nil {
			names = []string{}
		}
		out = append(out, lineSummary{Index: i, Name: l.Name, Stops: names})
	}
	writeJSON(c, http.StatusOK, out)
}

type stopView struct {
	stops.Ranked
	Display string             `json:"display,omitempty"`
	Times   *utils.TravelTimes `json:"times,omitempty"`
}

func newStopView(r stops.Ranked) stopView {
	v := stopView{Ranked: r}
	if r.Distance != nil {
		v.Display = utils.PresentableDistance(*r.Distance)
		t := utils.EstimateTime(*r.Distance)
		v.Times = &t
	}
	return v
}

func (s *Server) handleStops(c *gin.Context) {
	line, idx, qerr := s.lineParam(c)
	if qerr != nil {
		writeQueryError(c, qerr)
		return
	}
	user, qerr := position(c, false)
	if qerr != nil {
		writeQueryError(c, qerr)
		return
	}
	ranked := stops.SortByDistance(line.Stops, s.coords, user)
	views := make([]stopView, len(ranked))
	for i, r := range ranked {
		views[i] = newStopView(r)
	}
	writeJSON(c, http.StatusOK, gin.H{"line": idx, "name": line.Name, "stops": views})
}

type nearestResponse struct {
	Departure stopView         `json:"departure"`
	Arrival   *stops.Ranked    `json:"arrival,omitempty"`
	Quote     *formatter.Quote `json:"quote,omitempty"`
}

// handleNearest picks the closest priority stop as departure and the
// opposite terminus as arrival, then quotes the pair.
func (s *Server) handleNearest(c *gin.Context) {
	line, idx, qerr := s.lineParam(c)
	if qerr != nil {
		writeQueryError(c, qerr)
		return
	}
	user, qerr := position(c, true)
	if qerr != nil {
		writeQueryError(c, qerr)
		return
	}
	meta, ok := s.cfg.SelectLine(line.Name)
	if !ok || len(meta.PriorityStops) == 0 {
		writeError(c, http.StatusNotFound, "No priority stops configured for "+line.Name)
		return
	}
	dep, ok := stops.NearestPriority(*user, line.Stops, s.coords, meta.PriorityStops)
	if !ok {
		writeError(c, http.StatusNotFound, "No priority stop with known position on "+line.Name)
		return
	}

	resp := nearestResponse{Departure: newStopView(dep)}
	if termini, ok := meta.TerminiPair(); ok {
		if arr, ok := stops.OppositeTerminus(dep.Name, line.Stops, termini); ok {
			resp.Arrival = &arr
			table, updates := s.registry.Snapshot()
			q := formatter.NewQuote(pricing.Indices(idx, dep.Index, arr.Index), table, updates)
			resp.Quote = &q
		}
	}
	writeJSON(c, http.StatusOK, resp)
}

func (s *Server) handleAlerts(c *gin.Context) {
	line, idx, qerr := s.lineParam(c)
	if qerr != nil {
		writeQueryError(c, qerr)
		return
	}
	active := []alerts.Alert{}
	if meta, ok := s.cfg.SelectLine(line.Name); ok && s.alerts != nil {
		if found := s.alerts.Feed().ForRoutes(meta.RouteIDs, time.Now()); found != nil {
			active = found
		}
	}
	writeJSON(c, http.StatusOK, gin.H{"line": idx, "name": line.Name, "alerts": active})
}

// handlePrice never fails on selector input: anything unusable yields the
// default quote.
func (s *Server) handlePrice(c *gin.Context) {
	sel := pricing.NewSelection(c.Query("line"), c.Query("from"), c.Query("to"))
	table, updates := s.registry.Snapshot()
	q := formatter.NewQuote(sel, table, updates).WithVersion(s.registry.Version())

	rb := formatter.NewResponseBuilder()
	switch strings.ToLower(c.Query("format")) {
	case "xml":
		c.Data(http.StatusOK, "application/xml", rb.BuildXML(q))
	case "text":
		c.String(http.StatusOK, rb.BuildText(q))
	default:
		c.Data(http.StatusOK, "application/json", rb.BuildJSON(q))
	}
}

func (s *Server) handleReload(c *gin.Context) {
	lines, err := s.registry.Reload(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"lines": len(lines), "version": s.registry.Version()})
}
