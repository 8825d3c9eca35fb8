package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tplfvg/tariffe/pricing"
	"github.com/tplfvg/tariffe/stops"
	"github.com/tplfvg/tariffe/tariff"
)

// QueryError is a client mistake in query or path parameters.
type QueryError struct {
	Status int
	Msg    string
}

func (e *QueryError) Error() string { return e.Msg }

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeQueryError(c *gin.Context, err *QueryError) {
	status := err.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	writeError(c, status, err.Msg)
}

// lineParam resolves the :line path parameter to a loaded line.
func (s *Server) lineParam(c *gin.Context) (*tariff.Line, int, *QueryError) {
	idx := pricing.ParseIndex(c.Param("line"))
	if !idx.Valid {
		return nil, 0, &QueryError{Msg: "Line must be an index."}
	}
	line, ok := s.registry.Line(idx.Value)
	if !ok {
		return nil, 0, &QueryError{Status: http.StatusNotFound, Msg: "No such line: " + c.Param("line")}
	}
	return line, idx.Value, nil
}

// position reads lat and lng. Both absent is not an error and returns nil.
func position(c *gin.Context, required bool) (*stops.Point, *QueryError) {
	latRaw, lngRaw := strings.TrimSpace(c.Query("lat")), strings.TrimSpace(c.Query("lng"))
	if latRaw == "" && lngRaw == "" {
		if required {
			return nil, &QueryError{Msg: "You must provide lat and lng."}
		}
		return nil, nil
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, &QueryError{Msg: "lat must be a number between -90 and 90."}
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil, &QueryError{Msg: "lng must be a number between -180 and 180."}
	}
	return &stops.Point{Lat: lat, Lng: lng}, nil
}
