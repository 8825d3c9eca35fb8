package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tplfvg/tariffe/formatter"
	"github.com/tplfvg/tariffe/selection"
)

// selectionRequest updates a saved selection. A new line clears the stops
// unless they are sent in the same request.
type selectionRequest struct {
	Line      *int `json:"line" binding:"omitempty,gte=0"`
	Departure *int `json:"departure" binding:"omitempty,gte=0"`
	Arrival   *int `json:"arrival" binding:"omitempty,gte=0"`
	Swap      bool `json:"swap"`
}

type selectionResponse struct {
	Client    string           `json:"client"`
	Selection selection.Saved  `json:"selection"`
	Quote     *formatter.Quote `json:"quote,omitempty"`
}

func (s *Server) respondSelection(c *gin.Context, status int, id string, saved selection.Saved) {
	resp := selectionResponse{Client: id, Selection: saved}
	if sel := saved.Selection(); sel.Complete() {
		table, updates := s.registry.Snapshot()
		q := formatter.NewQuote(sel, table, updates)
		resp.Quote = &q
	}
	writeJSON(c, status, resp)
}

func (s *Server) clientParam(c *gin.Context) (string, bool) {
	id := c.Param("client")
	if err := selection.CheckClientID(id); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

func (s *Server) handleNewSelection(c *gin.Context) {
	writeJSON(c, http.StatusCreated, gin.H{"client": selection.NewClientID()})
}

func (s *Server) handleGetSelection(c *gin.Context) {
	id, ok := s.clientParam(c)
	if !ok {
		return
	}
	saved, err := s.selections.Get(c.Request.Context(), id)
	if errors.Is(err, selection.ErrNotFound) {
		writeError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	s.respondSelection(c, http.StatusOK, id, saved)
}

func (s *Server) handlePutSelection(c *gin.Context) {
	id, ok := s.clientParam(c)
	if !ok {
		return
	}
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	saved, err := s.selections.Get(ctx, id)
	if err != nil && !errors.Is(err, selection.ErrNotFound) {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if req.Line != nil && (saved.Line == nil || *saved.Line != *req.Line) {
		saved.SelectLine(*req.Line)
	}
	if req.Departure != nil {
		saved.SelectDeparture(*req.Departure)
	}
	if req.Arrival != nil {
		saved.SelectArrival(*req.Arrival)
	}
	if req.Swap {
		saved.Swap()
	}

	if err := s.selections.Save(ctx, id, saved); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	stored, err := s.selections.Get(ctx, id)
	if err != nil {
		stored = saved
	}
	s.respondSelection(c, http.StatusOK, id, stored)
}

func (s *Server) handleDeleteSelection(c *gin.Context) {
	id, ok := s.clientParam(c)
	if !ok {
		return
	}
	if err := s.selections.Delete(c.Request.Context(), id); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}
