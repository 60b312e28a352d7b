package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/proposal-writer/internal/freelance"
	"github.com/spigell/proposal-writer/internal/history"
	"github.com/spigell/proposal-writer/internal/proposal"
)

type historyResponse struct {
	Success    bool                `json:"success"`
	Data       history.Categorized `json:"data"`
	TotalCount int                 `json:"totalCount"`
}

func (s *Server) generateProposal(w http.ResponseWriter, r *http.Request) {
	log := s.loggerFrom(r)

	var req freelance.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed JSON body: %v", proposal.ErrInvalidInput, err))
		return
	}

	out, err := s.generator.Generate(r.Context(), &req)
	if err != nil {
		if !errors.Is(err, proposal.ErrInvalidInput) {
			log.Error("proposal generation failed", zap.Error(err))
		}
		writeError(w, err)
		return
	}

	if s.history != nil {
		s.history.Add(history.NewEntry(req.Profile.Name, req.Job, out, s.now()))
		if err := s.history.Save(); err != nil {
			log.Warn("failed to save proposal history", zap.String("path", s.history.Path()), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, out)
}

// analyzeJob scores a job against a profile without writing a proposal.
func (s *Server) analyzeJob(w http.ResponseWriter, r *http.Request) {
	var req freelance.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed JSON body: %v", proposal.ErrInvalidInput, err))
		return
	}

	if err := proposal.Validate(&req); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.generator.Analyze(req.Profile, req.Job))
}

func (s *Server) proposalHistory(w http.ResponseWriter, _ *http.Request) {
	resp := historyResponse{Success: true, Data: history.Categorized{
		Past24Hours: []history.Entry{},
		Past7Days:   []history.Entry{},
		Past30Days:  []history.Entry{},
	}}

	if s.history != nil {
		resp.Data = s.history.Categorize(s.now())
		resp.TotalCount = resp.Data.Total()
	}

	writeJSON(w, http.StatusOK, resp)
}
