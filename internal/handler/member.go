package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mverhoef/presenceboard/internal/domain"
)

// memberRequest is the body of POST and PUT /api/members.
type memberRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	TapID         string `json:"tap_id"`
	IncludedHours int    `json:"included_hours"`
	MemberType    string `json:"member_type"`
	Credits       int    `json:"credits"`
}

func (req memberRequest) toDomain() domain.Member {
	return domain.Member{
		Name:          req.Name,
		Email:         req.Email,
		TapID:         req.TapID,
		IncludedHours: req.IncludedHours,
		MemberType:    req.MemberType,
		Credits:       req.Credits,
	}
}

// paginatedMembers is the body of GET /api/members.
type paginatedMembers struct {
	Data       []domain.Member `json:"data"`
	Pagination pagination      `json:"pagination"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// CreateMember handles POST /api/members.
func (s *Server) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := s.members.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListMembers handles GET /api/members.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListMembers(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	members, total, err := s.members.ListPaged(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, paginatedMembers{
		Data: members,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetMember handles GET /api/members/{id}.
func (s *Server) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, "invalid member id")
		return
	}

	member, err := s.members.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

// UpdateMember handles PUT /api/members/{id}.
func (s *Server) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, "invalid member id")
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	m := req.toDomain()
	m.ID = id

	updated, err := s.members.Update(r.Context(), m)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteMember handles DELETE /api/members/{id}.
// Historical sessions are left untouched.
func (s *Server) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, "invalid member id")
		return
	}

	if err := s.members.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetMemberStats handles GET /api/members/{id}/stats — month-to-date usage.
func (s *Server) GetMemberStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, "invalid member id")
		return
	}

	stats, err := s.reporting.MemberStats(r.Context(), id, time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// queryInt parses an optional integer query parameter, returning nil when the
// parameter is absent or not a number.
func queryInt(r *http.Request, key string) *int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
