package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rhapsody24/rhapsody-core/internal/project"
)

// handleListProjects returns all projects.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projectRepo.List(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list projects")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects, "count": len(projects)})
}

// handleCreateProject creates a new project.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var p project.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if p.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	if err := s.projectRepo.Create(r.Context(), &p); err != nil {
		writeInternalError(w, "failed to create project")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// handleGetProject returns a single project by ID.
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid project id")
		return
	}

	p, err := s.projectRepo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			writeNotFound(w, "project not found")
			return
		}
		writeInternalError(w, "failed to get project")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleUpdateProject partially updates a project.
func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid project id")
		return
	}

	var patch project.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.projectRepo.Update(r.Context(), id, patch); err != nil {
		if errors.Is(err, project.ErrNotFound) {
			writeNotFound(w, "project not found")
			return
		}
		writeInternalError(w, "failed to update project")
		return
	}

	p, err := s.projectRepo.Get(r.Context(), id)
	if err != nil {
		writeInternalError(w, "failed to get project")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleDeleteProject deletes a project.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, "invalid project id")
		return
	}

	if err := s.projectRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, project.ErrNotFound) {
			writeNotFound(w, "project not found")
			return
		}
		writeInternalError(w, "failed to delete project")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// parseID parses the {id} URL parameter as an int64.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
