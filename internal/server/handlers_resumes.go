package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/europass-builder/internal/europass"
	"github.com/jonathan/europass-builder/internal/render"
	"github.com/jonathan/europass-builder/internal/schemas"
	"github.com/jonathan/europass-builder/internal/store"
	"github.com/jonathan/europass-builder/internal/types"
)

// CreateResponse is the response for resume creation and import.
type CreateResponse struct {
	ResumeID string `json:"resume_id"`
	Name     string `json:"name"`
}

// ListResponse is the response for the resume listing.
type ListResponse struct {
	Resumes []store.Summary `json:"resumes"`
	Count   int             `json:"count"`
}

// RenderRequest is the optional request body for PDF rendering.
type RenderRequest struct {
	Template string `json:"template,omitempty"`
}

// handleCreateResume creates a resume from an authored JSON record.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if s.schemaPath != "" {
		if err := schemas.ValidateJSONFile(s.schemaPath, string(body)); err != nil {
			s.failWith(w, err)
			return
		}
	}

	var resume types.Resume
	if err := json.Unmarshal(body, &resume); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	id, err := s.store.Create(&resume)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, CreateResponse{ResumeID: id, Name: resume.FullName()})
}

// handleImportResume creates a resume from an external XML document posted as
// the request body.
func (s *Server) handleImportResume(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if strings.TrimSpace(string(body)) == "" {
		s.errorResponse(w, http.StatusBadRequest, "request body must contain an XML document")
		return
	}

	resume, err := europass.Import(string(body))
	if err != nil {
		s.failWith(w, err)
		return
	}

	id, err := s.store.Create(resume)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, CreateResponse{ResumeID: id, Name: resume.FullName()})
}

func (s *Server) handleListResumes(w http.ResponseWriter, _ *http.Request) {
	summaries := s.store.List()
	s.jsonResponse(w, http.StatusOK, ListResponse{Resumes: summaries, Count: len(summaries)})
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	resume, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.failWith(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleUpdateResume applies a shallow partial update. With ?rederive=true a
// retained imported document is discarded so later exports reflect the
// update.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	var patch types.ResumePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rederive := r.URL.Query().Get("rederive") == "true"
	updated, err := s.store.Update(r.PathValue("id"), patch, rederive)
	if err != nil {
		var notFound *store.NotFoundError
		if errors.As(err, &notFound) {
			s.failWith(w, err)
			return
		}
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("id")); err != nil {
		s.failWith(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportResume returns the resume as an XML document. A retained
// imported document is returned verbatim; otherwise the document is derived
// from the structured fields. When the archive is connected the export is
// also recorded there.
func (s *Server) handleExportResume(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	resume, err := s.store.Get(id)
	if err != nil {
		s.failWith(w, err)
		return
	}

	xml := s.exporter.Export(resume)
	if s.archive != nil {
		if _, err := s.archive.SaveExport(r.Context(), id, resume.FullName(), xml); err != nil {
			log.Printf("[SERVER] export archive save failed for %s: %v", id, err)
		}
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if r.URL.Query().Get("download") == "true" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".xml"))
	}
	_, _ = w.Write([]byte(xml))
}

// handleValidateResume runs the structural validator. A non-empty request
// body is validated as-is; an empty body validates the stored resume's
// export.
func (s *Server) handleValidateResume(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	xml := strings.TrimSpace(string(body))
	if xml == "" {
		resume, err := s.store.Get(r.PathValue("id"))
		if err != nil {
			s.failWith(w, err)
			return
		}
		xml = s.exporter.Export(resume)
	}

	var v europass.Validator
	s.jsonResponse(w, http.StatusOK, v.Validate(xml))
}

// handleRenderResume renders the resume to PDF through the CV editor and
// streams the file back.
func (s *Server) handleRenderResume(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	template, err := render.ValidateTemplate(req.Template)
	if err != nil {
		s.failWith(w, err)
		return
	}

	id := r.PathValue("id")
	resume, err := s.store.Get(id)
	if err != nil {
		s.failWith(w, err)
		return
	}

	outDir, err := os.MkdirTemp("", "europass-render-*")
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to stage render output")
		return
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	outPath := filepath.Join(outDir, fmt.Sprintf("%s-%s.pdf", id, template))
	if err := s.renderer.Render(r.Context(), s.exporter.Export(resume), template, outPath); err != nil {
		s.failWith(w, err)
		return
	}

	pdf, err := os.ReadFile(outPath)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to read rendered PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(outPath)))
	_, _ = w.Write(pdf)
}

// handleListExports lists archived exports, optionally filtered with
// ?resume_id=.
func (s *Server) handleListExports(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "export archive is not configured")
		return
	}

	exports, err := s.archive.ListExports(r.Context(), r.URL.Query().Get("resume_id"), 50)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"exports": exports, "count": len(exports)})
}
