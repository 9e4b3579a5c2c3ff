package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"origincheck/internal/config"
	"origincheck/internal/detect"
	"origincheck/internal/extract"
	"origincheck/internal/models"
	"origincheck/internal/storage"
	"origincheck/internal/textproc"
	"origincheck/internal/vector"
	"origincheck/internal/workflows"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
)

type Server struct {
	cfg       config.Config
	db        *storage.DB
	docRepo   *storage.DocumentRepo
	checkRepo *storage.CheckRepo
	index     *vector.Index
	temporal  tclient.Client
}

func NewServer(cfg config.Config) *Server {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		panic(err)
	}
	return &Server{
		cfg:       cfg,
		db:        db,
		docRepo:   storage.NewDocumentRepo(db),
		checkRepo: storage.NewCheckRepo(db),
		index:     vector.NewIndex(db.Pool),
		temporal:  tc,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/documents", s.handleDocuments)
	mux.HandleFunc("/documents/", s.handleDocumentScoped)
	mux.HandleFunc("/checks", s.handleChecks)
	mux.HandleFunc("/checks/", s.handleCheckScoped)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}

	title, institutionID, filename, content, err := readDocumentUpload(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	content = textproc.Sanitize(content)
	if strings.TrimSpace(content) == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("content is required"))
		return
	}

	fingerprint := textproc.Fingerprint(content)
	if existing, err := s.docRepo.FindByFingerprint(r.Context(), fingerprint); err == nil {
		writeErr(w, http.StatusConflict, fmt.Errorf("duplicate content: document %s already stored", existing.DocumentID))
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	doc := models.Document{
		DocumentID:    uuid.NewString(),
		InstitutionID: institutionID,
		Title:         title,
		Filename:      filename,
		Content:       content,
		Fingerprint:   fingerprint,
		WordCount:     textproc.WordCount(content),
		CharCount:     len(content),
	}
	if err := s.docRepo.CreateDocument(r.Context(), doc); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:                    "index-" + doc.DocumentID,
		TaskQueue:             s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, workflows.DocumentIndexWorkflow, workflows.DocumentIndexInput{DocumentID: doc.DocumentID})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, fmt.Errorf("start index workflow: %w", err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"document_id":       doc.DocumentID,
		"fingerprint":       doc.Fingerprint,
		"word_count":        doc.WordCount,
		"index_workflow_id": we.GetID(),
	})
}

func (s *Server) handleDocumentScoped(w http.ResponseWriter, r *http.Request) {
	documentID := strings.TrimPrefix(r.URL.Path, "/documents/")
	if documentID == "" || strings.Contains(documentID, "/") {
		writeErr(w, http.StatusNotFound, fmt.Errorf("document not found"))
		return
	}
	switch r.Method {
	case http.MethodGet:
		doc, err := s.docRepo.GetDocument(r.Context(), documentID)
		if errors.Is(err, storage.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case http.MethodDelete:
		// Retract the vectors first so the document stops matching checks
		// even if the row delete fails midway.
		if err := s.index.Delete(r.Context(), documentID); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		if err := s.docRepo.DeleteDocument(r.Context(), documentID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeErr(w, http.StatusNotFound, err)
				return
			}
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"document_id": documentID, "deleted": true})
	default:
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (s *Server) handleChecks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		DocumentID       string `json:"document_id"`
		CheckWeb         *bool  `json:"check_web"`
		CheckDatabase    *bool  `json:"check_database"`
		CheckInstitution *bool  `json:"check_institution"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if strings.TrimSpace(req.DocumentID) == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("document_id is required"))
		return
	}
	if _, err := s.docRepo.GetDocument(r.Context(), req.DocumentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	checkID := uuid.NewString()
	if err := s.checkRepo.CreateCheck(r.Context(), checkID, req.DocumentID); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:                    "check-" + checkID,
		TaskQueue:             s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, workflows.CheckWorkflow, workflows.CheckInput{
		CheckID:    checkID,
		DocumentID: req.DocumentID,
		Checks: detect.EnabledChecks{
			Web:         boolOrDefault(req.CheckWeb, true),
			Database:    boolOrDefault(req.CheckDatabase, true),
			Institution: boolOrDefault(req.CheckInstitution, true),
		},
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, fmt.Errorf("start check workflow: %w", err))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"check_id":    checkID,
		"document_id": req.DocumentID,
		"status":      models.CheckPending,
		"workflow_id": we.GetID(),
	})
}

func (s *Server) handleCheckScoped(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	checkID := strings.TrimPrefix(r.URL.Path, "/checks/")
	if checkID == "" || strings.Contains(checkID, "/") {
		writeErr(w, http.StatusNotFound, fmt.Errorf("check not found"))
		return
	}
	check, err := s.checkRepo.GetCheck(r.Context(), checkID)
	if errors.Is(err, storage.ErrNotFound) {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	resp := map[string]any{"check": check}
	if check.Status == models.CheckCompleted {
		matches, err := s.checkRepo.ListMatches(r.Context(), checkID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		resp["matches"] = matches
	}
	writeJSON(w, http.StatusOK, resp)
}

// readDocumentUpload accepts either multipart form uploads (pdf/txt/md files)
// or a plain JSON body with inline content.
func readDocumentUpload(r *http.Request) (title, institutionID, filename, content string, err error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			return "", "", "", "", fmt.Errorf("parse multipart: %w", err)
		}
		title = strings.TrimSpace(r.FormValue("title"))
		institutionID = strings.TrimSpace(r.FormValue("institution_id"))
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", "", "", "", fmt.Errorf("no file provided")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", "", "", "", fmt.Errorf("read upload: %w", err)
		}
		text, err := extract.Text(header.Filename, data)
		if err != nil {
			return "", "", "", "", err
		}
		return title, institutionID, header.Filename, text, nil
	}

	var req struct {
		Title         string `json:"title"`
		InstitutionID string `json:"institution_id"`
		Content       string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", "", "", "", fmt.Errorf("invalid json: %w", err)
	}
	return strings.TrimSpace(req.Title), strings.TrimSpace(req.InstitutionID), "", req.Content, nil
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	msg := "request failed"
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"status":  code,
			"message": msg,
		},
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
