// Package httpapi exposes sessions over HTTP with gin.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"docqa/internal/domain"
	"docqa/internal/ingest"
	"docqa/internal/log"
	"docqa/internal/session"
)

// Backend is the part of the service the HTTP layer needs.
type Backend interface {
	IngestDocuments(id string, docs []domain.Document) (*session.Session, error)
	Session(id string) (*session.Session, error)
	SessionIDs() []string
	Query(id, query string) (domain.Response, error)
	Close(id string) error
}

type SessionHandler struct {
	backend        Backend
	maxUploadBytes int64
	notFound       error
}

// NewSessionHandler creates the session handler. notFound is the backend's
// unknown-session error, mapped to 404.
func NewSessionHandler(backend Backend, maxUploadBytes int64, notFound error) *SessionHandler {
	return &SessionHandler{backend: backend, maxUploadBytes: maxUploadBytes, notFound: notFound}
}

type sessionView struct {
	ID      string   `json:"id"`
	Sources []string `json:"sources"`
	Chunks  int      `json:"chunks"`
	Indexed int      `json:"indexed"`
}

type queryRequest struct {
	Query string `json:"query" binding:"required"`
}

type answerView struct {
	Answer     string      `json:"answer"`
	Confidence float64     `json:"confidence"`
	Band       domain.Band `json:"band"`
}

type queryView struct {
	Kind     domain.QueryKind `json:"kind"`
	Grounded bool             `json:"grounded"`
	Answer   *answerView      `json:"answer,omitempty"`
	Summary  []string         `json:"summary,omitempty"`
	Message  string           `json:"message,omitempty"`
}

func viewOf(s *session.Session) sessionView {
	return sessionView{ID: s.ID, Sources: s.Sources, Chunks: len(s.Chunks), Indexed: s.Vector.Len()}
}

// Create indexes the uploaded files into a new session.
func (h *SessionHandler) Create(c *gin.Context) {
	h.ingest(c, "", http.StatusCreated)
}

// Replace re-uploads documents for an existing session.
func (h *SessionHandler) Replace(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.backend.Session(id); err != nil {
		h.fail(c, err)
		return
	}
	h.ingest(c, id, http.StatusOK)
}

func (h *SessionHandler) ingest(c *gin.Context, id string, status int) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid multipart upload: " + err.Error()})
		return
	}
	var docs []domain.Document
	for _, fh := range form.File["files"] {
		if !ingest.Supported(fh.Filename) {
			log.Warnf("skipping unsupported upload %s", fh.Filename)
			continue
		}
		f, err := fh.Open()
		if err != nil {
			h.fail(c, err)
			return
		}
		doc, err := ingest.LoadReader(fh.Filename, f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"code": http.StatusUnprocessableEntity, "message": err.Error()})
			return
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		h.fail(c, fmt.Errorf("no .txt or .pdf files uploaded: %w", domain.ErrEmptyInput))
		return
	}
	sess, err := h.backend.IngestDocuments(id, docs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(status, gin.H{"code": status, "message": "success", "data": viewOf(sess)})
}

// List returns the live session IDs, oldest first.
func (h *SessionHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": h.backend.SessionIDs()})
}

// Get describes a session.
func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.backend.Session(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": viewOf(sess)})
}

// Query answers or summarizes, depending on the query wording.
func (h *SessionHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "invalid request payload"})
		return
	}
	resp, err := h.backend.Query(c.Param("id"), req.Query)
	if errors.Is(err, domain.ErrNotGrounded) {
		c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": queryView{
			Kind:    domain.QueryQA,
			Message: "The document does not clearly contain an answer.",
		}})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	view := queryView{Kind: resp.Kind, Grounded: true}
	if resp.Answer != nil {
		view.Answer = &answerView{Answer: resp.Answer.Answer, Confidence: resp.Answer.Confidence, Band: resp.Answer.Band}
	}
	if resp.Summary != nil {
		view.Summary = resp.Summary.Sentences
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": view})
}

func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.backend.Close(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success"})
}

func (h *SessionHandler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var capErr *domain.CapabilityError
	switch {
	case h.notFound != nil && errors.Is(err, h.notFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyInput):
		status = http.StatusBadRequest
	case errors.As(err, &capErr):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", err)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"code": status, "message": err.Error()})
}
