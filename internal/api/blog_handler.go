package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/blogrelay/internal/api/shared"
	"github.com/phrazzld/blogrelay/internal/domain"
	"github.com/phrazzld/blogrelay/internal/pipeline"
	"github.com/phrazzld/blogrelay/internal/platform/logger"
	"github.com/phrazzld/blogrelay/internal/storage"
	"github.com/phrazzld/blogrelay/internal/store"
)

// Runner executes one generation invocation.
type Runner interface {
	Run(ctx context.Context, topic string) (*pipeline.Result, error)
}

// ArtifactReader reads stored artifacts back from the object store.
type ArtifactReader interface {
	Fetch(ctx context.Context, key string) (*storage.Object, error)
}

// BlogHandler serves the generation and artifact endpoints.
type BlogHandler struct {
	runner Runner
	reader ArtifactReader
	index  store.ArtifactIndex
	logger *slog.Logger
}

// NewBlogHandler creates a BlogHandler. index may be nil, in which case
// ListBlogs answers 404.
func NewBlogHandler(
	runner Runner,
	reader ArtifactReader,
	index store.ArtifactIndex,
	log *slog.Logger,
) *BlogHandler {
	if runner == nil {
		panic("runner cannot be nil")
	}
	if reader == nil {
		panic("reader cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &BlogHandler{
		runner: runner,
		reader: reader,
		index:  index,
		logger: log.With(slog.String("component", "blog_handler")),
	}
}

// GenerateBlog handles POST /blog-generation and POST /api/blogs.
func (h *BlogHandler) GenerateBlog(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req GenerateBlogRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid input format received", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidInputFormat,
			domain.NewValidationError("", "invalid input format", domain.ErrInvalidFormat))
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		log.Warn("no blog topic provided")
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgTopicRequired,
			domain.NewValidationError("blog_topic", "is required", domain.ErrEmptyTopic))
		return
	}

	result, err := h.runner.Run(r.Context(), *req.BlogTopic)
	if err != nil {
		h.respondWithPipelineError(w, r, err)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GetBlog handles GET /api/blogs/*, returning the stored envelope as text.
func (h *BlogHandler) GetBlog(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	obj, err := h.reader.Fetch(r.Context(), key)
	if err != nil {
		status := MapErrorToStatusCode(err)
		message := GetSafeErrorMessage(err)
		if errors.Is(err, storage.ErrStorage) {
			message = MsgReadFailed
		}
		shared.RespondWithErrorAndLog(w, r, status, message, err)
		return
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = storage.ContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Body)))
	if !obj.LastModified.IsZero() {
		w.Header().Set("Last-Modified", obj.LastModified.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(obj.Body); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Warn("failed to write blog body", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// ListBlogs handles GET /api/blogs. The optional limit query parameter is
// clamped by store.NormalizeLimit.
func (h *BlogHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	if h.index == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Blog index not configured")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	artifacts, err := h.index.ListRecent(r.Context(), store.NormalizeLimit(limit))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, MsgUnexpected, err)
		return
	}

	resp := BlogListResponse{Blogs: make([]BlogSummary, 0, len(artifacts)), Count: len(artifacts)}
	for _, a := range artifacts {
		resp.Blogs = append(resp.Blogs, blogSummaryFromDomain(a))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

func (h *BlogHandler) respondWithPipelineError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
