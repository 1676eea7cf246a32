package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mvailles/inkwell/internal/domain"
	"github.com/mvailles/inkwell/internal/service"
)

// maxCoverSize bounds multipart parsing for cover uploads.
const maxCoverSize = 10 << 20 // 10MB

// PostHandler handles post creation, mutation, and read endpoints.
type PostHandler struct {
	posts *service.PostService
	query *service.QueryService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *service.PostService, query *service.QueryService) *PostHandler {
	return &PostHandler{posts: posts, query: query}
}

// HandleCreate creates a post from a multipart form.
// POST /post
// Form fields: title, summary, content, tags (comma-separated); optional
// file part "file" with the cover image.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	cover, cleanup, err := coverFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload.")
		return
	}
	defer cleanup()

	draft := service.PostDraft{
		Title:   r.FormValue("title"),
		Summary: r.FormValue("summary"),
		Content: r.FormValue("content"),
		Tags:    r.FormValue("tags"),
		Cover:   cover,
	}

	post, err := h.posts.Create(r.Context(), claims.UserID, draft)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("create post", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusCreated, toPostDTO(post))
}

// HandleUpdate updates a post from a multipart form. The post ID travels in
// the "id" form field. Omitting the file part keeps the stored cover; an
// empty tags field keeps the stored tags.
// PUT /post
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	cover, cleanup, err := coverFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload.")
		return
	}
	defer cleanup()

	id := r.FormValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Post ID is required.")
		return
	}

	patch := service.PostPatch{
		Title:   r.FormValue("title"),
		Summary: r.FormValue("summary"),
		Content: r.FormValue("content"),
		Tags:    r.FormValue("tags"),
		Cover:   cover,
	}

	post, err := h.posts.Update(r.Context(), claims.UserID, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Post not found.")
		case errors.Is(err, domain.ErrNotAuthor):
			writeError(w, http.StatusForbidden, "You are not the author of this post.")
		default:
			slog.Error("update post", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPostDTO(post))
}

// HandleDelete deletes a post after the authorship check.
// DELETE /post/{id}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.posts.Delete(r.Context(), claims.UserID, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Post not found.")
		case errors.Is(err, domain.ErrNotAuthor):
			writeError(w, http.StatusForbidden, "You are not the author of this post.")
		default:
			slog.Error("delete post", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGet returns a single post with its author resolved.
// GET /post/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found.")
			return
		}
		slog.Error("get post", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, toPostDTO(post))
}

// HandleCover serves the raw cover bytes with a sniffed content type.
// GET /post/{id}/cover
func (h *PostHandler) HandleCover(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found.")
			return
		}
		slog.Error("get post cover", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}
	if post.Cover == nil {
		writeError(w, http.StatusNotFound, "Post has no cover.")
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(post.Cover))
	w.Header().Set("Content-Length", strconv.Itoa(len(post.Cover)))
	w.Write(post.Cover)
}

// HandleList returns one page of posts with the total page count.
// GET /posts?page=1&limit=10&search=term
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := r.URL.Query().Get("search")

	posts, totalPages, err := h.query.List(r.Context(), page, limit, search)
	if err != nil {
		slog.Error("list posts", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts":      toPostDTOs(posts),
		"totalPages": totalPages,
	})
}

// HandleSuggestions returns up to five lightweight matches for a query.
// GET /suggestions?q=term
func (h *PostHandler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.query.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		slog.Error("suggest posts", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, toSuggestionDTOs(suggestions))
}

// coverFromRequest parses the multipart form and captures the optional
// cover bytes. The returned cleanup removes the temporary upload artifacts
// and must run on success and failure paths alike.
func coverFromRequest(r *http.Request) ([]byte, func(), error) {
	cleanup := func() {
		if r.MultipartForm != nil {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				slog.Error("remove upload artifacts", "error", err)
			}
		}
	}

	if err := r.ParseMultipartForm(maxCoverSize); err != nil {
		cleanup()
		return nil, func() {}, err
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, cleanup, nil
		}
		cleanup()
		return nil, func() {}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	return data, cleanup, nil
}
