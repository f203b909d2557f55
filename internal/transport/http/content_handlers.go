package http

import (
	"encoding/json"
	"net/http"

	"blogapi/internal/dto"
)

// ---- blogs ----

func (h *Handler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	var in dto.BlogInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	blog, err := h.Blogs.Create(r.Context(), callerID(r), in)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, blog)
}

func (h *Handler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.Blogs.List(r.Context())
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, blogs)
}

func (h *Handler) GetBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "blogId")
	if !ok {
		http.Error(w, "invalid blogId", http.StatusBadRequest)
		return
	}
	blog, err := h.Blogs.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

func (h *Handler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "blogId")
	if !ok {
		http.Error(w, "invalid blogId", http.StatusBadRequest)
		return
	}
	var in dto.BlogInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := h.Blogs.Update(r.Context(), id, callerID(r), in); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "blogId")
	if !ok {
		http.Error(w, "invalid blogId", http.StatusBadRequest)
		return
	}
	if err := h.Blogs.Delete(r.Context(), id, callerID(r)); err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- posts ----

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	blogID, ok := pathUUID(r, "blogId")
	if !ok {
		http.Error(w, "invalid blogId", http.StatusBadRequest)
		return
	}
	var in dto.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	post, err := h.Posts.Create(r.Context(), blogID, callerID(r), in)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	blogID, ok := pathUUID(r, "blogId")
	if !ok {
		http.Error(w, "invalid blogId", http.StatusBadRequest)
		return
	}
	posts, err := h.Posts.ListByBlog(r.Context(), blogID)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "postId")
	if !ok {
		http.Error(w, "invalid postId", http.StatusBadRequest)
		return
	}
	post, err := h.Posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "postId")
	if !ok {
		http.Error(w, "invalid postId", http.StatusBadRequest)
		return
	}
	var in dto.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := h.Posts.Update(r.Context(), id, callerID(r), in); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "postId")
	if !ok {
		http.Error(w, "invalid postId", http.StatusBadRequest)
		return
	}
	if err := h.Posts.Delete(r.Context(), id, callerID(r)); err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- comments ----

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(r, "postId")
	if !ok {
		http.Error(w, "invalid postId", http.StatusBadRequest)
		return
	}
	var in dto.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	comment, err := h.Comments.Create(r.Context(), postID, callerID(r), in)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(r, "postId")
	if !ok {
		http.Error(w, "invalid postId", http.StatusBadRequest)
		return
	}
	comments, err := h.Comments.ListByPost(r.Context(), postID)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "commentId")
	if !ok {
		http.Error(w, "invalid commentId", http.StatusBadRequest)
		return
	}
	comment, err := h.Comments.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "commentId")
	if !ok {
		http.Error(w, "invalid commentId", http.StatusBadRequest)
		return
	}
	var in dto.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := h.Comments.Update(r.Context(), id, callerID(r), in); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "commentId")
	if !ok {
		http.Error(w, "invalid commentId", http.StatusBadRequest)
		return
	}
	if err := h.Comments.Delete(r.Context(), id, callerID(r)); err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
