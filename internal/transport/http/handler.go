package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"blogapi/internal/domain"
	"blogapi/internal/dto"
	"blogapi/internal/netutil"
	"blogapi/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const refreshCookieName = "refreshToken"

type Handler struct {
	Auth      service.AuthService
	Devices   service.DeviceService
	Tokens    service.TokenService
	Blogs     service.BlogService
	Posts     service.PostService
	Comments  service.CommentService
	Reactions service.ReactionService

	CookieSecure bool
	// TrustProxy enables forwarded-for headers when the service sits behind
	// a reverse proxy; otherwise only the socket peer address counts.
	TrustProxy bool
}

// ---- helpers ----

func (h *Handler) clientIP(r *http.Request) string {
	if h.TrustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// XFF can be a list: client, proxy1, proxy2...
			ip := strings.TrimSpace(strings.Split(xff, ",")[0])
			if normalized, ok := netutil.NormalizeIP(ip); ok {
				return normalized
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			if normalized, ok := netutil.NormalizeIP(xr); ok {
				return normalized
			}
		}
	}
	if normalized, ok := netutil.NormalizeIP(r.RemoteAddr); ok {
		return normalized
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain taxonomy onto transport status codes; anything
// outside the taxonomy is treated per the provided fallback.
func writeError(w http.ResponseWriter, err error, fallback int) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrAlreadyDeleted):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), fallback)
	}
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func refreshFromCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(refreshCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func pathUUID(r *http.Request, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	return id, err == nil
}

// ---- access-token auth middleware ----

type userIDKey struct{}

func (h *Handler) RequireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
		if raw == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		userID, err := h.Tokens.VerifyAccessToken(raw)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID)))
	})
}

func callerID(r *http.Request) domain.UserID {
	if v, ok := r.Context().Value(userIDKey{}).(domain.UserID); ok {
		return v
	}
	return uuid.Nil
}

// ---- auth ----

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	res, err := h.Auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	pair, err := h.Auth.Login(r.Context(), req, h.clientIP(r), r.UserAgent())
	if err != nil {
		writeError(w, err, http.StatusUnauthorized)
		return
	}
	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, pair)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := refreshFromCookie(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	pair, err := h.Auth.Refresh(r.Context(), token, h.clientIP(r))
	if err != nil {
		writeError(w, err, http.StatusUnauthorized)
		return
	}
	h.setRefreshCookie(w, pair.RefreshToken)
	writeJSON(w, http.StatusOK, pair)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := refreshFromCookie(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.Auth.Logout(r.Context(), token); err != nil {
		writeError(w, err, http.StatusUnauthorized)
		return
	}
	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// ---- security devices ----

func (h *Handler) securityClaims(w http.ResponseWriter, r *http.Request) (service.RefreshClaims, bool) {
	token, ok := refreshFromCookie(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return service.RefreshClaims{}, false
	}
	claims, err := h.Auth.ValidateRefresh(r.Context(), token)
	if err != nil {
		writeError(w, err, http.StatusUnauthorized)
		return service.RefreshClaims{}, false
	}
	return claims, true
}

func (h *Handler) ListDevices(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.securityClaims(w, r)
	if !ok {
		return
	}
	devices, err := h.Devices.ActiveDevices(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

func (h *Handler) TerminateDevice(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.securityClaims(w, r)
	if !ok {
		return
	}
	deviceID, ok := pathUUID(r, "deviceId")
	if !ok {
		http.Error(w, "invalid deviceId", http.StatusBadRequest)
		return
	}
	if err := h.Devices.Terminate(r.Context(), deviceID, claims.UserID); err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) TerminateOtherDevices(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.securityClaims(w, r)
	if !ok {
		return
	}
	if err := h.Devices.TerminateOthers(r.Context(), claims.UserID, claims.DeviceID); err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- reactions ----

func (h *Handler) SetPostLikeStatus(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(r, "postId")
	if !ok {
		http.Error(w, "invalid postId", http.StatusBadRequest)
		return
	}
	var in dto.LikeStatusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	err := h.Reactions.SetPostReaction(r.Context(), callerID(r), postID, domain.ReactionStatus(in.LikeStatus))
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetCommentLikeStatus(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathUUID(r, "commentId")
	if !ok {
		http.Error(w, "invalid commentId", http.StatusBadRequest)
		return
	}
	var in dto.LikeStatusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	err := h.Reactions.SetCommentReaction(r.Context(), callerID(r), commentID, domain.ReactionStatus(in.LikeStatus))
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
