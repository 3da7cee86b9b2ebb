package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/application"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "NOT_READY", "dependencies unavailable")
			return
		}
	}
	writeMessage(w, http.StatusOK, "ready")
}

func (h *Handler) startSignup(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.StartSignup(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "start_signup", err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{
		"signup_id":  res.SignupID,
		"state":      res.State,
		"expires_at": res.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) getSignup(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetSignup(r.Context(), chi.URLParam(r, "signup_id"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_signup", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"signup_id":  res.SignupID,
		"state":      res.State,
		"email":      res.Email,
		"expires_at": res.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

type submitAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) submitAccount(w http.ResponseWriter, r *http.Request) {
	var req submitAccountRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "submit_account", err)
		return
	}
	res, err := h.service.SubmitAccount(r.Context(), chi.URLParam(r, "signup_id"), application.SubmitAccountInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeMappedError(r.Context(), w, "submit_account", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"signup_id": res.SignupID,
		"state":     res.State,
	})
}

type submitProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *Handler) submitProfile(w http.ResponseWriter, r *http.Request) {
	var req submitProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "submit_profile", err)
		return
	}
	res, err := h.service.SubmitProfile(r.Context(), chi.URLParam(r, "signup_id"), application.SubmitProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeMappedError(r.Context(), w, "submit_profile", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"signup_id":     res.SignupID,
		"state":         res.State,
		"account_id":    res.AccountID,
		"handoff_token": res.HandoffToken,
	})
}
