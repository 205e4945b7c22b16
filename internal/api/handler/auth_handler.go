package handler

import (
	"encoding/json"
	"net/http"

	"learnhub/internal/app/service"
	"learnhub/internal/common"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Shared request validator for all handlers.
var validate = validator.New()

type AuthHandler struct {
	identity *service.IdentityService
}

func NewAuthHandler(identity *service.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/session", h.session)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid registration data: "+err.Error())
		return
	}

	user, err := h.identity.Register(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid login data: "+err.Error())
		return
	}

	resp, err := h.identity.Login(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.identity.Logout(r.Context())
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Logged out"})
}

// session exposes the restored session so the UI can render the right
// state after a restart.
func (h *AuthHandler) session(w http.ResponseWriter, r *http.Request) {
	type sessionResponse struct {
		Loading bool        `json:"loading"`
		User    interface{} `json:"user"`
	}
	resp := sessionResponse{Loading: h.identity.Loading()}
	if user := h.identity.Current(); user != nil {
		resp.User = user
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
