package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/user-records/internal/http/respond"
	"github.com/hongminglow/user-records/internal/logger"
	"github.com/hongminglow/user-records/internal/models"
	"github.com/hongminglow/user-records/internal/policy"
	"github.com/hongminglow/user-records/internal/storage"
)

const msgUserNotFound = "Cannot find the user"

// Handler serves the user collection: list, create and fetch by id.
type Handler struct {
	store      storage.UserStore
	logger     *logger.Logger
	bcryptCost int
}

// NewHandler constructs the handler.
func NewHandler(store storage.UserStore, log *logger.Logger, bcryptCost int) *Handler {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Handler{store: store, logger: log, bcryptCost: bcryptCost}
}

// Routes returns the collection routes, relative to wherever they are mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleFetch)
	return r
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("list users", "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respond.JSON(w, http.StatusOK, users)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	user := models.NewUser(fields)
	if !policy.ValidPassword(user.Password()) {
		respond.Error(w, http.StatusBadRequest, policy.PasswordMessage)
		return
	}

	hash, err := hashPassword(user.Password(), h.bcryptCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	created, err := h.store.Insert(r.Context(), user.WithPassword(hash))
	if err != nil {
		var verr *storage.ValidationError
		if !errors.As(err, &verr) {
			h.logger.Error("insert user", "error", err)
		}
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	respond.Text(w, http.StatusCreated, "Success "+created.String())
}

func (h *Handler) handleFetch(w http.ResponseWriter, r *http.Request) {
	res := h.lookup(r.Context(), chi.URLParam(r, "id"))
	switch res.kind {
	case lookupNotFound:
		respond.Error(w, http.StatusNotFound, msgUserNotFound)
	case lookupFailed:
		h.logger.Error("find user", "id", chi.URLParam(r, "id"), "error", res.err)
		respond.Error(w, http.StatusInternalServerError, res.err.Error())
	default:
		renderUser(w, res.user)
	}
}

func renderUser(w http.ResponseWriter, user models.User) {
	respond.JSON(w, http.StatusOK, user)
}

type lookupKind int

const (
	lookupFound lookupKind = iota
	lookupNotFound
	lookupFailed
)

// lookupResult is the outcome of resolving an id route parameter.
type lookupResult struct {
	kind lookupKind
	user models.User
	err  error
}

func (h *Handler) lookup(ctx context.Context, id string) lookupResult {
	user, err := h.store.FindByID(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return lookupResult{kind: lookupNotFound}
	case err != nil:
		return lookupResult{kind: lookupFailed, err: err}
	}
	return lookupResult{kind: lookupFound, user: user}
}
