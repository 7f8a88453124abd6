package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-api/internal/model"
	"github.com/BuzzLyutic/todo-api/internal/repo"
	"github.com/BuzzLyutic/todo-api/internal/service"
	"github.com/BuzzLyutic/todo-api/pkg/respond"
)

const basePath = "/api/todos"

type TodoHandler struct {
	service *service.TodoService
	logger  *zap.Logger
}

func NewTodoHandler(srv *service.TodoService, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	todos, err := h.service.List(r.Context())
	if err != nil {
		h.handleErrors(w, r, "", err)
		return
	}
	respond.JSON(w, r, http.StatusOK, todos)
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	todo, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, chi.URLParam(r, "id"), err)
		return
	}
	respond.JSON(w, r, http.StatusOK, todo)
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	idempKey := r.Header.Get("Idempotency-Key")
	todo, err := h.service.Create(r.Context(), in, idempKey)
	if err != nil {
		h.handleErrors(w, r, "", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%d", basePath, todo.ID))
	respond.JSON(w, r, http.StatusCreated, todo)
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	todo, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.handleErrors(w, r, chi.URLParam(r, "id"), err)
		return
	}
	respond.JSON(w, r, http.StatusOK, todo)
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleErrors(w, r, chi.URLParam(r, "id"), err)
		return
	}
	respond.NoContent(w, r)
}

// pathID reads {id}. A value that is not an int64 cannot name a stored item,
// so it is answered as not found.
func (h *TodoHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respond.Error(w, r, http.StatusNotFound, notFoundMessage(raw))
		return 0, false
	}
	return id, true
}

func (h *TodoHandler) decodeInput(w http.ResponseWriter, r *http.Request) (model.TodoInput, bool) {
	var in model.TodoInput

	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return in, false
	}

	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		if errors.Is(err, model.ErrInvalidInput) {
			respond.Error(w, r, http.StatusBadRequest, err.Error())
		} else {
			respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		}
		return in, false
	}
	return in, true
}

func notFoundMessage(id string) string {
	return fmt.Sprintf("TodoItem with Id %s not found.", id)
}

func (h *TodoHandler) handleErrors(w http.ResponseWriter, r *http.Request, id string, err error) {
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, notFoundMessage(id))
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("internal error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
