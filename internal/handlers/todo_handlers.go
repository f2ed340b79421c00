package handlers

import (
	"net/http"
	"time"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/handlers/dto"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/logger"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/service"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/spatial"

	"go.uber.org/zap"
)

const contentTypeJSON = "application/json"

type TodoHandler struct {
	TodoService Service
}

func NewTodoHandler(todoService Service) *TodoHandler {
	return &TodoHandler{TodoService: todoService}
}

// GetTodos serves GET /todos?limit&offset.
func (h *TodoHandler) GetTodos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	limit, offset, err := pagination(r)
	if err != nil {
		h.badRequest(w, r, "pagination", err.Error())
		return
	}

	todos, err := h.TodoService.FindAll(r.Context(), limit, offset, nil)
	if err != nil {
		handleBusinessError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: todos listed",
		zap.Int("count", len(todos)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))
	responseWithJSON(w, http.StatusOK, dto.FromTodoList(todos))
}

// FilterTodos serves POST /todos/filter.
func (h *TodoHandler) FilterTodos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !h.requireJSON(w, r) {
		return
	}

	limit, offset, err := pagination(r)
	if err != nil {
		h.badRequest(w, r, "pagination", err.Error())
		return
	}

	var request dto.FilterRequest
	if err := decodeStrict(w, r, &request); err != nil {
		h.badRequest(w, r, "body", err.Error())
		return
	}

	area, err := spatial.ParseFilter(request.FilterGeometry)
	if err != nil {
		handleBusinessError(w, r, err)
		return
	}

	todos, err := h.TodoService.FindAll(r.Context(), limit, offset, &area)
	if err != nil {
		handleBusinessError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: todos filtered",
		zap.Int("count", len(todos)),
		zap.String("area_type", string(area.Type)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))
	responseWithJSON(w, http.StatusOK, dto.FromTodoList(todos))
}

// PostTodo serves POST /todos.
func (h *TodoHandler) PostTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !h.requireJSON(w, r) {
		return
	}

	var request dto.CreateTodoRequest
	if err := decodeStrict(w, r, &request); err != nil {
		h.badRequest(w, r, "body", err.Error())
		return
	}
	if err := request.Validate(); err != nil {
		h.badRequest(w, r, "geom", err.Error())
		return
	}

	created, err := h.TodoService.Create(r.Context(), request.ToDraft())
	if err != nil {
		handleBusinessError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: todo created",
		zap.String("todo_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))
	responseWithJSON(w, http.StatusCreated, dto.FromTodo(created))
}

// GetTodoByID serves GET /todos/{id}.
func (h *TodoHandler) GetTodoByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := pathID(r)
	if err != nil {
		h.badRequest(w, r, "id", err.Error())
		return
	}

	found, err := h.TodoService.GetByID(r.Context(), id)
	if err != nil {
		handleBusinessError(w, r, err)
		return
	}
	responseWithJSON(w, http.StatusOK, dto.FromTodo(found))
}

// PatchTodo serves PATCH /todos/{id}.
func (h *TodoHandler) PatchTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !h.requireJSON(w, r) {
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.badRequest(w, r, "id", err.Error())
		return
	}

	var request dto.UpdateTodoRequest
	if err := decodeStrict(w, r, &request); err != nil {
		h.badRequest(w, r, "body", err.Error())
		return
	}

	updated, err := h.TodoService.Update(r.Context(), id, request.ToPatch())
	if err != nil {
		handleBusinessError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: todo updated",
		zap.String("todo_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))
	responseWithJSON(w, http.StatusOK, dto.FromTodo(updated))
}

// ToggleTodo serves PATCH /todos/{id}/toggle.
func (h *TodoHandler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := pathID(r)
	if err != nil {
		h.badRequest(w, r, "id", err.Error())
		return
	}

	toggled, err := h.TodoService.Toggle(r.Context(), id)
	if err != nil {
		handleBusinessError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: todo toggled",
		zap.String("todo_id", id.String()),
		zap.Bool("is_completed", toggled.IsCompleted))
	responseWithJSON(w, http.StatusOK, dto.FromTodo(toggled))
}

// DeleteTodo serves DELETE /todos/{id} and answers with the removed record.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := pathID(r)
	if err != nil {
		h.badRequest(w, r, "id", err.Error())
		return
	}

	deleted, err := h.TodoService.Delete(r.Context(), id)
	if err != nil {
		handleBusinessError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: todo deleted", zap.String("todo_id", id.String()))
	responseWithJSON(w, http.StatusOK, dto.FromTodo(deleted))
}

func (h *TodoHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.TodoService.HealthCheck(r.Context()); err != nil {
		handleBusinessError(w, r, err)
		return
	}
	responseWithPayload(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("time", time.Now().UTC()))
}

func (h *TodoHandler) requireJSON(w http.ResponseWriter, r *http.Request) bool {
	if checkContentType(r, contentTypeJSON) {
		return true
	}
	logger.Warn("HTTP: wrong content type",
		zap.String("expected", contentTypeJSON),
		zap.String("received", r.Header.Get("Content-Type")),
		zap.String("client_ip", r.RemoteAddr))
	responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
	return false
}

func (h *TodoHandler) badRequest(w http.ResponseWriter, r *http.Request, field, reason string) {
	handleBusinessError(w, r, service.NewValidationError(field, reason))
}
