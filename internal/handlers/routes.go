package handlers

import "github.com/go-chi/chi/v5"

// Mount registers the todo routes and the health endpoint on r.
func (h *TodoHandler) Mount(r chi.Router) {
	r.Route("/todos", func(r chi.Router) {
		r.Get("/", h.GetTodos)           // GET /todos
		r.Post("/", h.PostTodo)          // POST /todos
		r.Post("/filter", h.FilterTodos) // POST /todos/filter

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTodoByID)        // GET /todos/{id}
			r.Patch("/", h.PatchTodo)        // PATCH /todos/{id}
			r.Delete("/", h.DeleteTodo)      // DELETE /todos/{id}
			r.Patch("/toggle", h.ToggleTodo) // PATCH /todos/{id}/toggle
		})
	})

	r.Get("/health", h.HealthCheck)
}
