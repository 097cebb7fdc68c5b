package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mnorov/todo-api/database"
	"github.com/mnorov/todo-api/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// @Summary Get all todos for the caller.
// @Description fetch every todo owned by the authenticated user, newest first.
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} []models.Todo
// @Router /api/todos [get]
func GetTodos(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		caller := CurrentUser(c)

		todos, err := h.Todos.FindByOwner(c.Context(), caller.ID)
		if err != nil {
			h.L.WithError(err).Error("[TodoDB] failed listing todos")
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
		}
		return c.Status(fiber.StatusOK).JSON(todos)
	}
}

// @Summary Create a todo.
// @Description create a todo owned by the authenticated user.
// @Tags todos
// @Accept json
// @Param todo body models.CreateTodoRequest true "Todo to create"
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Todo
// @Router /api/todos [post]
func CreateTodo(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		caller := CurrentUser(c)

		req := new(models.CreateTodoRequest)
		if err := c.BodyParser(req); err != nil {
			return ErrorResponse(c, fiber.StatusBadRequest, "request body malformed")
		}

		// Category is checked before any store I/O; there is no implicit
		// default, absence is rejected like any other invalid value.
		if !req.Category.Valid() {
			return ErrorResponse(c, fiber.StatusBadRequest, "Invalid category")
		}
		if req.Text == "" {
			return ErrorResponse(c, fiber.StatusBadRequest, "Please add a todo text")
		}
		dueDate, err := models.ParseDueDate(req.DueDate)
		if err != nil {
			return ErrorResponse(c, fiber.StatusBadRequest, "Please add a due date")
		}

		todo := &models.Todo{
			Text:      req.Text,
			Completed: false,
			DueDate:   dueDate,
			Category:  req.Category,
			User:      caller.ID,
			CreatedAt: time.Now().UTC(),
		}
		if err := h.Todos.Insert(c.Context(), todo); err != nil {
			h.L.WithError(err).Error("[TodoDB] failed creating todo")
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
		}
		return c.Status(fiber.StatusCreated).JSON(todo)
	}
}

// @Summary Update a todo.
// @Description apply a partial patch to a todo the authenticated user owns.
// @Tags todos
// @Accept json
// @Param id path string true "Todo ID"
// @Param patch body models.UpdateTodoRequest true "Fields to overwrite"
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Todo
// @Router /api/todos/:id [put]
func UpdateTodo(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		caller := CurrentUser(c)

		id, err := primitive.ObjectIDFromHex(c.Params("id"))
		if err != nil {
			return ErrorResponse(c, fiber.StatusBadRequest, "invalid todo id")
		}

		req := new(models.UpdateTodoRequest)
		if err := c.BodyParser(req); err != nil {
			return ErrorResponse(c, fiber.StatusBadRequest, "request body malformed")
		}

		if req.Category != nil && !req.Category.Valid() {
			return ErrorResponse(c, fiber.StatusBadRequest, "Invalid category")
		}

		patch := models.TodoPatch{
			Text:      req.Text,
			Completed: req.Completed,
			Category:  req.Category,
		}
		if req.DueDate != nil {
			dueDate, err := models.ParseDueDate(*req.DueDate)
			if err != nil {
				return ErrorResponse(c, fiber.StatusBadRequest, "invalid due date")
			}
			patch.DueDate = &dueDate
		}

		// Fetch-then-compare-then-mutate: ownership is settled before any
		// write is attempted.
		todo, err := h.Todos.FindByID(c.Context(), id)
		if err != nil {
			if err == database.ErrNotFound {
				return ErrorResponse(c, fiber.StatusNotFound, "Todo not found")
			}
			h.L.WithError(err).Error("[TodoDB] failed fetching todo for update")
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
		}
		if todo.User != caller.ID {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Not authorized")
		}

		updated, err := h.Todos.UpdateByID(c.Context(), id, patch)
		if err != nil {
			if err == database.ErrNotFound {
				return ErrorResponse(c, fiber.StatusNotFound, "Todo not found")
			}
			h.L.WithError(err).Error("[TodoDB] failed updating todo")
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
		}
		return c.Status(fiber.StatusOK).JSON(updated)
	}
}

// @Summary Delete a todo.
// @Description permanently remove a todo the authenticated user owns.
// @Tags todos
// @Param id path string true "Todo ID"
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /api/todos/:id [delete]
func DeleteTodo(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		caller := CurrentUser(c)

		id, err := primitive.ObjectIDFromHex(c.Params("id"))
		if err != nil {
			return ErrorResponse(c, fiber.StatusBadRequest, "invalid todo id")
		}

		todo, err := h.Todos.FindByID(c.Context(), id)
		if err != nil {
			if err == database.ErrNotFound {
				return ErrorResponse(c, fiber.StatusNotFound, "Todo not found")
			}
			h.L.WithError(err).Error("[TodoDB] failed fetching todo for delete")
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
		}
		if todo.User != caller.ID {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Not authorized")
		}

		if err := h.Todos.DeleteByID(c.Context(), id); err != nil {
			if err == database.ErrNotFound {
				return ErrorResponse(c, fiber.StatusNotFound, "Todo not found")
			}
			h.L.WithError(err).Error("[TodoDB] failed deleting todo")
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Todo removed"})
	}
}
