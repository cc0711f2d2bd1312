package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-api/internal/model"
	"github.com/iliyamo/todo-api/internal/queue"
	"github.com/iliyamo/todo-api/internal/repository"
	queue_publisher "github.com/iliyamo/todo-api/internal/service"
	"github.com/iliyamo/todo-api/internal/storage"
)

// TodoHandler bundles the todo repository and the attachment store for
// the todo CRUD endpoints. Which attachment backend sits behind Images
// (local disk or remote blob service) is decided at startup.
type TodoHandler struct {
	Todos  *repository.TodoRepo
	Images storage.ImageStore
}

func NewTodoHandler(todos *repository.TodoRepo, images storage.ImageStore) *TodoHandler {
	if todos == nil || images == nil {
		panic("nil dependency passed to NewTodoHandler")
	}
	return &TodoHandler{Todos: todos, Images: images}
}

// validateTitle and validateDescription enforce the column limits before
// any write happens.
func validateTitle(title string) string {
	if n := utf8.RuneCountInString(title); n < 1 || n > 200 {
		return "title must be 1-200 characters"
	}
	return ""
}

func validateDescription(desc string) string {
	if utf8.RuneCountInString(desc) > 1000 {
		return "description must be at most 1000 characters"
	}
	return ""
}

// storeUpload validates and stores one uploaded file, returning the blob
// URL. The content type declared on the part is checked against the
// image allow-list before anything is written.
func (h *TodoHandler) storeUpload(ctx context.Context, ownerID uint64, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return h.Images.Store(ctx, ownerID, src, fh.Header.Get("Content-Type"))
}

// publishActivity sends a todo activity event to the broker without
// blocking the request. Publish failures only affect the activity log,
// never the client response.
func publishActivity(action string, todoID, userID uint64, username, title string) {
	ev := queue.TodoActivityEvent{
		Action:   action,
		TodoID:   todoID,
		UserID:   userID,
		Username: username,
		Title:    title,
		At:       time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishTodoActivity(ctx, ev)
	}()
}

// List handles GET /v1/todos. It returns every todo owned by the caller.
func (h *TodoHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	todos, err := h.Todos.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch todos failed"})
	}
	return c.JSON(http.StatusOK, todos)
}

// Create handles POST /v1/todos. The body is a multipart form with title,
// description and an optional image. The image is stored first; if the
// insert then fails, the fresh blob is deleted so it does not leak.
func (h *TodoHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	username, err := getUsername(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	title, hasTitle := formValue(c, "title")
	description, hasDesc := formValue(c, "description")
	if !hasTitle || !hasDesc {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and description are required"})
	}
	if msg := validateTitle(title); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if msg := validateDescription(description); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	// Upload the attachment before touching the database so the record
	// is only ever created with a reachable image URL.
	var imageURL *string
	if fh, err := c.FormFile("image"); err == nil {
		url, err := h.storeUpload(ctx, uid, fh)
		if err != nil {
			if err == storage.ErrInvalidContentType {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload image failed"})
		}
		imageURL = &url
	}

	t, err := h.Todos.Create(ctx, uid, username, title, description, imageURL)
	if err != nil {
		if imageURL != nil {
			// Best effort: do not leave the just-uploaded blob orphaned.
			_ = h.Images.Delete(ctx, *imageURL)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create todo failed"})
	}

	publishActivity(queue.ActionCreated, t.ID, uid, username, t.Title)
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT /v1/todos/:id. All form fields are optional; a field
// that is absent keeps its current value while a present empty value is
// applied (and validated). A new image is stored before the old one is
// deleted, so a failed replacement never ends with neither image.
func (h *TodoHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	username, err := getUsername(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	// Existence and ownership are settled before any validation of the
	// new attachment, so a non-owner learns nothing and no blob is
	// uploaded for a doomed request.
	existing, err := h.Todos.GetOwned(ctx, id, uid)
	if err != nil {
		switch err {
		case repository.ErrTodoNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to update this todo"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch todo failed"})
		}
	}

	var patch repository.TodoPatch
	if v, ok := formValue(c, "title"); ok {
		if msg := validateTitle(v); msg != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
		patch.Title = &v
	}
	if v, ok := formValue(c, "description"); ok {
		if msg := validateDescription(v); msg != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
		patch.Description = &v
	}
	if v, ok := formValue(c, "is_completed"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid is_completed"})
		}
		patch.IsCompleted = &b
	}

	// Store the replacement image first; the old one is only deleted
	// once the new upload and the record update have both succeeded.
	var newImage *string
	if fh, err := c.FormFile("image"); err == nil {
		url, err := h.storeUpload(ctx, uid, fh)
		if err != nil {
			if err == storage.ErrInvalidContentType {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload image failed"})
		}
		newImage = &url
		patch.ImageURL = &url
	}

	t, err := h.Todos.Update(ctx, id, uid, patch)
	if err != nil {
		if newImage != nil {
			_ = h.Images.Delete(ctx, *newImage)
		}
		switch err {
		case repository.ErrTodoNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to update this todo"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update todo failed"})
		}
	}

	// The record now points at the new blob; drop the old one. Failure
	// here is logged by the store and ignored: an orphaned blob is a
	// lesser harm than a failed update.
	if newImage != nil && existing.ImageURL != nil {
		_ = h.Images.Delete(ctx, *existing.ImageURL)
	}

	if patch.IsCompleted != nil && *patch.IsCompleted != existing.IsCompleted {
		action := queue.ActionCompleted
		if !*patch.IsCompleted {
			action = queue.ActionReopened
		}
		publishActivity(action, t.ID, uid, username, t.Title)
	}
	return c.JSON(http.StatusOK, t)
}

type statusReq struct {
	IsCompleted *bool `json:"is_completed"`
}

// SetStatus handles PUT /v1/todos/:id/status. The JSON body must carry
// is_completed; the full updated record is returned.
func (h *TodoHandler) SetStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	username, err := getUsername(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil || req.IsCompleted == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_completed required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	before, err := h.Todos.GetOwned(ctx, id, uid)
	if err == nil {
		var t model.Todo
		if t, err = h.Todos.SetStatus(ctx, id, uid, *req.IsCompleted); err == nil {
			if t.IsCompleted != before.IsCompleted {
				action := queue.ActionCompleted
				if !t.IsCompleted {
					action = queue.ActionReopened
				}
				publishActivity(action, t.ID, uid, username, t.Title)
			}
			return c.JSON(http.StatusOK, t)
		}
	}
	switch err {
	case repository.ErrTodoNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to update this todo"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}
}

// Delete handles DELETE /v1/todos/:id. Once ownership is confirmed and
// the row is gone, the attachment is deleted best-effort: a blob store
// failure never resurrects the record.
func (h *TodoHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	username, err := getUsername(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	imageURL, err := h.Todos.DeleteByIDAndOwner(ctx, id, uid)
	if err != nil {
		switch err {
		case repository.ErrTodoNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to delete this todo"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete todo failed"})
		}
	}
	if imageURL != nil {
		_ = h.Images.Delete(ctx, *imageURL)
	}

	publishActivity(queue.ActionDeleted, id, uid, username, "")
	return c.NoContent(http.StatusNoContent)
}
