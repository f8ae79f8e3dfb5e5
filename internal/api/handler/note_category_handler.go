package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/drowwn/weNote/internal/core/domain"
	"github.com/drowwn/weNote/internal/core/ports"
)

// NoteCategoryHandler serves the /notecat link endpoints.
type NoteCategoryHandler struct {
	service ports.NoteCategoryService
}

func NewNoteCategoryHandler(service ports.NoteCategoryService) *NoteCategoryHandler {
	return &NoteCategoryHandler{service: service}
}

// Create handles POST /notecat.
//
// @Summary      Link a note to a category
// @Tags         notecat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      noteCategoryRequest  true  "Link"
// @Success      201   {object}  domain.NoteCategory
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /notecat [post]
func (h *NoteCategoryHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req noteCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	link, err := h.service.Link(c.Request().Context(), userID, req.NoteID, req.CategoryID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, link)
}

// ListByNote handles GET /notecat/note/:noteId.
//
// @Summary      Categories of a note
// @Tags         notecat
// @Produce      json
// @Security     BearerAuth
// @Param        noteId  path      string  true  "Note id"
// @Success      200     {array}   domain.NoteCategory
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /notecat/note/{noteId} [get]
func (h *NoteCategoryHandler) ListByNote(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	links, err := h.service.ListByNote(c.Request().Context(), userID, c.Param("noteId"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, orEmpty(links))
}

// Get handles GET /notecat/note/:noteId/category/:categoryId.
//
// @Summary      Get one note category link
// @Tags         notecat
// @Produce      json
// @Security     BearerAuth
// @Param        noteId      path      string  true  "Note id"
// @Param        categoryId  path      string  true  "Category id"
// @Success      200         {object}  domain.NoteCategory
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /notecat/note/{noteId}/category/{categoryId} [get]
func (h *NoteCategoryHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	link, err := h.service.Get(c.Request().Context(), userID, c.Param("noteId"), c.Param("categoryId"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, link)
}

// ListByCategory handles GET /notecat/category/:categoryId.
//
// @Summary      Notes in a category
// @Tags         notecat
// @Produce      json
// @Security     BearerAuth
// @Param        categoryId  path      string  true  "Category id"
// @Success      200         {array}   domain.NoteCategory
// @Failure      404         {object}  errorResponse
// @Router       /notecat/category/{categoryId} [get]
func (h *NoteCategoryHandler) ListByCategory(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	links, err := h.service.ListByCategory(c.Request().Context(), userID, c.Param("categoryId"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, orEmpty(links))
}

// Delete handles DELETE /notecat/:id.
//
// @Summary      Unlink a note from a category
// @Tags         notecat
// @Security     BearerAuth
// @Param        id   path  string  true  "Link id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /notecat/{id} [delete]
func (h *NoteCategoryHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.Unlink(c.Request().Context(), userID, c.Param("id")); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func orEmpty(links []*domain.NoteCategory) []*domain.NoteCategory {
	if links == nil {
		return []*domain.NoteCategory{}
	}
	return links
}
