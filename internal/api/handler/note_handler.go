package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/drowwn/weNote/internal/core/domain"
	"github.com/drowwn/weNote/internal/core/ports"
)

// NoteHandler handles HTTP requests for notes and their sharing.
type NoteHandler struct {
	service ports.NoteService
}

func NewNoteHandler(service ports.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// List returns every note the caller has access to.
//
// @Summary      List my notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Note
// @Failure      401  {object}  errorResponse
// @Router       /notes [get]
func (h *NoteHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	notes, err := h.service.ListNotes(c.Request().Context(), userID)
	if err != nil {
		return fail(err)
	}
	if notes == nil {
		notes = []*domain.Note{}
	}
	return c.JSON(http.StatusOK, notes)
}

// Create stores a new note owned by the caller.
//
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      noteRequest  true  "Note"
// @Success      201   {object}  domain.Note
// @Failure      400   {object}  errorResponse
// @Router       /notes [post]
func (h *NoteHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	note, err := h.service.CreateNote(c.Request().Context(), toCreateNoteInput(req, userID))
	if err != nil {
		return fail(err)
	}
	c.Response().Header().Set(echo.HeaderLocation, "/notes/"+note.ID)
	return c.JSON(http.StatusCreated, note)
}

// Get returns one note.
//
// @Summary      Get a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note id"
// @Success      200  {object}  domain.Note
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /notes/{id} [get]
func (h *NoteHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	note, err := h.service.GetNote(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, note)
}

// Update persists an edit to a note.
//
// @Summary      Update a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Note id"
// @Param        body  body      noteRequest  true  "Note"
// @Success      200   {object}  domain.Note
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /notes/{id} [put]
func (h *NoteHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	note, err := h.service.UpdateNote(c.Request().Context(), c.Param("id"), userID, toNoteUpdate(req))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, note)
}

// Delete removes the caller from the note's access list. The note itself is
// deleted once nobody has access any more.
//
// @Summary      Delete my copy of a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note id"
// @Success      200  {object}  deleteNoteResponse
// @Failure      404  {object}  errorResponse
// @Router       /notes/{id} [delete]
func (h *NoteHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	outcome, _, err := h.service.RevokeAccess(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, deleteNoteResponse{Deleted: outcome == domain.RevokeDeleted})
}

// Share grants another user access to the note.
//
// @Summary      Share a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Note id"
// @Param        body  body      shareRequest  true  "User to invite"
// @Success      200   {object}  domain.Note
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /notes/{id}/share [post]
func (h *NoteHandler) Share(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req shareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	note, err := h.service.GrantAccess(c.Request().Context(), c.Param("id"), userID, req.UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, note)
}

// Collaborators lists the users with access to the note.
//
// @Summary      List collaborators
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note id"
// @Success      200  {array}   domain.UserSummary
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /notes/{id}/collaborators [get]
func (h *NoteHandler) Collaborators(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	members, err := h.service.ListMembers(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, members)
}
