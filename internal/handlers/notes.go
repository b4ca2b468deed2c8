package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/muhzarfan/backend-cttn/internal/auth"
	"github.com/muhzarfan/backend-cttn/internal/dto"
	"github.com/muhzarfan/backend-cttn/internal/service"
)

// NoteHandler handles the note CRUD, list and stats endpoints. Every route
// here sits behind RequireAuth, so an identity is always attached.
type NoteHandler struct {
	svc *service.NoteService
}

func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{svc: svc}
}

// List godoc
// @Summary      List the caller's notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        page       query  int     false  "1-indexed page"      default(1)
// @Param        limit      query  int     false  "items per page"      default(10)
// @Param        search     query  string  false  "substring match over title/content/tags"
// @Param        sortBy     query  string  false  "createdAt | updatedAt | title"
// @Param        sortOrder  query  string  false  "asc | desc"
// @Success      200  {object}  dto.Envelope
// @Failure      500  {object}  dto.Envelope
// @Router       /notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.svc.List(c.Request.Context(), user.ID, service.ListOptions{
		Page:      page,
		Limit:     limit,
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sortBy", "createdAt"),
		SortOrder: c.DefaultQuery("sortOrder", "desc"),
	})
	if err != nil {
		log.Printf("list notes: %v", err)
		c.JSON(http.StatusInternalServerError, dto.Fail("Server error while fetching notes"))
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.PageToData(result)))
}

// Get godoc
// @Summary      Get a note by ID
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note ID"
// @Success      200  {object}  dto.Envelope
// @Failure      400  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Failure      500  {object}  dto.Envelope
// @Router       /notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := parseNoteID(c)
	if !ok {
		return
	}
	user, _ := auth.CurrentUser(c)
	n, err := h.svc.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		h.writeNoteError(c, err, "Server error while fetching note")
		return
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{"note": dto.NoteToResponse(n)}))
}

// Create godoc
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.NoteRequest  true  "Note body"
// @Success      201   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      500   {object}  dto.Envelope
// @Router       /notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request body"))
		return
	}
	user, _ := auth.CurrentUser(c)
	n, err := h.svc.Create(c.Request.Context(), user, req.Title, req.Content, req.Tags)
	if err != nil {
		h.writeNoteError(c, err, "Server error while creating note")
		return
	}
	c.JSON(http.StatusCreated, dto.OKMessage("Note created successfully", gin.H{"note": dto.NoteToResponse(n)}))
}

// Update godoc
// @Summary      Replace a note's title, content and tags
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Note ID"
// @Param        body  body      dto.NoteRequest  true  "Replacement body"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Failure      500   {object}  dto.Envelope
// @Router       /notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := parseNoteID(c)
	if !ok {
		return
	}
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request body"))
		return
	}
	user, _ := auth.CurrentUser(c)
	n, err := h.svc.Update(c.Request.Context(), user.ID, id, req.Title, req.Content, req.Tags)
	if err != nil {
		h.writeNoteError(c, err, "Server error while updating note")
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("Note updated successfully", gin.H{"note": dto.NoteToResponse(n)}))
}

// Delete godoc
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note ID"
// @Success      200  {object}  dto.Envelope
// @Failure      400  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Failure      500  {object}  dto.Envelope
// @Router       /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := parseNoteID(c)
	if !ok {
		return
	}
	user, _ := auth.CurrentUser(c)
	if err := h.svc.Delete(c.Request.Context(), user.ID, id); err != nil {
		h.writeNoteError(c, err, "Server error while deleting note")
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("Note deleted successfully", nil))
}

// Stats godoc
// @Summary      Aggregate statistics over the caller's notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.Envelope
// @Failure      500  {object}  dto.Envelope
// @Router       /notes/stats [get]
func (h *NoteHandler) Stats(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	stats, err := h.svc.Stats(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("note stats: %v", err)
		c.JSON(http.StatusInternalServerError, dto.Fail("Server error while fetching notes statistics"))
		return
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{"stats": dto.StatsToResponse(stats)}))
}

func parseNoteID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid note ID format"))
		return uuid.Nil, false
	}
	return id, true
}

// writeNoteError translates NoteService errors. "Note not found" covers both
// a missing note and one owned by someone else.
func (h *NoteHandler) writeNoteError(c *gin.Context, err error, internalMsg string) {
	if ve, ok := service.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, dto.FailFields("Validation error", ve.Fields))
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.Fail("Note not found"))
		return
	}
	log.Printf("note: %v", err)
	c.JSON(http.StatusInternalServerError, dto.Fail(internalMsg))
}
