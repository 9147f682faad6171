package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookhive/internal/entities"
	"github.com/mrlokans/bookhive/internal/reading"
)

type FavoritesController struct {
	reading ReadingService
	log     *zap.Logger
}

func NewFavoritesController(reading ReadingService, log *zap.Logger) *FavoritesController {
	return &FavoritesController{
		reading: reading,
		log:     log,
	}
}

type addFavoriteRequest struct {
	UserID        uint   `json:"user_id"`
	BookID        uint   `json:"book_id" validate:"required"`
	ReadingStatus string `json:"reading_status"`
}

type updateStatusRequest struct {
	UserID        uint   `json:"user_id"`
	BookID        uint   `json:"book_id" validate:"required"`
	ReadingStatus string `json:"reading_status" validate:"required"`
}

// ListByUser returns a user's books, filtered by ?status= when given.
func (fc *FavoritesController) ListByUser(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	status, err := reading.ParseStatus(c.Query("status"), "")
	if err != nil {
		respondError(c, fc.log, err)
		return
	}

	list, err := fc.reading.ListByUser(c.Request.Context(), userID, status)
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (fc *FavoritesController) ListByStatus(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	status, ok := entities.ParseReadingStatus(c.Param("status"))
	if !ok {
		respondError(c, fc.log, reading.ErrInvalidStatus)
		return
	}

	list, err := fc.reading.ListByStatus(c.Request.Context(), userID, status)
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (fc *FavoritesController) Add(c *gin.Context) {
	var req addFavoriteRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, fc.log, err)
		return
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	status, err := reading.ParseStatus(req.ReadingStatus, entities.WantToRead)
	if err != nil {
		respondError(c, fc.log, err)
		return
	}

	fav, err := fc.reading.AddFavorite(c.Request.Context(), userID, req.BookID, status)
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	c.JSON(http.StatusCreated, fav)
}

func (fc *FavoritesController) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, fc.log, err)
		return
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	status, err := reading.ParseStatus(req.ReadingStatus, "")
	if err != nil {
		respondError(c, fc.log, err)
		return
	}

	fav, err := fc.reading.UpdateStatus(c.Request.Context(), userID, req.BookID, status)
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	c.JSON(http.StatusOK, fav)
}

// Remove deletes the pair named in the path. A logged-in user may only remove their own.
func (fc *FavoritesController) Remove(c *gin.Context) {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	bookID, err := parseIDParam(c, "book_id")
	if err != nil {
		respondError(c, fc.log, err)
		return
	}
	if err := requireSelf(c, userID); err != nil {
		respondError(c, fc.log, err)
		return
	}

	if err := fc.reading.RemoveFavorite(c.Request.Context(), userID, bookID); err != nil {
		respondError(c, fc.log, err)
		return
	}
	respondMessage(c, "Book removed from favorites")
}
