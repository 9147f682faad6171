package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookhive/internal/reviews"
)

type ReviewsController struct {
	reviews ReviewService
	log     *zap.Logger
}

func NewReviewsController(reviews ReviewService, log *zap.Logger) *ReviewsController {
	return &ReviewsController{
		reviews: reviews,
		log:     log,
	}
}

type createReviewRequest struct {
	UserID     uint   `json:"user_id"`
	BookID     uint   `json:"book_id" validate:"required"`
	Rating     *int   `json:"rating" validate:"required"`
	ReviewText string `json:"review_text"`
}

type updateReviewRequest struct {
	UserID     uint    `json:"user_id"`
	Rating     *int    `json:"rating"`
	ReviewText *string `json:"review_text"`
}

type deleteReviewRequest struct {
	UserID uint `json:"user_id"`
}

func (rc *ReviewsController) ListByBook(c *gin.Context) {
	bookID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	list, err := rc.reviews.ListByBook(c.Request.Context(), bookID)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (rc *ReviewsController) ListByUser(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	list, err := rc.reviews.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (rc *ReviewsController) Create(c *gin.Context) {
	var req createReviewRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, rc.log, err)
		return
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}

	review, err := rc.reviews.Create(c.Request.Context(), userID, req.BookID, *req.Rating, req.ReviewText)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (rc *ReviewsController) Update(c *gin.Context) {
	reviewID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	var req updateReviewRequest
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, rc.log, err)
		return
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}

	review, err := rc.reviews.Update(c.Request.Context(), reviewID, userID, reviews.Patch{
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (rc *ReviewsController) Delete(c *gin.Context) {
	reviewID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	var req deleteReviewRequest
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, rc.log, err)
		return
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}

	if err := rc.reviews.Delete(c.Request.Context(), reviewID, userID); err != nil {
		respondError(c, rc.log, err)
		return
	}
	respondMessage(c, "Review deleted successfully")
}
