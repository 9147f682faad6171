package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookhive/internal/catalog"
)

type BooksController struct {
	catalog CatalogService
	log     *zap.Logger
}

func NewBooksController(catalog CatalogService, log *zap.Logger) *BooksController {
	return &BooksController{
		catalog: catalog,
		log:     log,
	}
}

type createBookRequest struct {
	UserID uint `json:"user_id"`
	catalog.BookInput
}

func (bc *BooksController) List(c *gin.Context) {
	books, err := bc.catalog.ListBooks(c.Request.Context())
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// Detail returns the book together with its reviews.
func (bc *BooksController) Detail(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	detail, err := bc.catalog.GetBookDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Search matches ?q= against the genre.
func (bc *BooksController) Search(c *gin.Context) {
	books, err := bc.catalog.SearchBooks(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// Create adds a book. Input is validated by the catalog after the
// librarian check so that non-librarians always get 403.
func (bc *BooksController) Create(c *gin.Context) {
	var req createBookRequest
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, bc.log, err)
		return
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}

	book, err := bc.catalog.CreateBook(c.Request.Context(), userID, req.BookInput)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}
