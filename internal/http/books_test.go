package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/bookhive/internal/catalog"
	"github.com/mrlokans/bookhive/internal/entities"
	"github.com/mrlokans/bookhive/internal/errs"
	mock_http "github.com/mrlokans/bookhive/internal/http/mocks"
)

func newBooksRouter(svc CatalogService, sessionUser uint) *gin.Engine {
	bc := NewBooksController(svc, zap.NewNop())
	router := gin.New()
	if sessionUser != 0 {
		router.Use(withSessionUser(sessionUser))
	}
	router.GET("/books/", bc.List)
	router.GET("/books/search/", bc.Search)
	router.POST("/books/create/", bc.Create)
	router.GET("/books/:id/", bc.Detail)
	return router
}

func TestBooksController_List(t *testing.T) {
	type mockBehavior func(s *mock_http.MockCatalogService)

	tests := []struct {
		name         string
		mockBehavior mockBehavior
		expectedCode int
		expectedLen  int
	}{
		{
			name: "ok",
			mockBehavior: func(s *mock_http.MockCatalogService) {
				s.EXPECT().ListBooks(gomock.Any()).Return([]entities.Book{
					{ID: 1, Title: "1984", Genre: "FICTION"},
					{ID: 2, Title: "Pride and Prejudice", Genre: "FICTION"},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  2,
		},
		{
			name: "err. internal",
			mockBehavior: func(s *mock_http.MockCatalogService) {
				s.EXPECT().ListBooks(gomock.Any()).Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := gomock.NewController(t)
			defer c.Finish()
			svc := mock_http.NewMockCatalogService(c)
			tt.mockBehavior(svc)

			w := performRequest(newBooksRouter(svc, 0), http.MethodGet, "/books/", "")

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var books []entities.Book
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
				assert.Len(t, books, tt.expectedLen)
			} else {
				assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
			}
		})
	}
}

func TestBooksController_Detail(t *testing.T) {
	type mockBehavior func(s *mock_http.MockCatalogService)

	tests := []struct {
		name         string
		path         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			path: "/books/1/",
			mockBehavior: func(s *mock_http.MockCatalogService) {
				s.EXPECT().GetBookDetail(gomock.Any(), uint(1)).Return(&catalog.BookDetail{
					Book:    entities.Book{ID: 1, Title: "1984"},
					Reviews: []entities.Review{{ID: 4, BookID: 1, Rating: 5}},
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "err. not found",
			path: "/books/99/",
			mockBehavior: func(s *mock_http.MockCatalogService) {
				s.EXPECT().GetBookDetail(gomock.Any(), uint(99)).Return(nil, errs.New(errs.NotFound, "book not found"))
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"book not found"}`,
		},
		{
			name:         "err. bad id",
			path:         "/books/abc/",
			mockBehavior: func(s *mock_http.MockCatalogService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"invalid id"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := gomock.NewController(t)
			defer c.Finish()
			svc := mock_http.NewMockCatalogService(c)
			tt.mockBehavior(svc)

			w := performRequest(newBooksRouter(svc, 0), http.MethodGet, tt.path, "")

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
				return
			}
			var detail catalog.BookDetail
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
			assert.Equal(t, "1984", detail.Book.Title)
			assert.Len(t, detail.Reviews, 1)
		})
	}
}

func TestBooksController_Search(t *testing.T) {
	c := gomock.NewController(t)
	defer c.Finish()
	svc := mock_http.NewMockCatalogService(c)
	svc.EXPECT().SearchBooks(gomock.Any(), "fict").Return([]entities.Book{{ID: 1, Genre: "FICTION"}}, nil)

	w := performRequest(newBooksRouter(svc, 0), http.MethodGet, "/books/search/?q=fict", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var books []entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	assert.Len(t, books, 1)
}

func TestBooksController_Create(t *testing.T) {
	copies := 3
	input := catalog.BookInput{
		Title:           "Dune",
		Author:          "Frank Herbert",
		Genre:           "SCIENCE_FICTION",
		PublishedDate:   "1965-08-01",
		AvailableCopies: &copies,
	}
	const body = `{"user_id":2,"title":"Dune","author":"Frank Herbert","genre":"SCIENCE_FICTION","published_date":"1965-08-01","available_copies":3}`

	type mockBehavior func(s *mock_http.MockCatalogService)

	tests := []struct {
		name         string
		body         string
		sessionUser  uint
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			body: body,
			mockBehavior: func(s *mock_http.MockCatalogService) {
				s.EXPECT().CreateBook(gomock.Any(), uint(2), input).Return(&entities.Book{ID: 10, Title: "Dune"}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:        "session user is the requester",
			body:        body,
			sessionUser: 7,
			mockBehavior: func(s *mock_http.MockCatalogService) {
				s.EXPECT().CreateBook(gomock.Any(), uint(7), input).Return(&entities.Book{ID: 10, Title: "Dune"}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "err. not a librarian",
			body: `{"user_id":2,"title":""}`,
			mockBehavior: func(s *mock_http.MockCatalogService) {
				s.EXPECT().CreateBook(gomock.Any(), uint(2), catalog.BookInput{}).
					Return(nil, errs.New(errs.Forbidden, "only librarians can add books"))
			},
			expectedCode: http.StatusForbidden,
			expectedBody: `{"error":"only librarians can add books"}`,
		},
		{
			name:         "err. missing user",
			body:         `{"title":"Dune"}`,
			mockBehavior: func(s *mock_http.MockCatalogService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"user_id is required"}`,
		},
		{
			name:         "err. malformed body",
			body:         `{"user_id":`,
			mockBehavior: func(s *mock_http.MockCatalogService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"invalid request body"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := gomock.NewController(t)
			defer c.Finish()
			svc := mock_http.NewMockCatalogService(c)
			tt.mockBehavior(svc)

			w := performRequest(newBooksRouter(svc, tt.sessionUser), http.MethodPost, "/books/create/", tt.body)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}
