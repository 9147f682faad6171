package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IndexResponse lists the API's entry points.
type IndexResponse struct {
	Message   string                       `json:"message"`
	Endpoints map[string]map[string]string `json:"endpoints"`
}

var index = IndexResponse{
	Message: "Welcome to BookHive API",
	Endpoints: map[string]map[string]string{
		"users": {
			"all_users": "/users/",
			"register":  "/users/register/",
			"login":     "/users/login/",
			"logout":    "/users/logout/",
			"update":    "/users/update/",
			"delete":    "/users/delete/",
			"reviews":   "/users/<id>/reviews/",
			"activity":  "/users/<id>/activity/",
		},
		"books": {
			"all_books":   "/books/",
			"book_detail": "/books/<id>/",
			"search":      "/books/search/?q=<genre>",
			"create_book": "/books/create/",
			"reviews":     "/books/<id>/reviews/",
		},
		"reviews": {
			"create": "/reviews/",
			"update": "/reviews/<id>/",
			"delete": "/reviews/<id>/delete/",
		},
		"favorites": {
			"get_favorites":   "/users/<id>/favorites/?status=<status>",
			"by_status":       "/users/<id>/reading/<status>/",
			"add_favorite":    "/favorites/add/",
			"update_status":   "/favorites/status/update/",
			"remove_favorite": "/favorites/<user_id>/<book_id>/remove/",
		},
	},
}

func Index(c *gin.Context) {
	c.JSON(http.StatusOK, index)
}
