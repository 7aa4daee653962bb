package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack/internal/database"
)

type CategoriesController struct {
	db *database.Database
}

func NewCategoriesController(db *database.Database) *CategoriesController {
	return &CategoriesController{db: db}
}

// List returns the seeded transaction categories.
// GET /api/categories
func (cc *CategoriesController) List(c *gin.Context) {
	categories, err := cc.db.ListCategories()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}
