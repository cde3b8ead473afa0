package articleControllers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kedaihq/storefront-api/audit"
	"github.com/kedaihq/storefront-api/models"
	"gorm.io/gorm"
)

type ArticleInput struct {
	Title     string `json:"title" binding:"required"`
	Slug      string `json:"slug"`
	Body      string `json:"body"`
	Category  string `json:"category"`
	Published bool   `json:"published"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// GET /articles?category=
func GetPublishedArticles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Where("published = ?", true).Order("created_at desc")
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}

		var articles []models.Article
		if err := query.Find(&articles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch articles"})
			return
		}
		c.JSON(http.StatusOK, articles)
	}
}

// GET /articles/:slug
func GetArticleBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")

		var article models.Article
		if err := db.Where("slug = ? AND published = ?", slug, true).First(&article).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		c.JSON(http.StatusOK, article)
	}
}

// GET /admin/articles
func GetAllArticles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var articles []models.Article
		if err := db.Order("created_at desc").Find(&articles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch articles"})
			return
		}
		c.JSON(http.StatusOK, articles)
	}
}

// POST /admin/articles
func CreateArticle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ArticleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.Slug == "" {
			input.Slug = slugify(input.Title)
		}

		article := models.Article{
			Title:     input.Title,
			Slug:      input.Slug,
			Body:      input.Body,
			Category:  input.Category,
			Published: input.Published,
		}

		if err := db.Create(&article).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create article"})
			return
		}

		audit.Log(db, c.GetString("adminEmail"), "CREATE", "article", article.Slug, article)

		c.JSON(http.StatusCreated, article)
	}
}

// PUT /admin/articles/:id
func UpdateArticle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var article models.Article
		if err := db.First(&article, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}

		var input ArticleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		article.Title = input.Title
		if input.Slug != "" {
			article.Slug = input.Slug
		}
		article.Body = input.Body
		article.Category = input.Category
		article.Published = input.Published

		if err := db.Save(&article).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update article"})
			return
		}

		audit.Log(db, c.GetString("adminEmail"), "UPDATE", "article", article.Slug, article)

		c.JSON(http.StatusOK, article)
	}
}

// DELETE /admin/articles/:id
func DeleteArticle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var article models.Article
		if err := db.First(&article, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}

		if err := db.Delete(&article).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete article"})
			return
		}

		audit.Log(db, c.GetString("adminEmail"), "DELETE", "article", article.Slug, nil)

		c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
	}
}
