package controllers

import (
	"healthassistant/internal/knowledge"
	"net/http"

	"github.com/gin-gonic/gin"
)

// KnowledgeSource exposes the loaded reference documents.
type KnowledgeSource interface {
	Document(category knowledge.Category) (any, error)
	Version(category knowledge.Category) (string, error)
}

type KnowledgeController struct {
	source KnowledgeSource
}

func NewKnowledgeController(source KnowledgeSource) *KnowledgeController {
	return &KnowledgeController{source: source}
}

// ListKnowledge godoc
// @Summary List knowledge documents
// @Description List the loaded knowledge categories and their versions
// @Tags knowledge
// @Produce json
// @Success 200 {object} map[string]interface{} "Knowledge documents retrieved successfully"
// @Router /knowledge [get]
func (kc *KnowledgeController) ListKnowledge(c *gin.Context) {
	versions := make(map[knowledge.Category]string, len(knowledge.Categories))
	for _, category := range knowledge.Categories {
		if version, err := kc.source.Version(category); err == nil {
			versions[category] = version
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Knowledge documents retrieved successfully",
		"data":    versions,
	})
}

// GetKnowledge godoc
// @Summary Get knowledge document
// @Description Return the reference document of one category (sleep, diet or chronic)
// @Tags knowledge
// @Produce json
// @Param category path string true "Knowledge category"
// @Success 200 {object} map[string]interface{} "Knowledge document retrieved successfully"
// @Failure 404 {object} map[string]interface{} "Knowledge document not found"
// @Router /knowledge/{category} [get]
func (kc *KnowledgeController) GetKnowledge(c *gin.Context) {
	category := knowledge.Category(c.Param("category"))

	doc, err := kc.source.Document(category)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Knowledge document not found",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Knowledge document retrieved successfully",
		"data":    doc,
	})
}
