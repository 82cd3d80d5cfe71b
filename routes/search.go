package routes

import (
	"errors"
	"net/http"

	"pdf-insight-nexus/models"
	"pdf-insight-nexus/services"
	"pdf-insight-nexus/utils"

	"github.com/gin-gonic/gin"
)

// SetupSearchRoutes registers the relevance search endpoint.
func SetupSearchRoutes(router *gin.Engine, engine *services.SearchEngine) {
	router.POST("/search", func(c *gin.Context) {
		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "no_text_provided", "No text provided", gin.H{"error": err.Error()})
			return
		}

		results, mode, err := engine.Search(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, services.ErrEmptyQuery) {
				utils.RespondWithError(c, http.StatusBadRequest, "no_text_provided", "No text provided", nil)
				return
			}
			utils.RespondWithInternalError(c, "Search failed", gin.H{"error": err.Error()})
			return
		}
		if results == nil {
			results = []models.DocumentResult{}
		}

		c.JSON(http.StatusOK, gin.H{
			"results": results,
			"mode":    mode,
		})
	})
}
