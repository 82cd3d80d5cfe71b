package routes

import (
	"errors"
	"net/http"

	"pdf-insight-nexus/models"
	"pdf-insight-nexus/services"
	"pdf-insight-nexus/utils"

	"github.com/gin-gonic/gin"
)

// SetupChatRoutes registers the LLM-backed collaborator endpoints.
func SetupChatRoutes(router *gin.Engine, chatbot *services.ChatbotService, insights *services.InsightsService, podcast *services.PodcastService) {

	router.POST("/chatbot", func(c *gin.Context) {
		var req models.ChatbotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Query is required", gin.H{"error": err.Error()})
			return
		}

		resp, err := chatbot.Answer(c.Request.Context(), req.Query)
		if err != nil {
			utils.RespondWithBadGateway(c, "Failed to generate answer", gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	})

	router.GET("/summary", func(c *gin.Context) {
		resp, err := chatbot.Summary(c.Request.Context())
		if err != nil {
			if errors.Is(err, services.ErrNoCurrentDocument) {
				utils.RespondWithNotFound(c, "No document has been processed yet")
				return
			}
			utils.RespondWithBadGateway(c, "Failed to generate summary", gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	})

	router.POST("/insights", func(c *gin.Context) {
		var req models.InsightsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Selected text is required", gin.H{"error": err.Error()})
			return
		}

		result, related, err := insights.Generate(c.Request.Context(), req)
		if err != nil {
			utils.RespondWithBadGateway(c, "Failed to generate insights", gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"insights":         result,
			"related_sections": related,
		})
	})

	router.POST("/podcast", func(c *gin.Context) {
		var req models.PodcastRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Insights payload is required", gin.H{"error": err.Error()})
			return
		}

		resp, err := podcast.Generate(c.Request.Context(), req)
		if err != nil {
			utils.RespondWithBadGateway(c, "Failed to generate podcast", gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	})
}
