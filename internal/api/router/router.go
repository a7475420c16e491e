package router

import (
	"resume-analyzer-go/internal/api/handler"

	"github.com/cloudwego/hertz/pkg/app/server"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, candidateHandler *handler.CandidateHandler) {
	api := h.Group("/api/v1")

	api.GET("/health", candidateHandler.HandleHealth)

	candidates := api.Group("/candidates")
	candidates.POST("/upload", candidateHandler.HandleUpload)
	candidates.POST("/search", candidateHandler.HandleSearch)
	candidates.GET("/analytics", candidateHandler.HandleAnalytics)
	candidates.POST("/reset", candidateHandler.HandleReset)
	candidates.GET("/:id", candidateHandler.HandleGetCandidate)
}
