package http

import "github.com/gin-gonic/gin"

// Register wires all REST routes onto router.
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.GET("/entries", h.ListEntries)
		api.POST("/entries", h.CreateEntry)
		api.GET("/entries/:uuid", h.GetEntry)
		api.POST("/entries/:uuid/star", h.ToggleStar)
		api.POST("/entries/:uuid/touch", h.TouchEntry)

		api.GET("/prediction", h.Prediction)
		api.GET("/clusters", h.Clusters)

		api.POST("/workflows/execute", h.ExecuteWorkflow)
		api.GET("/stats", h.Stats)

		api.GET("/clipboard/current", h.ClipboardCurrent)

		api.GET("/blueprints", h.ListBlueprints)
		api.GET("/blueprints/:name", h.GetBlueprint)
		api.POST("/blueprints/:name", h.RegisterBlueprint)
		api.POST("/blueprints/:name/evolve", h.EvolveBlueprint)
		api.GET("/blueprints/:name/latest", h.LatestBlueprint)
		api.GET("/blueprints/:name/generations", h.ListGenerations)
		api.GET("/blueprints/:name/generations/:gen", h.GetGeneration)
		api.GET("/blueprints/:name/compare", h.CompareGenerations)
	}
}
