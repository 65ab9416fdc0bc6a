package internal

import (
	"net/http"

	"pad/internal/controllers"
	"pad/internal/providers"
	"pad/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/rows", http.HandlerFunc(apiController.ReceiveRows))
	routers.Get("/aggregates", http.HandlerFunc(apiController.GetAggregates))
	routers.Get("/live", http.HandlerFunc(apiController.GetLive))
	routers.Get("/insights", http.HandlerFunc(apiController.GetInsights))
	routers.Get("/export/report", http.HandlerFunc(apiController.ExportReport))
	routers.Get("/export/usernames", http.HandlerFunc(apiController.ExportUsernames))
	routers.Get("/marks", http.HandlerFunc(apiController.GetMarks))
	routers.Post("/marks/import", http.HandlerFunc(apiController.ImportMarks))
	routers.Get("/watchlist", http.HandlerFunc(apiController.GetWatchlist))
	routers.Post("/watchlist/import", http.HandlerFunc(apiController.ReceiveWatchlist))
	routers.Post("/refresh", http.HandlerFunc(apiController.TriggerRefresh))
	return routers
}
