// -----------------------------------------------------------------------
// Last Modified: Tuesday, 18th August 2026 2:31:47 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket endpoint for live score, GFR, summary and log events
	mux.HandleFunc("/ws/events", s.app.WSHandler.HandleWebSocket)

	// Score routes; the exact summary pattern wins over the item subtree
	mux.HandleFunc("/api/scores", s.handleScoresRoute) // GET (list), POST (create)
	mux.HandleFunc("/api/scores/summary", s.app.ScoreHandler.ScoreSummaryHandler)
	mux.HandleFunc("/api/scores/", s.handleScoreItemRoute) // GET (fetch), DELETE (remove)

	// GFR routes
	mux.HandleFunc("/api/gfr", s.handleGFRRoute) // GET (list), POST (create)

	// Education routes
	mux.HandleFunc("/api/education", s.app.EducationHandler.ListTopicsHandler)
	mux.HandleFunc("/api/education/", s.app.EducationHandler.GetTopicHandler)

	// Report routes
	mux.HandleFunc("/api/reports/scores", s.app.ReportHandler.ScoreReportHandler)

	// Service routes
	mux.HandleFunc("/api/status", s.app.APIHandler.StatusHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// Catch-all for unknown API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleScoresRoute routes /api/scores requests (list and create)
func (s *Server) handleScoresRoute(w http.ResponseWriter, r *http.Request) {
	RouteResourceCollection(w, r, s.app.ScoreHandler.ListScoresHandler, s.app.ScoreHandler.SubmitScoreHandler)
}

// handleScoreItemRoute routes /api/scores/{id} requests (fetch and remove)
func (s *Server) handleScoreItemRoute(w http.ResponseWriter, r *http.Request) {
	RouteResourceItem(w, r, s.app.ScoreHandler.GetScoreHandler, s.app.ScoreHandler.DeleteScoreHandler)
}

// handleGFRRoute routes /api/gfr requests (list and create)
func (s *Server) handleGFRRoute(w http.ResponseWriter, r *http.Request) {
	RouteResourceCollection(w, r, s.app.GFRHandler.ListGFRHandler, s.app.GFRHandler.EstimateGFRHandler)
}
