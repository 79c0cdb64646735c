package domain

// PageData is the embedded page data contract shared with the dashboard
// frontend (window.INFRAZEN_DATA).
type PageData struct {
	AgentServiceURL  string   `json:"agentServiceUrl"`
	ReportsAPIBase   string   `json:"reportsApiBase"`
	ReportRoles      []string `json:"reportRoles"`
	InitialReports   []Report `json:"initialReports"`
	RecommendationID string   `json:"recommendationId"`
}
