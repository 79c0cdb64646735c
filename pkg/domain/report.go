package domain

import "time"

type ReportStatus string

const (
	ReportStatusInProgress ReportStatus = "in_progress"
	ReportStatusReady      ReportStatus = "ready"
	ReportStatusFailed     ReportStatus = "failed"
)

type Report struct {
	ID        string       `json:"id"`
	Role      string       `json:"role"`
	Title     string       `json:"title"`
	Status    ReportStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	Content   string       `json:"content,omitempty"`
}
