package report

import (
	"time"

	"github.com/google/uuid"
)

// ReportRequest holds the query of GET /reports/:type
type ReportRequest struct {
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	BranchID *uuid.UUID `form:"branch_id,parser=encoding.TextUnmarshaler"`
	UserID   *uuid.UUID `form:"user_id,parser=encoding.TextUnmarshaler"`
}

// ExportResult is a rendered report file
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}
