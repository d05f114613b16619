package models

import "time"

// -----------------------------------------------------------------------------
// Derived report rows (input to the template pipeline)
// -----------------------------------------------------------------------------

// MReportRow is one derived row of the embedded report table. Field order
// mirrors the declared column schema exactly; see pbit.FinanceColumns.
// Missing numeric values are carried as NaN and rendered as blanks.
type MReportRow struct {
	Date       time.Time `json:"date"`
	Open       float64   `json:"open"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	Close      float64   `json:"close"`
	Volume     int64     `json:"volume"`
	ChangePerc float64   `json:"change_perc"`
	Volatility float64   `json:"volatility"`
	IsAnomaly  bool      `json:"is_anomaly"`
	Ticker     string    `json:"ticker"`
}

// -----------------------------------------------------------------------------
// Report metadata (narrative + chart descriptors)
// -----------------------------------------------------------------------------

// MChartSpec describes one visual placed on the report page.
type MChartSpec struct {
	Type   string `json:"type"` // "line", "bar", "card", "textbox"
	Name   string `json:"name"`
	Column string `json:"column"` // bound column, empty for textbox
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MReportMeta carries the narrative text and visual selection for one report.
type MReportMeta struct {
	Title     string       `json:"title"`
	Narrative string       `json:"narrative"`
	Charts    []MChartSpec `json:"charts"`
}

// -----------------------------------------------------------------------------
// Persisted run history
// -----------------------------------------------------------------------------

// MReportRun is the stored record of one generation call.
type MReportRun struct {
	ID          string    `json:"id"`
	Ticker      string    `json:"ticker"`
	Query       string    `json:"query"`
	Rows        int       `json:"rows"`
	Anomalies   int       `json:"anomalies"`
	Narrative   string    `json:"narrative"`
	ArchiveSize int       `json:"archive_size"`
	Status      string    `json:"status"` // "success" or "error"
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// -----------------------------------------------------------------------------
// Server state / websocket payloads
// -----------------------------------------------------------------------------

// MLatestReport is the state pushed to websocket dashboards.
type MLatestReport struct {
	Type      string     `json:"type"` // INITIAL, RUN_STARTED, RUN_COMPLETED, RUN_FAILED or UPDATE
	Run       MReportRun `json:"run"`
	Timestamp int64      `json:"timestamp"`
}

// MGenerateRequest is the body of POST /api/generate.
type MGenerateRequest struct {
	Query string `json:"query"`
	Days  int    `json:"days,omitempty"`
}

// MGenerateResponse is the success body of POST /api/generate.
type MGenerateResponse struct {
	Status     string `json:"status"`
	Ticker     string `json:"ticker"`
	Narrative  string `json:"narrative"`
	Filename   string `json:"filename"`
	PbitBase64 string `json:"pbit_base64"`
}
