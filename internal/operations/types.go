package operations

import (
	"time"
)

// Pipeline stage identifiers
const (
	StageIDClean   = "clean"
	StageIDSegment = "segment"
	StageIDProfile = "profile"
	StageIDKPI     = "kpi"
	StageIDPredict = "predict"
	StageIDExport  = "export"
)

// Pipeline stage names
const (
	StageNameClean   = "Data Cleaning"
	StageNameSegment = "Segmentation"
	StageNameProfile = "Cluster Profiling"
	StageNameKPI     = "KPI Computation"
	StageNamePredict = "Risk Modelling"
	StageNameExport  = "Report Export"
)

// WebSocket event types, matching the dashboard client's handlers
const (
	EventTypeOperationStatus   = "operation:status"
	EventTypeOperationProgress = "operation:progress"
	EventTypeOperationComplete = "operation:complete"
	EventTypeOperationError    = "operation:error"
)

// OperationRequest asks the manager to run the pipeline or one stage of it.
type OperationRequest struct {
	ID         string                 `json:"id"`
	Stage      string                 `json:"stage,omitempty"` // empty means full pipeline
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// OperationResponse reports the outcome of an operation execution.
type OperationResponse struct {
	ID       string                 `json:"id"`
	Status   OperationStatus        `json:"status"`
	Duration time.Duration          `json:"duration"`
	Stages   map[string]*StageState `json:"stages"`
	Error    string                 `json:"error,omitempty"`
}

// ProgressUpdate is one progress event from a running stage.
type ProgressUpdate struct {
	OperationID string  `json:"operation_id"`
	StageID     string  `json:"stage_id"`
	Progress    float64 `json:"progress"`
	Message     string  `json:"message"`
}
