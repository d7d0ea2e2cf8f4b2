package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/blindermanupwork/property-management-automation-sub007/core/storage"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/reconcile"
	ordersync "github.com/blindermanupwork/property-management-automation-sub007/feature/workorder/sync"
)

// RunError is one collected record-level failure. Record-level errors never
// abort a batch; they are reported here instead.
type RunError struct {
	// Stage names the pipeline stage that failed (normalize, flags, sync).
	Stage string `json:"stage"`
	// Ref identifies the record: a uid when one exists, else a row number.
	Ref string `json:"ref"`
	// Message is the error text.
	Message string `json:"message"`
}

// RunReport is the per-run summary archived for audit and surfaced to
// operators.
type RunReport struct {
	RunID       string       `json:"run_id"`
	Environment string       `json:"environment"`
	Scope       models.Scope `json:"scope"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	DryRun      bool         `json:"dry_run"`

	Summary reconcile.Summary `json:"summary"`
	Written int               `json:"written"`

	// Outcomes maps reservation uid to its sync outcome.
	Outcomes map[string]ordersync.Outcome `json:"outcomes,omitempty"`
	// SyncCounts aggregates outcomes by status.
	SyncCounts map[string]int `json:"sync_counts,omitempty"`

	Errors []RunError `json:"errors,omitempty"`
}

func (r *RunReport) addError(stage, ref string, err error) {
	r.Errors = append(r.Errors, RunError{Stage: stage, Ref: ref, Message: err.Error()})
}

// objectName places run artifacts under runs/{env}/{source}/{run id}.
func (r *RunReport) objectName(kind string) string {
	return fmt.Sprintf("runs/%s/%s/%s/%s.json", r.Environment, r.Scope.Source, r.RunID, kind)
}

// archiveJSON writes one JSON artifact to the archive bucket.
func archiveJSON(ctx context.Context, client storage.Client, bucket, objectName string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("automation: marshal %s: %w", objectName, err)
	}
	_, err = client.PutObject(ctx, bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("automation: archive %s: %w", objectName, err)
	}
	return nil
}
