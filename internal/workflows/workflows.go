package workflows

import (
	"time"

	"origincheck/internal/activities"
	"origincheck/internal/detect"
	"origincheck/internal/models"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	QueryGetCheckProgress = "GetCheckProgress"
)

// CheckWorkflow drives one plagiarism check end to end. Any activity failure
// marks the check failed and returns "failed" rather than failing the
// workflow, so the stored row is always the source of truth.
func CheckWorkflow(ctx workflow.Context, input CheckInput) (string, error) {
	progress := CheckProgress{CheckID: input.CheckID, DocumentID: input.DocumentID, Stage: "pending"}
	if err := workflow.SetQueryHandler(ctx, QueryGetCheckProgress, func() (CheckProgress, error) {
		return progress, nil
	}); err != nil {
		return "", err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	started := workflow.Now(ctx)
	elapsed := func() float64 { return workflow.Now(ctx).Sub(started).Seconds() }

	fail := func(stage string, err error) (string, error) {
		progress.Stage = "failed"
		progress.Error = err.Error()
		_ = workflow.ExecuteActivity(ctx, "FailCheckActivity", activities.FailCheckInput{
			CheckID:        input.CheckID,
			ErrorMessage:   stage + ": " + err.Error(),
			ProcessingSecs: elapsed(),
		}).Get(ctx, nil)
		return "failed", nil
	}

	progress.Stage = "processing"
	if err := workflow.ExecuteActivity(ctx, "MarkCheckProcessingActivity", activities.MarkCheckProcessingInput{CheckID: input.CheckID}).Get(ctx, nil); err != nil {
		return fail("mark processing", err)
	}

	var docOut activities.LoadDocumentOutput
	if err := workflow.ExecuteActivity(ctx, "LoadDocumentActivity", activities.LoadDocumentInput{DocumentID: input.DocumentID}).Get(ctx, &docOut); err != nil {
		return fail("load document", err)
	}

	progress.Stage = "cache_lookup"
	var cacheOut activities.CacheLookupOutput
	if err := workflow.ExecuteActivity(ctx, "CacheLookupActivity", activities.CacheLookupInput{Fingerprint: docOut.Document.Fingerprint}).Get(ctx, &cacheOut); err != nil {
		return fail("cache lookup", err)
	}

	if cacheOut.Hit && cacheOut.Summary.CheckID != input.CheckID {
		// Identical content already scored: reuse the prior verdict without
		// touching any source adapter.
		progress.CacheHit = true
		progress.Stage = "completing_from_cache"
		if err := workflow.ExecuteActivity(ctx, "CompleteCheckFromCacheActivity", activities.CompleteCheckFromCacheInput{
			CheckID:        input.CheckID,
			Summary:        cacheOut.Summary,
			ProcessingSecs: elapsed(),
		}).Get(ctx, nil); err != nil {
			return fail("complete from cache", err)
		}
		progress.Stage = "completed"
		return "completed", nil
	}

	progress.Stage = "detecting"
	enabled := input.Checks
	if !enabled.Web && !enabled.Database && !enabled.Institution {
		enabled = detect.AllChecks()
	}
	var detectOut activities.DetectOutput
	if err := workflow.ExecuteActivity(ctx, "DetectActivity", activities.DetectInput{Document: docOut.Document, Enabled: enabled}).Get(ctx, &detectOut); err != nil {
		return fail("detect", err)
	}

	progress.Stage = "persisting"
	if err := workflow.ExecuteActivity(ctx, "PersistResultActivity", activities.PersistResultInput{
		CheckID:        input.CheckID,
		Result:         detectOut.Result,
		ProcessingSecs: elapsed(),
	}).Get(ctx, nil); err != nil {
		return fail("persist result", err)
	}

	// Cache write is best effort; a failure here must not fail the check.
	_ = workflow.ExecuteActivity(ctx, "CacheStoreActivity", activities.CacheStoreInput{
		Fingerprint: docOut.Document.Fingerprint,
		Summary: models.CachedSummary{
			CheckID:          input.CheckID,
			OriginalityScore: detectOut.Result.OriginalityScore,
			PlagiarismPct:    detectOut.Result.PlagiarismPct,
			TotalMatches:     len(detectOut.Result.Matches),
		},
	}).Get(ctx, nil)

	progress.Stage = "completed"
	return "completed", nil
}

// DocumentIndexWorkflow embeds an ingested document into the vector index.
func DocumentIndexWorkflow(ctx workflow.Context, input DocumentIndexInput) (string, error) {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var out activities.IndexDocumentOutput
	if err := workflow.ExecuteActivity(ctx, "IndexDocumentActivity", activities.IndexDocumentInput{DocumentID: input.DocumentID}).Get(ctx, &out); err != nil {
		return "failed", nil
	}
	return "completed", nil
}
