package workflows

import (
	"context"
	"errors"
	"testing"

	"origincheck/internal/activities"
	"origincheck/internal/detect"
	"origincheck/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func registerCheckActivities(env *testsuite.TestWorkflowEnvironment) {
	registerActivityName(env, "MarkCheckProcessingActivity", func(context.Context, activities.MarkCheckProcessingInput) error { return nil })
	registerActivityName(env, "LoadDocumentActivity", func(context.Context, activities.LoadDocumentInput) (activities.LoadDocumentOutput, error) {
		return activities.LoadDocumentOutput{}, nil
	})
	registerActivityName(env, "CacheLookupActivity", func(context.Context, activities.CacheLookupInput) (activities.CacheLookupOutput, error) {
		return activities.CacheLookupOutput{}, nil
	})
	registerActivityName(env, "CompleteCheckFromCacheActivity", func(context.Context, activities.CompleteCheckFromCacheInput) error { return nil })
	registerActivityName(env, "DetectActivity", func(context.Context, activities.DetectInput) (activities.DetectOutput, error) {
		return activities.DetectOutput{}, nil
	})
	registerActivityName(env, "PersistResultActivity", func(context.Context, activities.PersistResultInput) error { return nil })
	registerActivityName(env, "CacheStoreActivity", func(context.Context, activities.CacheStoreInput) error { return nil })
	registerActivityName(env, "FailCheckActivity", func(context.Context, activities.FailCheckInput) error { return nil })
}

func TestCheckWorkflowSuccess(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(CheckWorkflow)
	registerCheckActivities(env)

	doc := models.Document{DocumentID: "doc-1", Content: "some text", Fingerprint: "fp-1"}
	result := models.DetectionResult{
		OriginalityScore: 70,
		PlagiarismPct:    30,
		Matches: []models.MatchCandidate{
			{MatchKind: models.MatchExact, SourceKind: models.SourceWeb, StartWord: 0, EndWord: 3, Similarity: 96},
		},
		SourceCounts: map[models.SourceKind]int{models.SourceWeb: 1},
	}

	env.OnActivity("MarkCheckProcessingActivity", mock.Anything, activities.MarkCheckProcessingInput{CheckID: "chk-1"}).Return(nil)
	env.OnActivity("LoadDocumentActivity", mock.Anything, activities.LoadDocumentInput{DocumentID: "doc-1"}).Return(activities.LoadDocumentOutput{Document: doc}, nil)
	env.OnActivity("CacheLookupActivity", mock.Anything, activities.CacheLookupInput{Fingerprint: "fp-1"}).Return(activities.CacheLookupOutput{Hit: false}, nil)
	env.OnActivity("DetectActivity", mock.Anything, activities.DetectInput{Document: doc, Enabled: detect.AllChecks()}).Return(activities.DetectOutput{Result: result}, nil)
	env.OnActivity("PersistResultActivity", mock.Anything, mock.MatchedBy(func(in activities.PersistResultInput) bool {
		return in.CheckID == "chk-1" && in.Result.PlagiarismPct == 30
	})).Return(nil)
	env.OnActivity("CacheStoreActivity", mock.Anything, mock.MatchedBy(func(in activities.CacheStoreInput) bool {
		return in.Fingerprint == "fp-1" && in.Summary.CheckID == "chk-1" && in.Summary.TotalMatches == 1
	})).Return(nil)

	env.ExecuteWorkflow(CheckWorkflow, CheckInput{CheckID: "chk-1", DocumentID: "doc-1"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "completed", out)
	env.AssertNotCalled(t, "FailCheckActivity", mock.Anything, mock.Anything)
}

func TestCheckWorkflowCacheHitSkipsDetection(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(CheckWorkflow)
	registerCheckActivities(env)

	doc := models.Document{DocumentID: "doc-2", Content: "identical text", Fingerprint: "fp-2"}
	cached := models.CachedSummary{CheckID: "chk-old", OriginalityScore: 55, PlagiarismPct: 45, TotalMatches: 4}

	env.OnActivity("MarkCheckProcessingActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("LoadDocumentActivity", mock.Anything, mock.Anything).Return(activities.LoadDocumentOutput{Document: doc}, nil)
	env.OnActivity("CacheLookupActivity", mock.Anything, activities.CacheLookupInput{Fingerprint: "fp-2"}).Return(activities.CacheLookupOutput{Hit: true, Summary: cached}, nil)
	env.OnActivity("CompleteCheckFromCacheActivity", mock.Anything, mock.MatchedBy(func(in activities.CompleteCheckFromCacheInput) bool {
		return in.CheckID == "chk-2" && in.Summary.CheckID == "chk-old"
	})).Return(nil)

	env.ExecuteWorkflow(CheckWorkflow, CheckInput{CheckID: "chk-2", DocumentID: "doc-2"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "completed", out)
	// A cache hit must not reach any source adapter.
	env.AssertNotCalled(t, "DetectActivity", mock.Anything, mock.Anything)
	env.AssertNotCalled(t, "PersistResultActivity", mock.Anything, mock.Anything)
}

func TestCheckWorkflowDetectFailureMarksCheckFailed(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(CheckWorkflow)
	registerCheckActivities(env)

	doc := models.Document{DocumentID: "doc-3", Content: "text", Fingerprint: "fp-3"}

	env.OnActivity("MarkCheckProcessingActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("LoadDocumentActivity", mock.Anything, mock.Anything).Return(activities.LoadDocumentOutput{Document: doc}, nil)
	env.OnActivity("CacheLookupActivity", mock.Anything, mock.Anything).Return(activities.CacheLookupOutput{}, nil)
	env.OnActivity("DetectActivity", mock.Anything, mock.Anything).Return(activities.DetectOutput{}, errors.New("document has no scorable text"))
	env.OnActivity("FailCheckActivity", mock.Anything, mock.MatchedBy(func(in activities.FailCheckInput) bool {
		return in.CheckID == "chk-3" && in.ErrorMessage != ""
	})).Return(nil)

	env.ExecuteWorkflow(CheckWorkflow, CheckInput{CheckID: "chk-3", DocumentID: "doc-3"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out)
	env.AssertNotCalled(t, "PersistResultActivity", mock.Anything, mock.Anything)
	env.AssertNotCalled(t, "CacheStoreActivity", mock.Anything, mock.Anything)
}

func TestDocumentIndexWorkflow(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentIndexWorkflow)
	registerActivityName(env, "IndexDocumentActivity", func(context.Context, activities.IndexDocumentInput) (activities.IndexDocumentOutput, error) {
		return activities.IndexDocumentOutput{}, nil
	})
	env.OnActivity("IndexDocumentActivity", mock.Anything, activities.IndexDocumentInput{DocumentID: "doc-4"}).Return(activities.IndexDocumentOutput{ChunkCount: 3}, nil)

	env.ExecuteWorkflow(DocumentIndexWorkflow, DocumentIndexInput{DocumentID: "doc-4"})
	require.True(t, env.IsWorkflowCompleted())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "completed", out)
}
