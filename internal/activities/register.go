package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.MarkCheckProcessingActivity)
	w.RegisterActivity(a.LoadDocumentActivity)
	w.RegisterActivity(a.CacheLookupActivity)
	w.RegisterActivity(a.CompleteCheckFromCacheActivity)
	w.RegisterActivity(a.DetectActivity)
	w.RegisterActivity(a.PersistResultActivity)
	w.RegisterActivity(a.CacheStoreActivity)
	w.RegisterActivity(a.FailCheckActivity)
	w.RegisterActivity(a.IndexDocumentActivity)
}
