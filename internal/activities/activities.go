package activities

import (
	"context"
	"fmt"
	"strconv"

	"origincheck/internal/cache"
	"origincheck/internal/config"
	"origincheck/internal/detect"
	"origincheck/internal/models"
	"origincheck/internal/providers"
	"origincheck/internal/storage"
	"origincheck/internal/textproc"
	"origincheck/internal/vector"
)

type Activities struct {
	cfg       config.Config
	docRepo   *storage.DocumentRepo
	checkRepo *storage.CheckRepo
	index     *vector.Index
	results   *cache.ResultCache
	providers *providers.Manager
	detector  *detect.Detector
}

func New(cfg config.Config, db *storage.DB, results *cache.ResultCache) (*Activities, error) {
	pm, err := providers.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	docRepo := storage.NewDocumentRepo(db)
	index := vector.NewIndex(db.Pool)
	fetcher := providers.NewPageFetcher(cfg.FetchTimeoutSecs, 1000)
	detector := detect.NewDetector(cfg,
		detect.NewDatabaseSource(pm, index, cfg),
		detect.NewWebSource(pm, fetcher, cfg),
		detect.NewInstitutionSource(docRepo, cfg),
	)
	return &Activities{
		cfg:       cfg,
		docRepo:   docRepo,
		checkRepo: storage.NewCheckRepo(db),
		index:     index,
		results:   results,
		providers: pm,
		detector:  detector,
	}, nil
}

func (a *Activities) MarkCheckProcessingActivity(ctx context.Context, in MarkCheckProcessingInput) error {
	return a.checkRepo.MarkProcessing(ctx, in.CheckID)
}

func (a *Activities) LoadDocumentActivity(ctx context.Context, in LoadDocumentInput) (LoadDocumentOutput, error) {
	doc, err := a.docRepo.GetDocument(ctx, in.DocumentID)
	if err != nil {
		return LoadDocumentOutput{}, err
	}
	return LoadDocumentOutput{Document: doc}, nil
}

func (a *Activities) CacheLookupActivity(ctx context.Context, in CacheLookupInput) (CacheLookupOutput, error) {
	summary, hit := a.results.Lookup(ctx, in.Fingerprint)
	return CacheLookupOutput{Hit: hit, Summary: summary}, nil
}

// CompleteCheckFromCacheActivity finishes a check from an earlier identical
// document's result, copying the prior match rows so the new check reads the
// same as a fresh run.
func (a *Activities) CompleteCheckFromCacheActivity(ctx context.Context, in CompleteCheckFromCacheInput) error {
	matches, err := a.checkRepo.ListMatches(ctx, in.Summary.CheckID)
	if err != nil {
		return fmt.Errorf("load cached matches: %w", err)
	}
	if err := a.checkRepo.InsertMatches(ctx, in.CheckID, matches); err != nil {
		return err
	}
	counts := make(map[models.SourceKind]int)
	for _, m := range matches {
		counts[m.SourceKind]++
	}
	return a.checkRepo.CompleteCheck(ctx, models.Check{
		CheckID:            in.CheckID,
		OriginalityScore:   in.Summary.OriginalityScore,
		PlagiarismPct:      in.Summary.PlagiarismPct,
		TotalMatches:       in.Summary.TotalMatches,
		WebMatches:         counts[models.SourceWeb],
		DatabaseMatches:    counts[models.SourceDatabase],
		InstitutionMatches: counts[models.SourceInstitution],
		CachedFromCheckID:  in.Summary.CheckID,
		ProcessingSecs:     in.ProcessingSecs,
	})
}

func (a *Activities) DetectActivity(ctx context.Context, in DetectInput) (DetectOutput, error) {
	result, err := a.detector.RunCheck(ctx, in.Document, in.Enabled)
	if err != nil {
		return DetectOutput{}, err
	}
	return DetectOutput{Result: result}, nil
}

func (a *Activities) PersistResultActivity(ctx context.Context, in PersistResultInput) error {
	if err := a.checkRepo.InsertMatches(ctx, in.CheckID, in.Result.Matches); err != nil {
		return err
	}
	return a.checkRepo.CompleteCheck(ctx, models.Check{
		CheckID:            in.CheckID,
		OriginalityScore:   in.Result.OriginalityScore,
		PlagiarismPct:      in.Result.PlagiarismPct,
		TotalMatches:       len(in.Result.Matches),
		WebMatches:         in.Result.SourceCounts[models.SourceWeb],
		DatabaseMatches:    in.Result.SourceCounts[models.SourceDatabase],
		InstitutionMatches: in.Result.SourceCounts[models.SourceInstitution],
		ProcessingSecs:     in.ProcessingSecs,
	})
}

func (a *Activities) CacheStoreActivity(ctx context.Context, in CacheStoreInput) error {
	a.results.Store(ctx, in.Fingerprint, in.Summary)
	return nil
}

func (a *Activities) FailCheckActivity(ctx context.Context, in FailCheckInput) error {
	return a.checkRepo.FailCheck(ctx, in.CheckID, in.ErrorMessage, in.ProcessingSecs)
}

// IndexDocumentActivity embeds a document's chunks into the vector index so
// later checks can find it as a database source.
func (a *Activities) IndexDocumentActivity(ctx context.Context, in IndexDocumentInput) (IndexDocumentOutput, error) {
	doc, err := a.docRepo.GetDocument(ctx, in.DocumentID)
	if err != nil {
		return IndexDocumentOutput{}, err
	}
	text := textproc.Normalize(doc.Content)
	chunks, err := textproc.ChunkWords(text, a.cfg.ChunkSize, a.cfg.ChunkOverlap)
	if err != nil {
		return IndexDocumentOutput{}, fmt.Errorf("chunk document %s: %w", doc.DocumentID, err)
	}
	if len(chunks) == 0 {
		words := textproc.WordCount(text)
		if words == 0 {
			return IndexDocumentOutput{}, fmt.Errorf("document %s has no indexable text", doc.DocumentID)
		}
		chunks = []textproc.Chunk{{Index: 0, Start: 0, End: words, Text: text}}
	}
	for _, chunk := range chunks {
		embedding, info, err := a.providers.EmbedOne(ctx, chunk.Text)
		if err != nil {
			return IndexDocumentOutput{}, fmt.Errorf("embed chunk %d of %s: %w", chunk.Index, doc.DocumentID, err)
		}
		meta := map[string]string{
			"start_word":     strconv.Itoa(chunk.Start),
			"end_word":       strconv.Itoa(chunk.End),
			"embed_provider": info.Name,
		}
		if err := a.index.Upsert(ctx, doc.DocumentID, chunk.Index, chunk.Text, embedding, meta); err != nil {
			return IndexDocumentOutput{}, err
		}
	}
	return IndexDocumentOutput{ChunkCount: len(chunks)}, nil
}
