package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neo4j-partners/aircraft-enrichment/internal/extract"
	"github.com/neo4j-partners/aircraft-enrichment/internal/graph"
	"github.com/neo4j-partners/aircraft-enrichment/internal/merge"
	"github.com/neo4j-partners/aircraft-enrichment/internal/registry"
	"github.com/neo4j-partners/aircraft-enrichment/internal/splitter"
	"github.com/neo4j-partners/aircraft-enrichment/pkg/logger"
)

// Store is the graph surface the pipeline writes to.
type Store interface {
	EnsureSchema(ctx context.Context, embeddingDimensions int) error
	ClearEnrichment(ctx context.Context) (int, error)
	CreateDocument(ctx context.Context, meta registry.DocumentMeta) error
	CreateChunks(ctx context.Context, documentID string, texts []string) error
	SetChunkEmbedding(ctx context.Context, documentID string, index int, vector []float32) error
	UpsertFaultCodes(ctx context.Context, codes []*merge.FaultCode) (int, error)
	UpsertPartNumbers(ctx context.Context, parts []*merge.PartNumber) (int, error)
	UpsertOperatingLimits(ctx context.Context, limits []*merge.OperatingLimit) (int, error)
	UpsertMaintenanceTasks(ctx context.Context, tasks []*merge.MaintenanceTask) (int, error)
	UpsertATAChapters(ctx context.Context, chapters []*merge.ATAChapter) (int, error)
	LinkToOperationalGraph(ctx context.Context) (graph.LinkCounts, error)
	Validate(ctx context.Context) (graph.ValidationCounts, error)
}

// Embedder produces a vector for a chunk of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Options control document chunking and extraction volume.
type Options struct {
	DataDir      string
	ChunkSize    int
	ChunkOverlap int
	// SampleSize caps the number of chunks sent for extraction per
	// document. Zero or negative means extract every chunk.
	SampleSize int
	// Documents overrides the built-in manual registry when non-nil.
	Documents []registry.DocumentMeta
}

// Summary reports what a single pipeline run produced.
type Summary struct {
	RunID            string
	Documents        int
	Chunks           int
	ChunksExtracted  int
	ChunksFailed     int
	FaultCodes       int
	PartNumbers      int
	OperatingLimits  int
	MaintenanceTasks int
	ATAChapters      int
	CrossLinks       graph.LinkCounts
	Validation       graph.ValidationCounts
}

// Pipeline runs the full enrichment flow: clear previous enrichment,
// chunk and embed each registered manual, extract entities chunk by
// chunk, merge them corpus-wide and write the result to the graph.
type Pipeline struct {
	store     Store
	extractor *extract.Extractor
	embedder  Embedder
	documents []registry.DocumentMeta
	opts      Options
	logger    *zap.Logger
}

func New(store Store, extractor *extract.Extractor, embedder Embedder, opts Options) *Pipeline {
	documents := opts.Documents
	if documents == nil {
		documents = registry.Documents()
	}
	return &Pipeline{
		store:     store,
		extractor: extractor,
		embedder:  embedder,
		documents: documents,
		opts:      opts,
		logger:    logger.Get(),
	}
}

// Run executes every stage in order. A chunk whose extraction fails is
// logged and skipped; any other error aborts the run.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.New().String()}
	log := p.logger.With(zap.String("run_id", summary.RunID))

	log.Info("Starting enrichment run",
		zap.Int("documents", len(p.documents)),
		zap.String("data_dir", p.opts.DataDir))

	if err := p.store.EnsureSchema(ctx, p.embedder.Dimensions()); err != nil {
		return summary, err
	}

	deleted, err := p.store.ClearEnrichment(ctx)
	if err != nil {
		return summary, err
	}
	log.Info("Cleared previous enrichment", zap.Int("nodes_deleted", deleted))

	acc := merge.NewAccumulator()

	for _, meta := range p.documents {
		chunks, err := p.ingestDocument(ctx, log, meta)
		if err != nil {
			return summary, err
		}
		summary.Documents++
		summary.Chunks += len(chunks)

		extracted, failed := p.extractDocument(ctx, log, meta, chunks, acc)
		summary.ChunksExtracted += extracted
		summary.ChunksFailed += failed
	}

	if err := p.writeEntities(ctx, log, acc, &summary); err != nil {
		return summary, err
	}

	summary.CrossLinks, err = p.store.LinkToOperationalGraph(ctx)
	if err != nil {
		return summary, err
	}
	log.Info("Cross-linked to operational graph",
		zap.Int("edges_created", summary.CrossLinks.Total()))

	summary.Validation, err = p.store.Validate(ctx)
	if err != nil {
		return summary, err
	}

	log.Info("Enrichment run complete",
		zap.Int("documents", summary.Documents),
		zap.Int("chunks", summary.Chunks),
		zap.Int("chunks_failed", summary.ChunksFailed))
	return summary, nil
}

// ingestDocument reads a manual from disk, writes its Document and
// Chunk nodes and embeds every chunk in index order.
func (p *Pipeline) ingestDocument(ctx context.Context, log *zap.Logger, meta registry.DocumentMeta) ([]string, error) {
	path := filepath.Join(p.opts.DataDir, meta.Filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	chunks := splitter.Split(string(data), p.opts.ChunkSize, p.opts.ChunkOverlap)
	log.Info("Ingesting document",
		zap.String("document_id", meta.DocumentID),
		zap.String("aircraft_type", meta.AircraftType),
		zap.Int("chunks", len(chunks)))

	if err := p.store.CreateDocument(ctx, meta); err != nil {
		return nil, err
	}
	if err := p.store.CreateChunks(ctx, meta.DocumentID, chunks); err != nil {
		return nil, err
	}

	for i, text := range chunks {
		vector, err := p.embedder.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		if err := p.store.SetChunkEmbedding(ctx, meta.DocumentID, i, vector); err != nil {
			return nil, err
		}
	}
	return chunks, nil
}

// extractDocument runs entity extraction over a document's chunks and
// folds the observations into the accumulator. Returns the number of
// chunks extracted and the number that failed.
func (p *Pipeline) extractDocument(ctx context.Context, log *zap.Logger, meta registry.DocumentMeta, chunks []string, acc *merge.Accumulator) (int, int) {
	limit := len(chunks)
	if p.opts.SampleSize > 0 && p.opts.SampleSize < limit {
		limit = p.opts.SampleSize
	}

	extracted, failed := 0, 0
	for i := 0; i < limit; i++ {
		result := p.extractor.Extract(ctx, chunks[i])
		if result.Failed {
			failed++
			log.Warn("Chunk extraction failed, skipping",
				zap.String("document_id", meta.DocumentID),
				zap.Int("chunk_index", i),
				zap.Error(result.Err))
			continue
		}
		acc.Add(meta.DocumentID, i, meta.AircraftType, result.Bundle)
		extracted++
	}

	log.Info("Extracted document",
		zap.String("document_id", meta.DocumentID),
		zap.Int("chunks_extracted", extracted),
		zap.Int("chunks_failed", failed),
		zap.Int("entities", acc.Size()))
	return extracted, failed
}

// writeEntities upserts every merged entity type in a fixed order.
func (p *Pipeline) writeEntities(ctx context.Context, log *zap.Logger, acc *merge.Accumulator, summary *Summary) error {
	var err error
	if summary.FaultCodes, err = p.store.UpsertFaultCodes(ctx, acc.FaultCodes()); err != nil {
		return err
	}
	if summary.PartNumbers, err = p.store.UpsertPartNumbers(ctx, acc.PartNumbers()); err != nil {
		return err
	}
	if summary.OperatingLimits, err = p.store.UpsertOperatingLimits(ctx, acc.OperatingLimits()); err != nil {
		return err
	}
	if summary.MaintenanceTasks, err = p.store.UpsertMaintenanceTasks(ctx, acc.MaintenanceTasks()); err != nil {
		return err
	}
	if summary.ATAChapters, err = p.store.UpsertATAChapters(ctx, acc.ATAChapters()); err != nil {
		return err
	}

	log.Info("Wrote merged entities",
		zap.Int("fault_codes", summary.FaultCodes),
		zap.Int("part_numbers", summary.PartNumbers),
		zap.Int("operating_limits", summary.OperatingLimits),
		zap.Int("maintenance_tasks", summary.MaintenanceTasks),
		zap.Int("ata_chapters", summary.ATAChapters))
	return nil
}
