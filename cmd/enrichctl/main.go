package main

import (
	"context"
	"fmt"
	"os"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neo4j-partners/aircraft-enrichment/internal/adapter"
	"github.com/neo4j-partners/aircraft-enrichment/internal/extract"
	"github.com/neo4j-partners/aircraft-enrichment/internal/graph"
	"github.com/neo4j-partners/aircraft-enrichment/internal/pipeline"
	"github.com/neo4j-partners/aircraft-enrichment/pkg/config"
	apperrors "github.com/neo4j-partners/aircraft-enrichment/pkg/errors"
	"github.com/neo4j-partners/aircraft-enrichment/pkg/logger"
)

var (
	enrichSampleSize int
	enrichDataDir    string
	searchTopK       int
)

var rootCmd = &cobra.Command{
	Use:   "enrichctl",
	Short: "Aircraft maintenance manual enrichment for the operational knowledge graph",
	Long: `enrichctl ingests aircraft maintenance manuals into Neo4j: it chunks and
embeds each manual, extracts fault codes, part numbers, operating limits,
maintenance tasks and ATA chapters with an LLM, merges them corpus-wide and
cross-links them onto the pre-existing operational graph.`,
	SilenceUsage: true,
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run the full enrichment pipeline",
	RunE:  runEnrich,
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all enrichment nodes, leaving the operational graph intact",
	RunE:  runClean,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Report node and relationship counts for the enrichment subgraph",
	RunE:  runVerify,
}

var searchCmd = &cobra.Command{
	Use:   "search [question]",
	Short: "Find manual chunks semantically similar to a question",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	enrichCmd.Flags().IntVar(&enrichSampleSize, "sample-size", 0, "max chunks to extract per document (0 = all)")
	enrichCmd.Flags().StringVar(&enrichDataDir, "data-dir", "", "directory containing the manuals (overrides DATA_DIR)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of chunks to return")
	rootCmd.AddCommand(enrichCmd, cleanCmd, verifyCmd, searchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, initializes the global logger and opens a
// verified Neo4j connection. The caller owns the returned repository.
func setup() (*config.Config, *graph.Repository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Env); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		driver.Close(context.Background())
		return nil, nil, apperrors.NewGraphConnectionFailed(cfg.Neo4jURI, err)
	}

	return cfg, graph.NewRepository(driver), nil
}

func requireOpenAIKey(cfg *config.Config) error {
	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for this command")
	}
	return nil
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	cfg, repo, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer repo.Close()

	if err := requireOpenAIKey(cfg); err != nil {
		return err
	}

	if enrichDataDir != "" {
		cfg.DataDir = enrichDataDir
	}
	sampleSize := cfg.SampleSize
	if cmd.Flags().Changed("sample-size") {
		sampleSize = enrichSampleSize
	}

	llm := adapter.NewLLMClient(cfg.OpenAIAPIKey, cfg.ExtractionModel)
	embedder := adapter.NewEmbeddingClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimensions)

	p := pipeline.New(repo, extract.NewExtractor(llm), embedder, pipeline.Options{
		DataDir:      cfg.DataDir,
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		SampleSize:   sampleSize,
	})

	summary, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Run %s complete\n", summary.RunID)
	cmd.Printf("  documents:         %d\n", summary.Documents)
	cmd.Printf("  chunks:            %d (%d failed extraction)\n", summary.Chunks, summary.ChunksFailed)
	cmd.Printf("  fault codes:       %d\n", summary.FaultCodes)
	cmd.Printf("  part numbers:      %d\n", summary.PartNumbers)
	cmd.Printf("  operating limits:  %d\n", summary.OperatingLimits)
	cmd.Printf("  maintenance tasks: %d\n", summary.MaintenanceTasks)
	cmd.Printf("  ata chapters:      %d\n", summary.ATAChapters)
	cmd.Printf("  cross-link edges:  %d\n", summary.CrossLinks.Total())
	return nil
}

func runClean(cmd *cobra.Command, _ []string) error {
	_, repo, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer repo.Close()

	deleted, err := repo.ClearEnrichment(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Deleted %d enrichment nodes\n", deleted)
	return nil
}

func runVerify(cmd *cobra.Command, _ []string) error {
	_, repo, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer repo.Close()

	counts, err := repo.Validate(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Documents:               %d\n", counts.Documents)
	cmd.Printf("Chunks:                  %d (%d embedded)\n", counts.Chunks, counts.ChunksWithEmbedding)
	cmd.Printf("Fault codes:             %d\n", counts.FaultCodes)
	cmd.Printf("Part numbers:            %d\n", counts.PartNumbers)
	cmd.Printf("Operating limits:        %d\n", counts.OperatingLimits)
	cmd.Printf("Maintenance tasks:       %d\n", counts.MaintenanceTasks)
	cmd.Printf("ATA chapters:            %d\n", counts.ATAChapters)
	cmd.Printf("Provenance edges:        %d\n", counts.ProvenanceEdges)
	cmd.Printf("Cross-link edges:        %d\n", counts.CrossLinkEdges)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, repo, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer repo.Close()

	if err := requireOpenAIKey(cfg); err != nil {
		return err
	}

	topK := cfg.SearchTopK
	if cmd.Flags().Changed("top-k") {
		topK = searchTopK
	}

	embedder := adapter.NewEmbeddingClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	vector, err := embedder.Embed(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	matches, err := repo.SimilarChunks(cmd.Context(), vector, topK)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		cmd.Println("No matching chunks found.")
		return nil
	}

	log := logger.Get()
	log.Debug("Similarity search complete",
		zap.String("question", args[0]),
		zap.Int("matches", len(matches)))

	for i, m := range matches {
		cmd.Printf("%d. [%.3f] %s (%s) chunk %d\n", i+1, m.Score, m.DocumentName, m.AircraftType, m.ChunkIndex)
		cmd.Printf("   %s\n\n", m.Text)
	}
	return nil
}
