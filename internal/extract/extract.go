package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	apperrors "github.com/neo4j-partners/aircraft-enrichment/pkg/errors"
	"github.com/neo4j-partners/aircraft-enrichment/pkg/logger"
	"go.uber.org/zap"
)

// SystemPrompt instructs the model to extract only explicit facts.
const SystemPrompt = "You extract structured entities from aviation maintenance manuals. " +
	"Always respond with valid JSON matching the requested schema. " +
	"Only extract entities that are explicitly stated in the text. " +
	"Return ONLY the JSON object - no markdown fences, no commentary, no extra text."

const promptTemplate = `Analyze this aircraft maintenance manual text and extract any structured entities.

Return a JSON object with these keys (use empty arrays [] for entity types not found):

{
  "fault_codes": [
    {
      "code": "e.g. ENG-OVH-001",
      "description": "brief description",
      "severity_levels": ["CRITICAL", "MAJOR", "MINOR"],
      "ata_chapter": "chapter number e.g. 72",
      "immediate_action": "recommended action"
    }
  ],
  "part_numbers": [
    {
      "number": "e.g. V25-FM-2100",
      "component_name": "component name",
      "ata_reference": "e.g. 72-01"
    }
  ],
  "operating_limits": [
    {
      "parameter": "e.g. EGT, N1, Vibration, System Pressure",
      "unit": "unit of measurement",
      "regime": "operating regime e.g. ground_idle, flight_idle, max_continuous, takeoff, normal, warning",
      "min_value": null,
      "max_value": null
    }
  ],
  "maintenance_tasks": [
    {
      "task_id": "e.g. ENG-TC-001 or null if not given",
      "description": "task description",
      "interval": 500,
      "interval_unit": "FH or months or days",
      "duration_hours": 1.0,
      "personnel_count": 1,
      "personnel_type": "mechanic or technician or specialist"
    }
  ],
  "ata_chapters": [
    {
      "chapter": "chapter number e.g. 72",
      "title": "system name e.g. Engine"
    }
  ]
}

TEXT:
%s`

var fenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*\n?(.*?)\n?\\s*```$")

// Completer is the capability the extractor needs from an LLM provider.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Extractor pulls structured entity observations out of chunk text
type Extractor struct {
	llm    Completer
	logger *zap.Logger
}

// NewExtractor creates a new extractor
func NewExtractor(llm Completer) *Extractor {
	return &Extractor{
		llm:    llm,
		logger: logger.Get(),
	}
}

// Extract runs one LLM call over the chunk text and returns its typed
// result. Any failure - the call itself, or a response that stays
// unparsable after repair - yields an empty bundle with the Failed
// marker set; it never aborts the run.
func (e *Extractor) Extract(ctx context.Context, text string) Result {
	content, err := e.llm.Complete(ctx, SystemPrompt, fmt.Sprintf(promptTemplate, text))
	if err != nil {
		e.logger.Warn("Extraction call failed, chunk contributes no observations",
			zap.Error(err),
		)
		return Result{Failed: true, Err: err}
	}

	bundle, err := parseResponse(content)
	if err != nil {
		e.logger.Warn("Extraction response unparsable, chunk contributes no observations",
			zap.Error(err),
		)
		return Result{Failed: true, Err: err}
	}

	return Result{Bundle: bundle}
}

// parseResponse strips a fenced code-block wrapper if present, parses the
// JSON, and falls back to a best-effort repair pass before giving up.
func parseResponse(content string) (Bundle, error) {
	text := strings.TrimSpace(content)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	var bundle Bundle
	if err := json.Unmarshal([]byte(text), &bundle); err == nil {
		return bundle, nil
	}

	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return Bundle{}, apperrors.NewExtractionParseFailed(snippet(text), err)
	}
	if err := json.Unmarshal([]byte(repaired), &bundle); err != nil {
		return Bundle{}, apperrors.NewExtractionParseFailed(snippet(text), err)
	}
	return bundle, nil
}

func snippet(text string) string {
	const limit = 120
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
