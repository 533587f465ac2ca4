package merge

import (
	"strings"

	"github.com/neo4j-partners/aircraft-enrichment/internal/extract"
)

// Source identifies one chunk that contributed evidence for an entity
type Source struct {
	DocumentID string
	ChunkIndex int
}

// FaultCode is the canonical merged record for one fault code
type FaultCode struct {
	Code            string
	Description     string
	SeverityLevels  []string
	ATAChapter      string
	ImmediateAction string
	Sources         []Source
}

// PartNumber is the canonical merged record for one part number
type PartNumber struct {
	Number        string
	ComponentName string
	ATAReference  string
	Sources       []Source
}

// OperatingLimit is the canonical merged record for one operating limit
type OperatingLimit struct {
	LimitID      string
	Parameter    string
	Unit         string
	Regime       string
	MinValue     *float64
	MaxValue     *float64
	AircraftType string
	Sources      []Source
}

// MaintenanceTask is the canonical merged record for one maintenance task
type MaintenanceTask struct {
	TaskID         string
	Description    string
	Interval       *float64
	IntervalUnit   string
	DurationHours  *float64
	PersonnelCount *int
	PersonnelType  string
	Sources        []Source
}

// ATAChapter is the canonical merged record for one ATA chapter
type ATAChapter struct {
	Chapter string
	Title   string
	Sources []Source
}

// Accumulator folds per-chunk observation bundles from the whole corpus
// into one canonical record per (type, key). It is an explicit value
// passed through the pipeline, never module-level state. Records come
// back in first-observed order, so re-runs over the same corpus produce
// the same output ordering.
type Accumulator struct {
	faultCodes       map[string]*FaultCode
	partNumbers      map[string]*PartNumber
	operatingLimits  map[string]*OperatingLimit
	maintenanceTasks map[string]*MaintenanceTask
	ataChapters      map[string]*ATAChapter

	faultCodeOrder   []string
	partNumberOrder  []string
	limitOrder       []string
	taskOrder        []string
	chapterOrder     []string
}

// NewAccumulator creates an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{
		faultCodes:       make(map[string]*FaultCode),
		partNumbers:      make(map[string]*PartNumber),
		operatingLimits:  make(map[string]*OperatingLimit),
		maintenanceTasks: make(map[string]*MaintenanceTask),
		ataChapters:      make(map[string]*ATAChapter),
	}
}

// Size returns the number of distinct entities accumulated so far.
func (a *Accumulator) Size() int {
	return len(a.faultCodes) + len(a.partNumbers) + len(a.operatingLimits) +
		len(a.maintenanceTasks) + len(a.ataChapters)
}

// Add folds one chunk's observations into the accumulator. Observations
// missing their key field are discarded, never merged under an empty key.
func (a *Accumulator) Add(documentID string, chunkIndex int, aircraftType string, bundle extract.Bundle) {
	source := Source{DocumentID: documentID, ChunkIndex: chunkIndex}

	for _, obs := range bundle.FaultCodes {
		a.addFaultCode(obs, source)
	}
	for _, obs := range bundle.PartNumbers {
		a.addPartNumber(obs, source)
	}
	for _, obs := range bundle.OperatingLimits {
		a.addOperatingLimit(obs, aircraftType, source)
	}
	for _, obs := range bundle.MaintenanceTasks {
		a.addMaintenanceTask(obs, source)
	}
	for _, obs := range bundle.ATAChapters {
		a.addATAChapter(obs, source)
	}
}

func (a *Accumulator) addFaultCode(obs extract.FaultCodeObs, source Source) {
	code := strings.TrimSpace(obs.Code)
	if code == "" {
		return
	}
	existing, ok := a.faultCodes[code]
	if !ok {
		a.faultCodes[code] = &FaultCode{
			Code:            code,
			Description:     obs.Description,
			SeverityLevels:  unionLevels(nil, obs.SeverityLevels),
			ATAChapter:      obs.ATAChapter.String(),
			ImmediateAction: obs.ImmediateAction,
			Sources:         []Source{source},
		}
		a.faultCodeOrder = append(a.faultCodeOrder, code)
		return
	}
	existing.Sources = append(existing.Sources, source)
	if len(obs.Description) > len(existing.Description) {
		existing.Description = obs.Description
	}
	// Severity levels merge as a union in first-seen order
	existing.SeverityLevels = unionLevels(existing.SeverityLevels, obs.SeverityLevels)
	if existing.ATAChapter == "" {
		existing.ATAChapter = obs.ATAChapter.String()
	}
	if existing.ImmediateAction == "" {
		existing.ImmediateAction = obs.ImmediateAction
	}
}

func (a *Accumulator) addPartNumber(obs extract.PartNumberObs, source Source) {
	number := strings.TrimSpace(obs.Number)
	if number == "" {
		return
	}
	existing, ok := a.partNumbers[number]
	if !ok {
		a.partNumbers[number] = &PartNumber{
			Number:        number,
			ComponentName: obs.ComponentName,
			ATAReference:  obs.ATAReference,
			Sources:       []Source{source},
		}
		a.partNumberOrder = append(a.partNumberOrder, number)
		return
	}
	existing.Sources = append(existing.Sources, source)
}

func (a *Accumulator) addOperatingLimit(obs extract.OperatingLimitObs, aircraftType string, source Source) {
	param := strings.TrimSpace(obs.Parameter)
	regime := strings.TrimSpace(obs.Regime)
	if param == "" || regime == "" {
		return
	}
	key := LimitID(param, regime, aircraftType)
	existing, ok := a.operatingLimits[key]
	if !ok {
		a.operatingLimits[key] = &OperatingLimit{
			LimitID:      key,
			Parameter:    param,
			Unit:         obs.Unit,
			Regime:       regime,
			MinValue:     obs.MinValue,
			MaxValue:     obs.MaxValue,
			AircraftType: aircraftType,
			Sources:      []Source{source},
		}
		a.limitOrder = append(a.limitOrder, key)
		return
	}
	existing.Sources = append(existing.Sources, source)
	// Last non-null wins for numeric bounds
	if obs.MinValue != nil {
		existing.MinValue = obs.MinValue
	}
	if obs.MaxValue != nil {
		existing.MaxValue = obs.MaxValue
	}
}

func (a *Accumulator) addMaintenanceTask(obs extract.MaintenanceTaskObs, source Source) {
	desc := strings.TrimSpace(obs.Description)
	if desc == "" {
		return
	}
	key := TaskID(obs.TaskID, desc)
	existing, ok := a.maintenanceTasks[key]
	if !ok {
		a.maintenanceTasks[key] = &MaintenanceTask{
			TaskID:         key,
			Description:    desc,
			Interval:       obs.Interval,
			IntervalUnit:   obs.IntervalUnit,
			DurationHours:  obs.DurationHours,
			PersonnelCount: obs.PersonnelCount,
			PersonnelType:  obs.PersonnelType,
			Sources:        []Source{source},
		}
		a.taskOrder = append(a.taskOrder, key)
		return
	}
	existing.Sources = append(existing.Sources, source)
}

func (a *Accumulator) addATAChapter(obs extract.ATAChapterObs, source Source) {
	chapter := strings.TrimSpace(obs.Chapter.String())
	if chapter == "" {
		return
	}
	existing, ok := a.ataChapters[chapter]
	if !ok {
		a.ataChapters[chapter] = &ATAChapter{
			Chapter: chapter,
			Title:   obs.Title,
			Sources: []Source{source},
		}
		a.chapterOrder = append(a.chapterOrder, chapter)
		return
	}
	existing.Sources = append(existing.Sources, source)
	if len(obs.Title) > len(existing.Title) {
		existing.Title = obs.Title
	}
}

// FaultCodes returns merged fault codes in first-observed order
func (a *Accumulator) FaultCodes() []*FaultCode {
	out := make([]*FaultCode, 0, len(a.faultCodeOrder))
	for _, key := range a.faultCodeOrder {
		out = append(out, a.faultCodes[key])
	}
	return out
}

// PartNumbers returns merged part numbers in first-observed order
func (a *Accumulator) PartNumbers() []*PartNumber {
	out := make([]*PartNumber, 0, len(a.partNumberOrder))
	for _, key := range a.partNumberOrder {
		out = append(out, a.partNumbers[key])
	}
	return out
}

// OperatingLimits returns merged operating limits in first-observed order
func (a *Accumulator) OperatingLimits() []*OperatingLimit {
	out := make([]*OperatingLimit, 0, len(a.limitOrder))
	for _, key := range a.limitOrder {
		out = append(out, a.operatingLimits[key])
	}
	return out
}

// MaintenanceTasks returns merged maintenance tasks in first-observed order
func (a *Accumulator) MaintenanceTasks() []*MaintenanceTask {
	out := make([]*MaintenanceTask, 0, len(a.taskOrder))
	for _, key := range a.taskOrder {
		out = append(out, a.maintenanceTasks[key])
	}
	return out
}

// ATAChapters returns merged ATA chapters in first-observed order
func (a *Accumulator) ATAChapters() []*ATAChapter {
	out := make([]*ATAChapter, 0, len(a.chapterOrder))
	for _, key := range a.chapterOrder {
		out = append(out, a.ataChapters[key])
	}
	return out
}

// LimitID derives the canonical key for an operating limit: each part
// trimmed, lower-cased, spaces replaced by underscores, empty parts
// skipped, joined by underscore. Scoping by aircraft type prevents
// cross-aircraft collisions for identical parameter/regime pairs.
func LimitID(parameter, regime, aircraftType string) string {
	parts := []string{parameter, regime, aircraftType}
	slugs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		slugs = append(slugs, strings.ToLower(strings.ReplaceAll(p, " ", "_")))
	}
	return strings.Join(slugs, "_")
}

// TaskID derives the canonical key for a maintenance task: the reported
// id if present, else a slug of the first 60 characters of the description.
func TaskID(taskID, description string) string {
	if trimmed := strings.TrimSpace(taskID); trimmed != "" {
		return trimmed
	}
	head := description
	if len(head) > 60 {
		head = head[:60]
	}
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(head), " ", "_"))
}

// unionLevels merges severity levels preserving first-seen order
func unionLevels(existing, observed []string) []string {
	if len(observed) == 0 {
		return existing
	}
	seen := make(map[string]bool, len(existing))
	for _, lvl := range existing {
		seen[lvl] = true
	}
	out := existing
	for _, lvl := range observed {
		if lvl == "" || seen[lvl] {
			continue
		}
		seen[lvl] = true
		out = append(out, lvl)
	}
	return out
}
