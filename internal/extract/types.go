package extract

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString unmarshals either a JSON string or a JSON number into a
// string. Models report ATA chapters both ways ("72" and 72).
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	// Render integral numbers without a decimal point
	if i, err := n.Int64(); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the underlying string value
func (f FlexString) String() string {
	return string(f)
}

// FaultCodeObs is one raw fault-code observation from a single chunk
type FaultCodeObs struct {
	Code            string     `json:"code"`
	Description     string     `json:"description"`
	SeverityLevels  []string   `json:"severity_levels"`
	ATAChapter      FlexString `json:"ata_chapter"`
	ImmediateAction string     `json:"immediate_action"`
}

// PartNumberObs is one raw part-number observation
type PartNumberObs struct {
	Number        string `json:"number"`
	ComponentName string `json:"component_name"`
	ATAReference  string `json:"ata_reference"`
}

// OperatingLimitObs is one raw operating-limit observation
type OperatingLimitObs struct {
	Parameter string   `json:"parameter"`
	Unit      string   `json:"unit"`
	Regime    string   `json:"regime"`
	MinValue  *float64 `json:"min_value"`
	MaxValue  *float64 `json:"max_value"`
}

// MaintenanceTaskObs is one raw maintenance-task observation
type MaintenanceTaskObs struct {
	TaskID         string   `json:"task_id"`
	Description    string   `json:"description"`
	Interval       *float64 `json:"interval"`
	IntervalUnit   string   `json:"interval_unit"`
	DurationHours  *float64 `json:"duration_hours"`
	PersonnelCount *int     `json:"personnel_count"`
	PersonnelType  string   `json:"personnel_type"`
}

// ATAChapterObs is one raw ATA-chapter observation
type ATAChapterObs struct {
	Chapter FlexString `json:"chapter"`
	Title   string     `json:"title"`
}

// Bundle holds every raw observation extracted from one chunk.
// No deduplication happens at this stage.
type Bundle struct {
	FaultCodes       []FaultCodeObs       `json:"fault_codes"`
	PartNumbers      []PartNumberObs      `json:"part_numbers"`
	OperatingLimits  []OperatingLimitObs  `json:"operating_limits"`
	MaintenanceTasks []MaintenanceTaskObs `json:"maintenance_tasks"`
	ATAChapters      []ATAChapterObs      `json:"ata_chapters"`
}

// Count returns the total number of observations in the bundle
func (b Bundle) Count() int {
	return len(b.FaultCodes) + len(b.PartNumbers) + len(b.OperatingLimits) +
		len(b.MaintenanceTasks) + len(b.ATAChapters)
}

// Result is the typed outcome of extracting one chunk: either a bundle
// of observations, or an explicit failure marker with an empty bundle.
// Failures are counted by the pipeline, never fatal.
type Result struct {
	Bundle Bundle
	Failed bool
	Err    error
}
