// Package roster loads scholar rosters from CSV exports.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"groupscholar-intervention-planner/internal/planner"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing column")

var (
	idColumns        = []string{"id", "scholar_id", "scholarid", "student_id"}
	nameColumns      = []string{"name", "scholar_name", "full_name"}
	cohortColumns    = []string{"cohort", "program", "track"}
	ownerColumns     = []string{"owner", "case_manager", "advisor", "coach"}
	channelColumns   = []string{"channel_preference", "preferred_channel", "channel"}
	lastTouchColumns = []string{"last_touch", "last_contact", "last_contact_date"}
	riskColumns      = []string{"risk_score", "risk"}
	flagColumns      = []string{"flags", "flag"}
)

// Result is the outcome of loading a roster.
type Result struct {
	Scholars    []planner.Scholar
	InvalidRows int
	BadDates    int
}

// LoadFile opens path and parses it with Load.
func LoadFile(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open roster: %w", err)
	}
	defer file.Close()

	return Load(file)
}

// Load parses a roster CSV. Rows without an id are skipped and counted as invalid.
// Unparseable dates leave the last touch empty and are counted in BadDates.
func Load(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("unable to read header: %w", err)
	}

	colMap := normalizeHeaders(headers)
	idIdx, ok := findColumn(colMap, idColumns)
	if !ok {
		return Result{}, fmt.Errorf("%w: scholar id", ErrMissingColumn)
	}
	nameIdx, _ := findColumn(colMap, nameColumns)
	cohortIdx, _ := findColumn(colMap, cohortColumns)
	ownerIdx, _ := findColumn(colMap, ownerColumns)
	channelIdx, _ := findColumn(colMap, channelColumns)
	lastTouchIdx, _ := findColumn(colMap, lastTouchColumns)
	riskIdx, _ := findColumn(colMap, riskColumns)
	flagIdx, _ := findColumn(colMap, flagColumns)

	var result Result
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Result{}, fmt.Errorf("unable to read CSV: %w", err)
		}
		if len(record) == 0 {
			continue
		}

		scholarID := getValue(record, idIdx)
		if scholarID == "" {
			result.InvalidRows++
			continue
		}

		scholar := planner.Scholar{
			ID:        scholarID,
			Name:      getValue(record, nameIdx),
			Cohort:    getValue(record, cohortIdx),
			Owner:     planner.NormalizeOwner(getValue(record, ownerIdx)),
			Channel:   getValue(record, channelIdx),
			RiskScore: ParseRisk(getValue(record, riskIdx)),
			Flags:     ParseFlags(getValue(record, flagIdx)),
		}
		if raw := getValue(record, lastTouchIdx); raw != "" {
			parsed, err := ParseDate(raw)
			if err != nil {
				result.BadDates++
			} else {
				scholar.LastTouch = &parsed
			}
		}
		result.Scholars = append(result.Scholars, scholar)
	}
	return result, nil
}

// ParseDate accepts YYYY-MM-DD, MM/DD/YYYY, and YYYY/MM/DD.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	layouts := []string{
		"2006-01-02",
		"01/02/2006",
		"2006/01/02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %s", value)
}

// ParseRisk reads a risk score, falling back to 0 for anything non-finite.
func ParseRisk(value string) float64 {
	score, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return score
}

// ParseFlags splits a semicolon list into trimmed lowercase tokens.
func ParseFlags(value string) []string {
	var flags []string
	for _, flag := range strings.Split(value, ";") {
		flag = strings.ToLower(strings.TrimSpace(flag))
		if flag != "" {
			flags = append(flags, flag)
		}
	}
	return flags
}

func normalizeHeaders(headers []string) map[string]int {
	result := make(map[string]int, len(headers))
	for idx, header := range headers {
		normalized := normalizeHeader(header)
		if _, exists := result[normalized]; !exists {
			result[normalized] = idx
		}
	}
	return result
}

func normalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(value, "\ufeff")))
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, "_", "")
	value = strings.ReplaceAll(value, "-", "")
	return value
}

func findColumn(headers map[string]int, names []string) (int, bool) {
	for _, name := range names {
		if idx, ok := headers[normalizeHeader(name)]; ok {
			return idx, true
		}
	}
	return -1, false
}

func getValue(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
