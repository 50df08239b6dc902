package excel

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gomatch/domain/core"
	"gomatch/domain/response"
	"gomatch/ports"
)

// Sheet layout: the first column holds the respondent id, every further
// column is headed by a question id, and each non-empty cell carries one
// JSON-encoded response record.
const userIDHeader = "user_id"

// RespondentReader loads respondents from questionnaire export files,
// handling both Excel and CSV
type RespondentReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

var _ ports.RespondentSource = (*RespondentReader)(nil)

// NewRespondentReader creates a reader for the given export file
func NewRespondentReader(filePath string) *RespondentReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &RespondentReader{filePath: filePath, fileType: fileType}
}

// LoadRespondents reads the export into respondents with raw (not yet
// normalized) response records
func (r *RespondentReader) LoadRespondents(ctx context.Context) ([]response.Respondent, error) {
	log.Printf("[RespondentReader] Reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("export must have a header row and at least one data row")
	}
	return r.processRows(rows)
}

func (r *RespondentReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	log.Printf("[RespondentReader] Sheet1 read in %.2fms (%d rows)",
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

func (r *RespondentReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV rows: %w", err)
	}
	return rows, nil
}

func (r *RespondentReader) processRows(rows [][]string) ([]response.Respondent, error) {
	header := rows[0]
	if len(header) < 2 || strings.TrimSpace(header[0]) != userIDHeader {
		return nil, fmt.Errorf("first header column must be %q", userIDHeader)
	}

	questionIDs := make([]core.QuestionID, len(header))
	for col := 1; col < len(header); col++ {
		qid := strings.TrimSpace(header[col])
		if qid == "" {
			return nil, fmt.Errorf("empty question id in header column %d", col+1)
		}
		questionIDs[col] = core.QuestionID(qid)
	}

	respondents := make([]response.Respondent, 0, len(rows)-1)
	for rowIdx, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		userID := strings.TrimSpace(row[0])
		if userID == "" {
			return nil, fmt.Errorf("row %d: empty user id", rowIdx+2)
		}

		respondent := response.Respondent{
			ID:        core.UserID(userID),
			Responses: make(map[core.QuestionID]response.Record),
		}
		for col := 1; col < len(row) && col < len(header); col++ {
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			var rec response.Record
			if err := json.Unmarshal([]byte(cell), &rec); err != nil {
				return nil, fmt.Errorf("row %d column %s: malformed record: %w", rowIdx+2, questionIDs[col], err)
			}
			respondent.Responses[questionIDs[col]] = rec
		}
		respondents = append(respondents, respondent)
	}

	log.Printf("[RespondentReader] Loaded %d respondents across %d questions",
		len(respondents), len(header)-1)
	return respondents, nil
}
