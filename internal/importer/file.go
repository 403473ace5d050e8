package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/linguist/pkg/models"
)

// ImportConfig defines the spreadsheet import configuration
type ImportConfig struct {
	FilePath       string // Path to the Excel or CSV file
	SheetName      string // Sheet to import, the first sheet when empty
	WordColumn     string // Column with the word
	MeaningColumn  string // Column with the meaning
	ChapterColumn  string // Column with the chapter number, optional
	StartRow       int    // The row to start importing from (1-based index)
	DefaultChapter *int   // Applied to rows without a chapter cell
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:    "A",
		MeaningColumn: "B",
		ChapterColumn: "C",
		StartRow:      2, // By default, start from the second row (skip header)
	}
}

// ImportFile imports words from an .xlsx or .csv file
func ImportFile(ctx context.Context, repo Creator, config ImportConfig) (*ImportResult, error) {
	if config.DefaultChapter != nil && !models.ValidChapter(*config.DefaultChapter) {
		return nil, fmt.Errorf("chapter %d is outside %d-%d", *config.DefaultChapter, models.MinChapter, models.MaxChapter)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(config.FilePath)) {
	case ".csv":
		rows, err = readCSV(config.FilePath)
	case ".xlsx", ".xlsm":
		rows, err = readExcel(config.FilePath, config.SheetName)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(config.FilePath))
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	fields := make([]models.VocabFields, 0, len(rows))

	for i, row := range rows {
		rowNum := i + 1
		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}
		if isBlank(row) {
			continue
		}
		result.TotalProcessed++

		f, warning, err := processRow(row, config)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if warning != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", rowNum, warning))
		}
		fields = append(fields, f)
	}

	if len(fields) == 0 {
		return result, nil
	}
	created, err := repo.CreateMany(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to store imported words: %w", err)
	}
	result.Created = len(created)
	return result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// processRow extracts a vocabulary item from a row.
// A non-empty warning means the row was imported with a fallback.
func processRow(row []string, config ImportConfig) (models.VocabFields, string, error) {
	word := strings.TrimSpace(cell(row, config.WordColumn))
	meaning := strings.TrimSpace(cell(row, config.MeaningColumn))
	if word == "" {
		return models.VocabFields{}, "", errors.New("word cannot be empty")
	}
	if meaning == "" {
		return models.VocabFields{}, "", errors.New("meaning cannot be empty")
	}

	f := models.VocabFields{Word: word, Meaning: meaning, ChapterID: config.DefaultChapter}

	raw := strings.TrimSpace(cell(row, config.ChapterColumn))
	if raw == "" {
		return f, "", nil
	}
	ch, err := strconv.Atoi(raw)
	if err != nil || !models.ValidChapter(ch) {
		f.ChapterID = nil
		return f, fmt.Sprintf("invalid chapter %q, imported as additional", raw), nil
	}
	f.ChapterID = models.Chapter(ch)
	return f, "", nil
}

// cell returns the value of column (e.g. "B") in row, or "" when absent
func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	idx := columnToIndex(column)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// columnToIndex converts an Excel column letter to a 0-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for i := 0; i < len(column); i++ {
		if column[i] < 'A' || column[i] > 'Z' {
			return -1
		}
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
