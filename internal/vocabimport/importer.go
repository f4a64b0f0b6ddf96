// Package vocabimport parses vocabulary files for bulk import. It accepts
// JSON word lists and XLSX sheets with one word per row.
package vocabimport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/phrazzld/lernbuddy/internal/domain"
)

// Entry is one vocabulary record as it appears in an import file.
type Entry struct {
	Word               string `json:"word"`
	Translation        string `json:"translation"`
	CEFRLevel          string `json:"cefr_level"`
	PartOfSpeech       string `json:"part_of_speech"`
	Gender             string `json:"gender"`
	PluralForm         string `json:"plural_form"`
	ExampleSentence    string `json:"example_sentence"`
	ExampleTranslation string `json:"example_translation"`
}

// Result reports what a parse produced. Rows that could not be turned into a
// valid item are collected per row instead of aborting the whole file.
type Result struct {
	Items  []*domain.VocabularyItem
	Errors []string
}

// xlsx column layout, matching the JSON field order.
const (
	colWord = iota
	colTranslation
	colCEFRLevel
	colPartOfSpeech
	colGender
	colPluralForm
	colExampleSentence
	colExampleTranslation
)

// ParseFile reads a vocabulary file, dispatching on the extension.
// JSON files hold an array of entries; XLSX files hold one entry per row
// with a header row.
func ParseFile(path, sheet string) (*Result, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return parseJSON(path)
	case ".xlsx":
		return parseXLSX(path, sheet)
	default:
		return nil, fmt.Errorf("unsupported file extension %q (want .json or .xlsx)", ext)
	}
}

func parseJSON(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	result := &Result{}
	for i, entry := range entries {
		item, err := entryToItem(entry)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d: %v", i+1, err))
			continue
		}
		result.Items = append(result.Items, item)
	}

	return result, nil
}

func parseXLSX(path, sheet string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	result := &Result{}
	for i, row := range rows {
		// Header row
		if i == 0 {
			continue
		}
		// GetRows trims trailing empty cells, so blank rows come back empty
		if len(row) == 0 {
			continue
		}

		item, err := entryToItem(rowToEntry(row))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Items = append(result.Items, item)
	}

	return result, nil
}

func rowToEntry(row []string) Entry {
	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	return Entry{
		Word:               cell(colWord),
		Translation:        cell(colTranslation),
		CEFRLevel:          cell(colCEFRLevel),
		PartOfSpeech:       cell(colPartOfSpeech),
		Gender:             cell(colGender),
		PluralForm:         cell(colPluralForm),
		ExampleSentence:    cell(colExampleSentence),
		ExampleTranslation: cell(colExampleTranslation),
	}
}

func entryToItem(entry Entry) (*domain.VocabularyItem, error) {
	level := domain.CEFRLevel(strings.ToUpper(strings.TrimSpace(entry.CEFRLevel)))

	item, err := domain.NewVocabularyItem(
		strings.TrimSpace(entry.Word),
		strings.TrimSpace(entry.Translation),
		level,
	)
	if err != nil {
		return nil, err
	}

	item.PartOfSpeech = entry.PartOfSpeech
	item.Gender = entry.Gender
	item.PluralForm = entry.PluralForm
	item.ExampleSentence = entry.ExampleSentence
	item.ExampleTranslation = entry.ExampleTranslation
	return item, nil
}
