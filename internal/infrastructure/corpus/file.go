// Package corpus loads the labelled question corpus and evaluation set
// from tabular files. Both formats share the same column contract:
// columns are located by header name, not position.
package corpus

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bhumiseba/namjari-intent/internal/core/domain"
)

const (
	columnQuestion = "question"
	columnTag      = "tag"
	columnExpected = "expected_tag"
)

// FileCorpusSource reads training examples from a .csv or .xlsx file.
type FileCorpusSource struct {
	path string
}

func NewFileCorpusSource(path string) *FileCorpusSource {
	return &FileCorpusSource{path: path}
}

func (s *FileCorpusSource) Load(ctx context.Context) ([]domain.TrainingExample, error) {
	rows, err := readTable(s.path)
	if err != nil {
		return nil, err
	}

	questionCol, tagCol, err := locateColumns(rows, columnQuestion, columnTag)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	examples := make([]domain.TrainingExample, 0, len(rows))
	for i, row := range rows[1:] {
		question, tag := cell(row, questionCol), cell(row, tagCol)
		if question == "" && tag == "" {
			continue
		}
		if question == "" || tag == "" {
			return nil, fmt.Errorf("%s row %d: incomplete example", s.path, i+2)
		}
		if !domain.IsValidTag(domain.Tag(tag)) {
			return nil, domain.WrapError(domain.ErrUnknownTag, "load corpus",
				fmt.Errorf("%s row %d: tag %q", s.path, i+2, tag))
		}
		examples = append(examples, domain.TrainingExample{
			Text: question,
			Tag:  domain.Tag(tag),
		})
	}

	if len(examples) == 0 {
		return nil, domain.WrapError(domain.ErrCorpusEmpty, "load corpus",
			fmt.Errorf("%s has no examples", s.path))
	}
	return examples, nil
}

// FileEvaluationSource reads labelled evaluation cases from a .csv or
// .xlsx file. It accepts either expected_tag or tag as the label column.
type FileEvaluationSource struct {
	path string
}

func NewFileEvaluationSource(path string) *FileEvaluationSource {
	return &FileEvaluationSource{path: path}
}

func (s *FileEvaluationSource) Load(ctx context.Context) ([]domain.EvaluationCase, error) {
	rows, err := readTable(s.path)
	if err != nil {
		return nil, err
	}

	questionCol, labelCol, err := locateColumns(rows, columnQuestion, columnExpected)
	if err != nil {
		questionCol, labelCol, err = locateColumns(rows, columnQuestion, columnTag)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	cases := make([]domain.EvaluationCase, 0, len(rows))
	for i, row := range rows[1:] {
		question, label := cell(row, questionCol), cell(row, labelCol)
		if question == "" && label == "" {
			continue
		}
		if question == "" || label == "" {
			return nil, fmt.Errorf("%s row %d: incomplete case", s.path, i+2)
		}
		if !domain.IsValidTag(domain.Tag(label)) {
			return nil, domain.WrapError(domain.ErrUnknownTag, "load evaluation set",
				fmt.Errorf("%s row %d: tag %q", s.path, i+2, label))
		}
		cases = append(cases, domain.EvaluationCase{
			Question: question,
			Expected: domain.Tag(label),
		})
	}
	return cases, nil
}

func readTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported corpus format: %s", path)
	}
}

func readXLSX(path string) ([][]string, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	return rows, nil
}

func locateColumns(rows [][]string, first, second string) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, fmt.Errorf("file is empty")
	}
	firstCol, secondCol := -1, -1
	for i, name := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case first:
			firstCol = i
		case second:
			secondCol = i
		}
	}
	if firstCol < 0 || secondCol < 0 {
		return 0, 0, fmt.Errorf("missing %q or %q column", first, second)
	}
	return firstCol, secondCol, nil
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
