package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/parity-tools/fairadjust/internal/fairness"
)

// calibrationData is one CSV file's worth of labeled, grouped scores.
type calibrationData struct {
	Groups []string
	Labels []int
	X      [][]float64 // one score column per row, fed to ScoreColumnModel
}

// loadCalibration reads a headered CSV and extracts the group, label, and
// score columns. groupCols may name several comma-separated columns; more
// than one is rejected through the single-column contract so the error
// matches predict-time behaviour.
func loadCalibration(path, groupCols, labelCol, scoreCol string) (*calibrationData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: need a header row and at least one data row", path)
	}

	header := records[0]
	colIndex := func(name string) (int, error) {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%s: no column named %q", path, name)
	}

	var groupIdx []int
	for _, name := range strings.Split(groupCols, ",") {
		idx, err := colIndex(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		groupIdx = append(groupIdx, idx)
	}
	labelIdx, err := colIndex(labelCol)
	if err != nil {
		return nil, err
	}
	scoreIdx, err := colIndex(scoreCol)
	if err != nil {
		return nil, err
	}

	rows := records[1:]
	groupTable := make([][]string, len(rows))
	data := &calibrationData{
		Labels: make([]int, len(rows)),
		X:      make([][]float64, len(rows)),
	}
	for i, rec := range rows {
		groupTable[i] = make([]string, len(groupIdx))
		for k, idx := range groupIdx {
			groupTable[i][k] = rec[idx]
		}
		label, err := strconv.Atoi(strings.TrimSpace(rec[labelIdx]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid label %q", path, i+2, rec[labelIdx])
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(rec[scoreIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid score %q", path, i+2, rec[scoreIdx])
		}
		data.Labels[i] = label
		data.X[i] = []float64{score}
	}

	data.Groups, err = fairness.SingleColumn(groupTable)
	if err != nil {
		return nil, err
	}
	return data, nil
}
