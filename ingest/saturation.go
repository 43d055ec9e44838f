package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Paldeepak079/AadharIQ/models"
)

// ReadSaturation reads a state, saturation CSV of percentages.
func ReadSaturation(r io.Reader, norm *Normalizer) (map[string]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read saturation header: %w", err)
	}
	stateCol, satCol := -1, -1
	for i, h := range header {
		switch StandardizeColumn(h) {
		case "state":
			stateCol = i
		case "saturation":
			satCol = i
		}
	}
	if stateCol < 0 || satCol < 0 {
		return nil, fmt.Errorf("saturation file needs state and saturation columns")
	}

	out := make(map[string]float64)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil || stateCol >= len(row) || satCol >= len(row) {
			continue
		}
		state, ok := norm.Normalize(row[stateCol])
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(row[satCol]), "%")), 64)
		if err != nil || v < 0 {
			continue
		}
		out[strings.ToUpper(state)] = v
	}
	return out, nil
}

// ApplySaturation copies known saturation percentages onto states.
func ApplySaturation(states []models.StateStats, sat map[string]float64) {
	for i := range states {
		if v, ok := sat[strings.ToUpper(states[i].State)]; ok {
			v := v
			states[i].Saturation = &v
		}
	}
}
