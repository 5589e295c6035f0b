// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Prediction is one classifier-only verdict.
type Prediction struct {
	Filename    string `json:"filename" yaml:"filename"`
	Publishable bool   `json:"predicted_publishable" yaml:"predicted_publishable"`
	Conference  string `json:"predicted_conf" yaml:"predicted_conf"`
}

// WritePredictions writes classifier-only verdicts with publishability as 0 or 1.
func WritePredictions(w io.Writer, preds []Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"filename", "predicted_publishable", "predicted_conf"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, p := range preds {
		flag := "0"
		if p.Publishable {
			flag = "1"
		}
		if err := cw.Write([]string{p.Filename, flag, p.Conference}); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", p.Filename, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
