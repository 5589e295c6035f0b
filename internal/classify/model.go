// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "fmt"

// LinearModel holds frozen logistic-regression weights. A binary model has
// a single coefficient row scoring Classes[1] against Classes[0]; a
// multiclass model has one row per class and the highest score wins.
type LinearModel struct {
	Classes   []string    `yaml:"classes"`
	Coef      [][]float64 `yaml:"coef"`
	Intercept []float64   `yaml:"intercept"`
}

func (m *LinearModel) validate(dim int) error {
	switch {
	case len(m.Classes) < 2:
		return fmt.Errorf("model needs at least two classes, has %d", len(m.Classes))
	case len(m.Coef) != len(m.Intercept):
		return fmt.Errorf("coef has %d rows but intercept has %d", len(m.Coef), len(m.Intercept))
	case len(m.Classes) == 2 && len(m.Coef) != 1 && len(m.Coef) != 2:
		return fmt.Errorf("binary model needs 1 or 2 coef rows, has %d", len(m.Coef))
	case len(m.Classes) > 2 && len(m.Coef) != len(m.Classes):
		return fmt.Errorf("multiclass model needs %d coef rows, has %d", len(m.Classes), len(m.Coef))
	}
	for i, row := range m.Coef {
		if len(row) != dim {
			return fmt.Errorf("coef row %d has %d columns, vectorizer has %d", i, len(row), dim)
		}
	}
	return nil
}

// Predict returns the class label for x.
func (m *LinearModel) Predict(x Vector) string {
	if len(m.Coef) == 1 {
		if x.Dot(m.Coef[0])+m.Intercept[0] > 0 {
			return m.Classes[1]
		}
		return m.Classes[0]
	}

	best, bestScore := 0, x.Dot(m.Coef[0])+m.Intercept[0]
	for i := 1; i < len(m.Coef); i++ {
		if s := x.Dot(m.Coef[i]) + m.Intercept[i]; s > bestScore {
			best, bestScore = i, s
		}
	}
	return m.Classes[best]
}
