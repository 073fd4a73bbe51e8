package dataset

import (
	"fmt"

	"github.com/edulens/edulens/internal/contracts"
	"github.com/edulens/edulens/internal/frame"
)

// Labeled is the inner join of the wide feature table with the label
// table: features and labels are aligned row for row, and the subject key
// is carried separately instead of as a feature column.
type Labeled struct {
	Subjects []string
	Features *frame.Frame
	Labels   []float64
}

// Len returns the number of labeled rows.
func (l *Labeled) Len() int {
	return len(l.Subjects)
}

// JoinLabels inner-joins the wide table with the labels on subject ID,
// keeping the wide table's row order. Subjects without a label are
// dropped (they are unusable for supervised learning); labels without
// features are ignored. An empty intersection is a fatal ErrNoOverlap.
func JoinLabels(wide *frame.Frame, labels []contracts.Label) (*Labeled, error) {
	byID := make(map[string]float64, len(labels))
	for _, l := range labels {
		if _, dup := byID[l.SubjectID]; dup {
			return nil, fmt.Errorf("duplicate label for subject %q", l.SubjectID)
		}
		byID[l.SubjectID] = l.Value
	}

	var indices []int
	var subjects []string
	var values []float64
	for i, key := range wide.Keys() {
		v, ok := byID[key]
		if !ok {
			continue
		}
		indices = append(indices, i)
		subjects = append(subjects, key)
		values = append(values, v)
	}

	if len(indices) == 0 {
		return nil, contracts.ErrNoOverlap
	}

	features, err := wide.SelectRows(indices)
	if err != nil {
		return nil, err
	}

	return &Labeled{
		Subjects: subjects,
		Features: features,
		Labels:   values,
	}, nil
}
