package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/edulens/edulens/internal/frame"
	"github.com/edulens/edulens/pkg/logger"
)

// Splitter performs the randomized holdout split. The seed is fixed per
// splitter so a rerun over the same data yields the same partition.
type Splitter struct {
	testRatio float64
	seed      int64
	logger    *logger.Logger
}

// Split holds the train/test partition: a disjoint cover of all labeled
// rows, features and labels aligned within each side.
type Split struct {
	TrainSubjects []string
	TestSubjects  []string
	TrainX        *frame.Frame
	TestX         *frame.Frame
	TrainY        []float64
	TestY         []float64
}

// NewSplitter creates a splitter with the given holdout ratio and seed.
func NewSplitter(testRatio float64, seed int64, log *logger.Logger) *Splitter {
	return &Splitter{
		testRatio: testRatio,
		seed:      seed,
		logger:    log,
	}
}

// Split shuffles the labeled rows and holds out ceil(n·ratio) of them as
// the test set. Both sides keep features and labels row-aligned.
func (s *Splitter) Split(labeled *Labeled) (*Split, error) {
	if s.testRatio <= 0 || s.testRatio >= 1 {
		return nil, fmt.Errorf("test ratio must be in (0, 1), got %v", s.testRatio)
	}

	n := labeled.Len()
	nTest := int(math.Ceil(s.testRatio * float64(n)))
	if nTest == 0 || nTest >= n {
		return nil, fmt.Errorf("cannot split %d rows with test ratio %v", n, s.testRatio)
	}

	perm := rand.New(rand.NewSource(s.seed)).Perm(n)
	testIdx := perm[:nTest]
	trainIdx := perm[nTest:]

	trainX, err := labeled.Features.SelectRows(trainIdx)
	if err != nil {
		return nil, err
	}
	testX, err := labeled.Features.SelectRows(testIdx)
	if err != nil {
		return nil, err
	}

	split := &Split{
		TrainX: trainX,
		TestX:  testX,
	}
	for _, i := range trainIdx {
		split.TrainSubjects = append(split.TrainSubjects, labeled.Subjects[i])
		split.TrainY = append(split.TrainY, labeled.Labels[i])
	}
	for _, i := range testIdx {
		split.TestSubjects = append(split.TestSubjects, labeled.Subjects[i])
		split.TestY = append(split.TestY, labeled.Labels[i])
	}

	s.logger.WithFields(map[string]interface{}{
		"total": n,
		"train": len(trainIdx),
		"test":  len(testIdx),
		"seed":  s.seed,
	}).Info("Split labeled dataset")

	return split, nil
}
