package anomaly

import (
	"fmt"
	"math"

	"remitiq/internal/domain"

	goiforest "github.com/narumiruna/go-iforest/pkg/iforest"
)

const (
	// Each feature row needs a trailing window, and the forest needs a
	// reasonable training population before scores mean anything.
	featureWindow   = 7
	minTrainingRows = 60

	defaultNumTrees   = 200
	defaultSampleSize = 256
	defaultThreshold  = 0.6
)

// Detector flags days whose rate behavior is unusual against the
// trailing series. It trains a fresh isolation forest on every check,
// which keeps it free of persisted model state at the cost of run-to-run
// score jitter. Results are advisory context only.
type Detector struct {
	numTrees   int
	sampleSize int
	threshold  float64
}

func NewDetector() *Detector {
	return &Detector{
		numTrees:   defaultNumTrees,
		sampleSize: defaultSampleSize,
		threshold:  defaultThreshold,
	}
}

// Check scores the most recent day against a forest trained on all
// earlier days. It returns a calendar event describing the anomaly when
// the score clears the threshold.
func (d *Detector) Check(points []domain.RatePoint) (domain.MacroEvent, bool) {
	rows := featureRows(points)
	if len(rows) < minTrainingRows+1 {
		return domain.MacroEvent{}, false
	}

	train := rows[:len(rows)-1]
	latest := rows[len(rows)-1]

	means, stds := fitNormalizer(train)
	forest := goiforest.NewWithOptions(goiforest.Options{
		DetectionType: goiforest.DetectionTypeThreshold,
		Threshold:     d.threshold,
		NumTrees:      d.numTrees,
		SampleSize:    d.sampleSize,
	})
	forest.Fit(normalizeBatch(train, means, stds))

	scores := forest.Score([][]float64{normalize(latest, means, stds)})
	if len(scores) == 0 {
		return domain.MacroEvent{}, false
	}
	score := scores[0]
	if math.IsNaN(score) || math.IsInf(score, 0) || score < d.threshold {
		return domain.MacroEvent{}, false
	}

	last := points[len(points)-1]
	move := dayChangePct(points)
	impact := domain.ImpactNeutral
	if move > 0 {
		impact = domain.ImpactPositive
	} else if move < 0 {
		impact = domain.ImpactNegative
	}

	return domain.MacroEvent{
		Date:   last.Date,
		Event:  "Unusual rate movement",
		Impact: impact,
		Description: fmt.Sprintf(
			"Today's %+.2f%% move is an outlier against the last %d trading days (anomaly score %.2f).",
			move, len(train), score,
		),
	}, true
}

// featureRows turns the series into one row per day: daily return,
// deviation from the trailing average, and trailing return volatility.
func featureRows(points []domain.RatePoint) [][]float64 {
	if len(points) <= featureWindow {
		return nil
	}
	rows := make([][]float64, 0, len(points)-featureWindow)
	for i := featureWindow; i < len(points); i++ {
		ret := changePct(points[i-1].Rate, points[i].Rate)

		var sma float64
		for j := i - featureWindow; j < i; j++ {
			sma += points[j].Rate
		}
		sma /= featureWindow
		deviation := changePct(sma, points[i].Rate)

		var vol float64
		for j := i - featureWindow + 1; j <= i; j++ {
			r := changePct(points[j-1].Rate, points[j].Rate)
			vol += r * r
		}
		vol = math.Sqrt(vol / featureWindow)

		rows = append(rows, []float64{ret, deviation, vol})
	}
	return rows
}

func dayChangePct(points []domain.RatePoint) float64 {
	if len(points) < 2 {
		return 0
	}
	return changePct(points[len(points)-2].Rate, points[len(points)-1].Rate)
}

func changePct(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}

func fitNormalizer(samples [][]float64) ([]float64, []float64) {
	featureCount := len(samples[0])
	means := make([]float64, featureCount)
	stds := make([]float64, featureCount)
	for j := 0; j < featureCount; j++ {
		for i := range samples {
			means[j] += samples[i][j]
		}
		means[j] /= float64(len(samples))
		for i := range samples {
			d := samples[i][j] - means[j]
			stds[j] += d * d
		}
		stds[j] = math.Sqrt(stds[j] / float64(len(samples)))
		if stds[j] == 0 {
			stds[j] = 1
		}
	}
	return means, stds
}

func normalizeBatch(samples [][]float64, means, stds []float64) [][]float64 {
	out := make([][]float64, len(samples))
	for i := range samples {
		out[i] = normalize(samples[i], means, stds)
	}
	return out
}

func normalize(in, means, stds []float64) []float64 {
	out := make([]float64, len(in))
	for i := range in {
		out[i] = (in[i] - means[i]) / stds[i]
	}
	return out
}
