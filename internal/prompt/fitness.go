package prompt

import "fmt"

// maxRankDistance is the largest possible gap between two ranks on the
// 1-10 scale. Model output outside that range is not clamped, so a single
// prediction's score can go negative; the overall mean is reported as-is.
const maxRankDistance = 9.0

// Prediction pairs a model-predicted rank with the expected ground truth.
// Failed marks a prediction whose evaluation call never produced output;
// it scores zero regardless of the expected value.
type Prediction struct {
	Predicted *int
	Expected  *int
	Failed    bool
}

// FitnessReport is the outcome of scoring one candidate prompt against a
// sample: a [0,1] fitness plus an error-pattern breakdown whose hints feed
// the mutation operator.
type FitnessReport struct {
	Fitness        float64
	FalsePositives int
	FalseNegatives int
	RankTooHigh    int
	RankTooLow     int
	Hints          []string
}

// ScoreFitness computes the mean per-prediction score and the error-pattern
// summary. An empty prediction set scores zero.
func ScoreFitness(preds []Prediction) FitnessReport {
	var report FitnessReport
	if len(preds) == 0 {
		return report
	}

	var sum float64
	for _, p := range preds {
		sum += scorePrediction(p)

		if p.Failed {
			continue
		}
		switch {
		case p.Predicted != nil && p.Expected == nil:
			report.FalsePositives++
		case p.Predicted == nil && p.Expected != nil:
			report.FalseNegatives++
		case p.Predicted != nil && p.Expected != nil && *p.Predicted < *p.Expected:
			report.RankTooHigh++
		case p.Predicted != nil && p.Expected != nil && *p.Predicted > *p.Expected:
			report.RankTooLow++
		}
	}

	report.Fitness = sum / float64(len(preds))
	report.Hints = buildHints(report)
	return report
}

// scorePrediction: classification mismatch scores 0, matching irrelevance
// scores 1, and two ranks score by normalized distance.
func scorePrediction(p Prediction) float64 {
	if p.Failed {
		return 0
	}
	if (p.Predicted == nil) != (p.Expected == nil) {
		return 0
	}
	if p.Predicted == nil {
		return 1
	}
	diff := *p.Predicted - *p.Expected
	if diff < 0 {
		diff = -diff
	}
	return 1 - float64(diff)/maxRankDistance
}

func buildHints(r FitnessReport) []string {
	var hints []string
	if r.FalsePositives > 0 {
		hints = append(hints, fmt.Sprintf(
			"%d leads were ranked that should have been marked irrelevant. Tighten the exclusion criteria so out-of-scope roles get null.", r.FalsePositives))
	}
	if r.FalseNegatives > 0 {
		hints = append(hints, fmt.Sprintf(
			"%d relevant leads were marked irrelevant. Loosen the exclusion criteria so fitting roles receive a rank.", r.FalseNegatives))
	}
	if r.RankTooHigh > 0 {
		hints = append(hints, fmt.Sprintf(
			"%d leads were ranked more favorably than expected. Be stricter about reserving top ranks for the strongest persona matches.", r.RankTooHigh))
	}
	if r.RankTooLow > 0 {
		hints = append(hints, fmt.Sprintf(
			"%d leads were ranked less favorably than expected. Give clearly fitting roles better ranks.", r.RankTooLow))
	}
	return hints
}
