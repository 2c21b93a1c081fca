package models

// EvalLead is one human-labeled ground-truth row for prompt optimization.
// A nil ExpectedRank means the lead is expected to be marked irrelevant.
type EvalLead struct {
	FullName      string `json:"fullName"`
	Title         string `json:"title"`
	Company       string `json:"company"`
	LinkedInURL   string `json:"linkedInUrl,omitempty"`
	EmployeeRange string `json:"employeeRange,omitempty"`
	ExpectedRank  *int   `json:"expectedRank"`
}

// PromptCandidate is one versioned prompt variant inside the genetic
// algorithm. Candidates live in memory; only the run's best is persisted.
type PromptCandidate struct {
	Content       string
	Version       int
	Fitness       float64
	Generation    int
	ParentVersion *int
}

// Preview returns the first 200 characters of the candidate's content.
// Truncation counts runes so a multi-byte character is never split.
func (c *PromptCandidate) Preview() string {
	const max = 200
	if len(c.Content) <= max {
		return c.Content
	}
	runes := []rune(c.Content)
	if len(runes) <= max {
		return c.Content
	}
	return string(runes[:max])
}

// OptimizerConfig bounds one genetic optimization run. Zero values are
// filled with defaults and out-of-range values clamped by Normalize.
type OptimizerConfig struct {
	PopulationSize int     `json:"populationSize,omitempty"`
	Generations    int     `json:"generations,omitempty"`
	SampleSize     int     `json:"sampleSize,omitempty"`
	MutationRate   float64 `json:"mutationRate,omitempty"`
	EliteCount     int     `json:"eliteCount,omitempty"`
	TournamentSize int     `json:"tournamentSize,omitempty"`
}

func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		PopulationSize: 6,
		Generations:    5,
		SampleSize:     30,
		MutationRate:   0.7,
		EliteCount:     2,
		TournamentSize: 3,
	}
}

// Normalize fills defaults and clamps every knob into its allowed range.
func (c *OptimizerConfig) Normalize() {
	def := DefaultOptimizerConfig()
	if c.PopulationSize == 0 {
		c.PopulationSize = def.PopulationSize
	}
	if c.Generations == 0 {
		c.Generations = def.Generations
	}
	if c.SampleSize == 0 {
		c.SampleSize = def.SampleSize
	}
	if c.MutationRate == 0 {
		c.MutationRate = def.MutationRate
	}
	if c.EliteCount == 0 {
		c.EliteCount = def.EliteCount
	}
	c.TournamentSize = def.TournamentSize

	c.PopulationSize = clampInt(c.PopulationSize, 3, 20)
	c.Generations = clampInt(c.Generations, 1, 20)
	c.SampleSize = clampInt(c.SampleSize, 10, 100)
	if c.MutationRate < 0 {
		c.MutationRate = 0
	}
	if c.MutationRate > 1 {
		c.MutationRate = 1
	}
	if c.EliteCount >= c.PopulationSize {
		c.EliteCount = c.PopulationSize - 1
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// OptimizationStatus mirrors RankingStatus for optimizer runs.
type OptimizationStatus string

const (
	OptimizationStatusIdle      OptimizationStatus = "idle"
	OptimizationStatusRunning   OptimizationStatus = "running"
	OptimizationStatusCompleted OptimizationStatus = "completed"
	OptimizationStatusError     OptimizationStatus = "error"
)

// OptimizationProgress is the live, poll-only view of one optimizer run.
type OptimizationProgress struct {
	Status                   OptimizationStatus `json:"status"`
	CurrentGeneration        int                `json:"currentGeneration"`
	TotalGenerations         int                `json:"totalGenerations"`
	PopulationSize           int                `json:"populationSize"`
	BestFitness              float64            `json:"bestFitness"`
	CurrentBestPromptPreview string             `json:"currentBestPromptPreview,omitempty"`
	EvaluationsRun           int                `json:"evaluationsRun"`
	Error                    string             `json:"error,omitempty"`
}
