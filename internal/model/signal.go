package model

import "time"

// LeaderKey names the record field a basket leader maximizes.
type LeaderKey string

const (
	LeaderByBias     LeaderKey = "bias"
	LeaderByPrice    LeaderKey = "price"
	LeaderByMomentum LeaderKey = "momentum"
	LeaderByScore    LeaderKey = "score"
)

// BasketSummary aggregates the records of a basket or of a filtered cohort.
// Leader is empty when no record qualified.
type BasketSummary struct {
	Name        string    `json:"name"`
	Members     int       `json:"members"`
	AverageBias float64   `json:"average_bias"`
	StrongCount int       `json:"strong_count"`
	WeakCount   int       `json:"weak_count"`
	Leader      string    `json:"leader,omitempty"`
	LeaderValue float64   `json:"leader_value"`
	LeaderKey   LeaderKey `json:"leader_key"`
	Floor       float64   `json:"floor,omitempty"`
}

// HasLeader reports whether a leader was designated.
func (b BasketSummary) HasLeader() bool { return b.Leader != "" }

// Polarity decides which sign of bias passes a scorecard factor.
type Polarity string

const (
	PolarityNormal   Polarity = "NORMAL"   // passes on bias > 0
	PolarityInverted Polarity = "INVERTED" // passes on bias < 0
)

// FactorResult is one scorecard bit.
type FactorResult struct {
	Name      string   `json:"name"`
	Symbol    string   `json:"symbol"`
	Polarity  Polarity `json:"polarity"`
	Bias      float64  `json:"bias"`
	Pass      bool     `json:"pass"`
	Available bool     `json:"available"`
}

// Regime is the qualitative reading of a scorecard score.
type Regime string

const (
	RegimeFullThrottle Regime = "full throttle"
	RegimeLeanBullish  Regime = "lean bullish"
	RegimeMixed        Regime = "mixed"
	RegimeDefensive    Regime = "defensive"
)

// Scorecard is the four-factor pass/fail reading.
type Scorecard struct {
	Factors []FactorResult `json:"factors"`
	Score   int            `json:"score"`
	Regime  Regime         `json:"regime"`
}

// RotationMode tells whether the growth instrument is favored.
type RotationMode string

const (
	RotationGrowth    RotationMode = "GROWTH"
	RotationDefensive RotationMode = "DEFENSIVE"
)

// RotationAdvice ranks the candidate set and names the instrument to favor.
type RotationAdvice struct {
	Growth      string            `json:"growth"`
	GrowthScore int               `json:"growth_score"`
	Favor       string            `json:"favor,omitempty"`
	Mode        RotationMode      `json:"mode"`
	Ranking     []IndicatorRecord `json:"ranking"`
}

// SkipReason explains why a symbol produced no output at some stage.
type SkipReason string

const (
	SkipMissingInstrument   SkipReason = "MISSING_INSTRUMENT"
	SkipInsufficientHistory SkipReason = "INSUFFICIENT_HISTORY"
	SkipDivisionDegenerate  SkipReason = "DIVISION_DEGENERATE"
	SkipInvalidPrice        SkipReason = "INVALID_PRICE"
)

// Stages at which a symbol can be skipped.
const (
	StageIndicator = "indicator"
	StageStrength  = "strength"
	StageScorecard = "scorecard"
	StageRotation  = "rotation"
)

// Skip records a symbol left out of an output set.
type Skip struct {
	Symbol string     `json:"symbol"`
	Stage  string     `json:"stage"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// Evaluation is the full output of one cycle.
type Evaluation struct {
	CycleID   string                   `json:"cycle_id"`
	AsOf      time.Time                `json:"as_of"`
	Records   []IndicatorRecord        `json:"records"`
	Strength  []RelativeStrengthRecord `json:"strength"`
	Baskets   []BasketSummary          `json:"baskets"`
	Cohorts   []BasketSummary          `json:"cohorts"`
	Scorecard *Scorecard               `json:"scorecard,omitempty"`
	Rotation  *RotationAdvice          `json:"rotation,omitempty"`
	Skipped   []Skip                   `json:"skipped"`
}

// Record returns the record for symbol, if one was produced.
func (e *Evaluation) Record(symbol string) (IndicatorRecord, bool) {
	for _, r := range e.Records {
		if r.Symbol == symbol {
			return r, true
		}
	}
	return IndicatorRecord{}, false
}
