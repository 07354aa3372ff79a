package tournament

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
)

// ScoringPolicy is the strongly-typed scoring configuration. It is a pure
// value: the same policy always produces the same score for the same match.
type ScoringPolicy struct {
	PointsForWin              int
	PointsForLoss             int
	FirstBloodBonus           int
	FirstTowerBonus           int
	PerfectGameBonus          int
	BonusPerKill              int
	BonusPerAssist            int
	CapPerMatch               int
	IgnoreRemakesUnderSeconds int
}

func DefaultPolicy() ScoringPolicy {
	return ScoringPolicy{
		PointsForWin:              100,
		PointsForLoss:             0,
		FirstBloodBonus:           10,
		FirstTowerBonus:           10,
		PerfectGameBonus:          50,
		BonusPerKill:              0,
		BonusPerAssist:            0,
		CapPerMatch:               0,
		IgnoreRemakesUnderSeconds: 300,
	}
}

func (p ScoringPolicy) Validate() error {
	if p.PointsForWin < 0 || p.PointsForLoss < 0 {
		return fmt.Errorf("win/loss points must not be negative")
	}
	if p.FirstBloodBonus < 0 || p.FirstTowerBonus < 0 || p.PerfectGameBonus < 0 {
		return fmt.Errorf("bonuses must not be negative")
	}
	if p.BonusPerKill < 0 || p.BonusPerAssist < 0 {
		return fmt.Errorf("per-stat bonuses must not be negative")
	}
	if p.CapPerMatch < 0 {
		return fmt.Errorf("cap per match must not be negative")
	}
	if p.IgnoreRemakesUnderSeconds < 0 {
		return fmt.Errorf("remake threshold must not be negative")
	}
	return nil
}

// rawPolicy tolerates the field spellings that stored tournaments carry:
// camelCase, snake_case, and the older points_per_win variant. Pointer fields
// distinguish absent from zero so defaults only fill true gaps.
type rawPolicy struct {
	PointsForWin  *int `json:"pointsForWin"`
	PointsForWin2 *int `json:"points_for_win"`
	PointsPerWin  *int `json:"points_per_win"`

	PointsForLoss  *int `json:"pointsForLoss"`
	PointsForLoss2 *int `json:"points_for_loss"`
	PointsPerLoss  *int `json:"points_per_loss"`

	FirstBloodBonus  *int `json:"firstBloodBonus"`
	FirstBloodBonus2 *int `json:"first_blood_bonus"`

	FirstTowerBonus  *int `json:"firstTowerBonus"`
	FirstTowerBonus2 *int `json:"first_tower_bonus"`

	PerfectGameBonus  *int `json:"perfectGameBonus"`
	PerfectGameBonus2 *int `json:"perfect_game_bonus"`

	BonusPerKill  *int `json:"bonusPerKill"`
	BonusPerKill2 *int `json:"bonus_per_kill"`

	BonusPerAssist  *int `json:"bonusPerAssist"`
	BonusPerAssist2 *int `json:"bonus_per_assist"`

	CapPerMatch  *int `json:"capPerMatch"`
	CapPerMatch2 *int `json:"cap_per_match"`

	IgnoreRemakes  *int `json:"ignoreRemakesUnderSeconds"`
	IgnoreRemakes2 *int `json:"ignore_remakes_under_seconds"`
}

// NormalizePolicy decodes a stored policy blob into a ScoringPolicy, applying
// defaults for missing fields. Shape normalization happens here once, at load
// time; scoring code only ever sees the typed struct.
func NormalizePolicy(raw []byte) (ScoringPolicy, error) {
	policy := DefaultPolicy()
	if len(raw) == 0 {
		return policy, nil
	}

	var decoded rawPolicy
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return ScoringPolicy{}, fmt.Errorf("decode scoring policy: %w", err)
	}

	assign(&policy.PointsForWin, decoded.PointsForWin, decoded.PointsForWin2, decoded.PointsPerWin)
	assign(&policy.PointsForLoss, decoded.PointsForLoss, decoded.PointsForLoss2, decoded.PointsPerLoss)
	assign(&policy.FirstBloodBonus, decoded.FirstBloodBonus, decoded.FirstBloodBonus2)
	assign(&policy.FirstTowerBonus, decoded.FirstTowerBonus, decoded.FirstTowerBonus2)
	assign(&policy.PerfectGameBonus, decoded.PerfectGameBonus, decoded.PerfectGameBonus2)
	assign(&policy.BonusPerKill, decoded.BonusPerKill, decoded.BonusPerKill2)
	assign(&policy.BonusPerAssist, decoded.BonusPerAssist, decoded.BonusPerAssist2)
	assign(&policy.CapPerMatch, decoded.CapPerMatch, decoded.CapPerMatch2)
	assign(&policy.IgnoreRemakesUnderSeconds, decoded.IgnoreRemakes, decoded.IgnoreRemakes2)

	if err := policy.Validate(); err != nil {
		return ScoringPolicy{}, fmt.Errorf("invalid scoring policy: %w", err)
	}
	return policy, nil
}

func assign(dst *int, candidates ...*int) {
	for _, c := range candidates {
		if c != nil {
			*dst = *c
			return
		}
	}
}
