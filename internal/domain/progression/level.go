package progression

// AwardResult describes the effect of adding XP to a learner's total.
type AwardResult struct {
	NewXP    int
	OldLevel int
	NewLevel int

	// LeveledUp is true iff the award crossed at least one level
	// boundary. The new level value is for one-time celebratory
	// handling only; leveling never locks or unlocks content.
	LeveledUp bool
}

// level converts accumulated XP into a level: floor(xp/perLevel) + 1.
// A brand-new learner with 0 XP is level 1.
func level(xp, perLevel int) int {
	if xp < 0 {
		return 1
	}
	return xp/perLevel + 1
}

// applyXP computes the result of adding delta XP to oldXP. XP is only
// ever added; callers must persist awards through the append-only
// ledger so that concurrent triggers (a lesson completion that also
// satisfies a challenge) cannot double-count.
func applyXP(oldXP, delta int, params *Params) AwardResult {
	newXP := oldXP + delta
	oldLevel := level(oldXP, params.XPPerLevel)
	newLevel := level(newXP, params.XPPerLevel)

	return AwardResult{
		NewXP:     newXP,
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
		LeveledUp: newLevel > oldLevel,
	}
}
