package budget

// DefinedScenarios is the canonical set of budget exercises. Keep the
// kinds stable because clients and persisted tables key off them.
func DefinedScenarios() []Scenario {
	return []Scenario{
		{
			Kind:  ScenarioVariableIncome,
			Title: "Freelance year: ride out a variable income",
			Baseline: Month{
				CategoryIncome:        3200,
				CategoryHousing:       1100,
				CategoryFood:          450,
				CategoryDining:        250,
				CategoryTransport:     200,
				CategoryEntertainment: 180,
				CategoryUtilities:     150,
			},
			Discretionary: []Category{
				CategoryDining,
				CategoryEntertainment,
				CategoryFood,
				CategoryTransport,
			},
		},
		{
			Kind:  ScenarioEmergencyFund,
			Title: "Six months of safety: grow an emergency fund",
			Baseline: Month{
				CategoryIncome:        3800,
				CategoryHousing:       1200,
				CategoryFood:          500,
				CategoryDining:        300,
				CategoryTransport:     220,
				CategoryEntertainment: 200,
				CategoryUtilities:     160,
				CategoryEmergency:     250,
			},
		},
		{
			Kind:  ScenarioMajorPurchase,
			Title: "First home: save a down payment without going dark",
			Baseline: Month{
				CategoryIncome:        4500,
				CategoryHousing:       1300,
				CategoryFood:          520,
				CategoryDining:        350,
				CategoryTransport:     240,
				CategoryEntertainment: 220,
				CategoryUtilities:     170,
				CategoryDownPayment:   300,
			},
		},
		{
			Kind:  ScenarioFamilyProtection,
			Title: "New family: protect the long term",
			Baseline: Month{
				CategoryIncome:        5200,
				CategoryHousing:       1500,
				CategoryFood:          650,
				CategoryDining:        280,
				CategoryTransport:     260,
				CategoryEntertainment: 180,
				CategoryUtilities:     190,
				CategoryRetirement:    400,
			},
		},
	}
}

// ScenarioByKind looks up one of the defined scenarios.
func ScenarioByKind(kind ScenarioKind) (Scenario, error) {
	for _, s := range DefinedScenarios() {
		if s.Kind == kind {
			return s, nil
		}
	}
	return Scenario{}, ErrUnknownScenario
}
