package crisis

const maxInterventions = 3

// tiers lists the intervention priorities eligible at each risk level
var tiers = map[RiskLevel][]Priority{
	RiskCritical: {PriorityImmediate},
	RiskHigh:     {PriorityImmediate, PriorityUrgent},
	RiskMedium:   {PriorityUrgent, PriorityModerate},
	RiskLow:      {PriorityModerate, PriorityPreventive},
}

// catalog is ordered by priority; position is the tie-break between
// equally eligible entries.
var catalog = []Intervention{
	{
		ID:               "crisis-line",
		Priority:         PriorityImmediate,
		Type:             "crisis_support",
		Title:            "Talk to a crisis line now",
		Description:      "Reach a trained listener immediately. In Brazil, CVV answers 24h at 188.",
		EstimatedMinutes: 15,
		Instructions: []string{
			"Call 188 or open the CVV chat",
			"Say how you are feeling right now, in your own words",
			"If you are in immediate danger, call 192",
		},
		TriggerFactorTypes: []FactorType{FactorMoodDecline, FactorNegativeSentiment, FactorStressKeywords, FactorTrend},
	},
	{
		ID:               "trusted-contact",
		Priority:         PriorityImmediate,
		Type:             "social_support",
		Title:            "Reach out to someone you trust",
		Description:      "Let a friend or family member know you are having a hard time.",
		EstimatedMinutes: 10,
		Instructions: []string{
			"Pick one person you feel safe with",
			"Send a message or call: \"I'm not doing well, can we talk?\"",
			"Stay with them or on the line until you feel steadier",
		},
		TriggerFactorTypes: []FactorType{FactorMoodDecline, FactorNegativeSentiment, FactorJournalFrequency},
	},
	{
		ID:               "grounding-54321",
		Priority:         PriorityUrgent,
		Type:             "grounding",
		Title:            "5-4-3-2-1 grounding",
		Description:      "Bring attention back to the present through your senses.",
		EstimatedMinutes: 5,
		Instructions: []string{
			"Name 5 things you can see",
			"Name 4 things you can touch",
			"Name 3 things you can hear",
			"Name 2 things you can smell",
			"Name 1 thing you can taste",
		},
		TriggerFactorTypes: []FactorType{FactorStressKeywords, FactorNegativeSentiment},
	},
	{
		ID:               "box-breathing",
		Priority:         PriorityUrgent,
		Type:             "breathing",
		Title:            "Box breathing",
		Description:      "Slow, even breathing to calm the nervous system.",
		EstimatedMinutes: 5,
		Instructions: []string{
			"Inhale for 4 seconds",
			"Hold for 4 seconds",
			"Exhale for 4 seconds",
			"Hold for 4 seconds and repeat 6 times",
		},
		TriggerFactorTypes: []FactorType{FactorStressKeywords, FactorMoodDecline},
	},
	{
		ID:               "schedule-professional",
		Priority:         PriorityUrgent,
		Type:             "professional_help",
		Title:            "Book a session with a professional",
		Description:      "A psychologist or psychiatrist can help with what you are going through.",
		EstimatedMinutes: 10,
		Instructions: []string{
			"Look up your therapist's or a public health service contact",
			"Book the earliest available appointment",
			"Write down what you want to talk about",
		},
		TriggerFactorTypes: []FactorType{FactorMoodDecline, FactorTrend},
	},
	{
		ID:               "guided-journaling",
		Priority:         PriorityModerate,
		Type:             "journaling",
		Title:            "Guided journaling",
		Description:      "Write about what is on your mind with a short prompt.",
		EstimatedMinutes: 15,
		Instructions: []string{
			"Write what happened today that affected your mood",
			"Write how you reacted and how you felt",
			"Write one thing you could do differently tomorrow",
		},
		TriggerFactorTypes: []FactorType{FactorJournalFrequency, FactorNegativeSentiment},
	},
	{
		ID:               "short-walk",
		Priority:         PriorityModerate,
		Type:             "physical_activity",
		Title:            "Take a short walk",
		Description:      "Light movement outdoors lifts mood and breaks rumination.",
		EstimatedMinutes: 20,
		Instructions: []string{
			"Put on comfortable shoes",
			"Walk at an easy pace for 15-20 minutes",
			"Notice your surroundings instead of your phone",
		},
		TriggerFactorTypes: []FactorType{FactorMoodDecline, FactorTrend},
	},
	{
		ID:               "muscle-relaxation",
		Priority:         PriorityModerate,
		Type:             "relaxation",
		Title:            "Progressive muscle relaxation",
		Description:      "Release physical tension one muscle group at a time.",
		EstimatedMinutes: 15,
		Instructions: []string{
			"Tense your feet for 5 seconds, then release",
			"Move up through legs, abdomen, hands, arms, shoulders and face",
			"Finish with three slow breaths",
		},
		TriggerFactorTypes: []FactorType{FactorStressKeywords},
	},
	{
		ID:               "gratitude-practice",
		Priority:         PriorityPreventive,
		Type:             "mindfulness",
		Title:            "Three good things",
		Description:      "Notice what went well to balance negative thinking.",
		EstimatedMinutes: 5,
		Instructions: []string{
			"Write three things that went well today",
			"For each, write why it happened",
		},
		TriggerFactorTypes: []FactorType{FactorNegativeSentiment, FactorMoodDecline},
	},
	{
		ID:               "sleep-routine",
		Priority:         PriorityPreventive,
		Type:             "sleep_hygiene",
		Title:            "Wind-down routine",
		Description:      "A consistent evening routine protects sleep and mood.",
		EstimatedMinutes: 10,
		Instructions: []string{
			"Put screens away 30 minutes before bed",
			"Dim the lights and keep the same bedtime",
		},
		TriggerFactorTypes: []FactorType{FactorStressKeywords, FactorTrend},
	},
	{
		ID:               "daily-check-in",
		Priority:         PriorityPreventive,
		Type:             "self_monitoring",
		Title:            "Daily check-in",
		Description:      "Log your mood and a line in your journal every day.",
		EstimatedMinutes: 2,
		Instructions: []string{
			"Log your mood in the morning and evening",
			"Write at least one sentence about your day",
		},
		TriggerFactorTypes: []FactorType{FactorJournalFrequency},
	},
}

// Catalog returns a copy of the intervention catalog
func Catalog() []Intervention {
	out := make([]Intervention, len(catalog))
	for i, iv := range catalog {
		out[i] = cloneIntervention(iv)
	}
	return out
}

// selectInterventions picks up to three catalog entries for a risk level.
// Outside critical risk an entry must share a trigger with a triggered factor;
// the first tier match is used when nothing else qualifies.
func selectInterventions(level RiskLevel, factors []Factor) []Intervention {
	allowed := make(map[Priority]bool)
	for _, p := range tiers[level] {
		allowed[p] = true
	}

	triggered := make(map[FactorType]bool)
	for _, f := range factors {
		if f.Triggered() {
			triggered[f.Type] = true
		}
	}

	var tierMatches, selected []Intervention
	for _, iv := range catalog {
		if !allowed[iv.Priority] {
			continue
		}
		tierMatches = append(tierMatches, iv)
		if level == RiskCritical || sharesTrigger(iv, triggered) {
			selected = append(selected, iv)
		}
	}

	if len(selected) == 0 && len(tierMatches) > 0 {
		selected = tierMatches[:1]
	}
	if len(selected) > maxInterventions {
		selected = selected[:maxInterventions]
	}

	out := make([]Intervention, len(selected))
	for i, iv := range selected {
		out[i] = cloneIntervention(iv)
	}
	return out
}

func sharesTrigger(iv Intervention, triggered map[FactorType]bool) bool {
	for _, t := range iv.TriggerFactorTypes {
		if triggered[t] {
			return true
		}
	}
	return false
}

func cloneIntervention(iv Intervention) Intervention {
	iv.Instructions = append([]string(nil), iv.Instructions...)
	iv.TriggerFactorTypes = append([]FactorType(nil), iv.TriggerFactorTypes...)
	return iv
}
