package who

// ruleContext is what a recommendation predicate may look at.
type ruleContext struct {
	Classification Classification
	Band           Band
	Score          float64
	Findings       []Finding
}

func (ctx ruleContext) unhealthyAt(site Site) bool {
	for _, f := range ctx.Findings {
		if f.Site == site && f.Unhealthy() {
			return true
		}
	}
	return false
}

// Rule pairs a predicate with a recommendation. Rules are evaluated in
// declaration order, so the output list is deterministic and auditable:
// same report, same recommendations, same order.
type Rule struct {
	Name string
	When func(ruleContext) bool
	Text string
}

// Rules is the ordered recommendation table.
type Rules []Rule

func (r Rules) validate() error {
	if len(r) == 0 {
		return &ConfigurationError{Reason: "recommendation rule table empty"}
	}
	seen := make(map[string]struct{}, len(r))
	for _, rule := range r {
		if rule.Name == "" || rule.When == nil || rule.Text == "" {
			return &ConfigurationError{Reason: "recommendation rule missing name, predicate or text"}
		}
		if _, dup := seen[rule.Name]; dup {
			return &ConfigurationError{Reason: "duplicate recommendation rule " + rule.Name}
		}
		seen[rule.Name] = struct{}{}
	}
	return nil
}

func (r Rules) evaluate(ctx ruleContext) []string {
	out := make([]string, 0, 6)
	for _, rule := range r {
		if rule.When(ctx) {
			out = append(out, rule.Text)
		}
	}
	return out
}

// DefaultRules carries the original recommendation texts, reorganized from
// scattered branches into one ordered table: dietary guidance first, then
// lifestyle, hydration, and finding-specific follow-ups.
func DefaultRules() Rules {
	return Rules{
		{
			Name: "diet-underweight",
			When: func(ctx ruleContext) bool { return ctx.Classification == ClassUnderweight },
			Text: "Increase caloric intake with nutrient-dense foods. Focus on protein-rich foods, healthy fats, and complex carbohydrates. Consider 5-6 small meals per day. Include dairy, eggs, lean meats, nuts, and whole grains.",
		},
		{
			Name: "diet-overweight",
			When: func(ctx ruleContext) bool {
				return ctx.Classification == ClassOverweight || ctx.Classification == ClassObese
			},
			Text: "Focus on portion control and balanced nutrition. Increase vegetables, fruits, and lean proteins. Reduce processed foods, sugary drinks, and excessive fats. Aim for regular meal timing and avoid skipping meals.",
		},
		{
			Name: "diet-balanced",
			When: func(ctx ruleContext) bool { return ctx.Classification == ClassNormal },
			Text: "Maintain balanced nutrition with variety. Include all food groups: proteins, carbohydrates, healthy fats, vitamins, and minerals. Focus on whole foods over processed options.",
		},
		{
			Name: "lifestyle-urgent",
			When: func(ctx ruleContext) bool { return ctx.Score > 60 },
			Text: "Immediate attention required. Establish regular sleep patterns, reduce screen time, and increase physical activity. Consider stress management techniques and family counseling.",
		},
		{
			Name: "lifestyle-adjust",
			When: func(ctx ruleContext) bool { return ctx.Score > 40 && ctx.Score <= 60 },
			Text: "Moderate lifestyle changes needed. Increase physical activity to 60 minutes daily, improve sleep hygiene, and reduce sedentary behavior. Establish regular routines.",
		},
		{
			Name: "lifestyle-maintain",
			When: func(ctx ruleContext) bool { return ctx.Score <= 40 },
			Text: "Maintain healthy habits. Continue regular physical activity, adequate sleep (8-10 hours), and balanced daily routines. Monitor growth patterns regularly.",
		},
		{
			Name: "hydration-monitor",
			When: func(ctx ruleContext) bool { return ctx.Score > 50 },
			Text: "Ensure adequate hydration: 6-8 glasses of water daily. Monitor urine color (should be light yellow). Increase fluids during physical activity and hot weather.",
		},
		{
			Name: "hydration-maintain",
			When: func(ctx ruleContext) bool { return ctx.Score <= 50 },
			Text: "Maintain good hydration habits: 6-8 glasses of water daily. Include water-rich foods like fruits and vegetables.",
		},
		{
			Name: "skin-followup",
			When: func(ctx ruleContext) bool { return ctx.unhealthyAt(SiteSkin) },
			Text: "Skin texture or color patterns suggest a potential nutritional concern. Optimize hydration and review for micronutrient gaps (vitamin A/E, zinc). If changes persist beyond two weeks or become symptomatic, seek clinician review.",
		},
		{
			Name: "nail-followup",
			When: func(ctx ruleContext) bool { return ctx.unhealthyAt(SiteNail) },
			Text: "Nail surface features may reflect iron or protein deficiency. Watch for brittleness, discoloration, or periungual swelling over the coming weeks and discuss a diet rich in iron, protein, and biotin.",
		},
		{
			Name: "consult-professional",
			When: func(ctx ruleContext) bool {
				return ctx.Score > 40 || ctx.Classification == ClassUnderweight || ctx.Classification == ClassObese
			},
			Text: "Based on this assessment, consulting a healthcare professional is recommended for further evaluation and guidance.",
		},
	}
}
