package config

// DefaultKeywords returns the English and German rule set.
func DefaultKeywords() KeywordsConfig {
	return KeywordsConfig{
		Submission: []string{
			"application received",
			"application has been received",
			"received your application",
			"thank you for applying",
			"thanks for applying",
			"thank you for your application",
			"application confirmation",
			"bewerbung eingegangen",
			"bewerbung ist eingegangen",
			"bewerbung erhalten",
			"vielen dank für ihre bewerbung",
			"danke für ihre bewerbung",
			"eingangsbestätigung",
		},
		Interview: []string{
			"interview",
			"would like to invite",
			"invite you to",
			"schedule a call",
			"phone screen",
			"availability for a call",
			"vorstellungsgespräch",
			"einladen",
			"einladung zum gespräch",
			"kennenlerngespräch",
		},
		Rejection: []string{
			"regret to inform",
			"not selected",
			"unfortunately",
			"not moving forward",
			"not be moving forward",
			"decided to pursue other candidates",
			"position has been filled",
			"not been successful",
			"leider",
			"nicht erfolgreich",
			"absage",
			"nicht berücksichtigen",
			"anderen kandidaten",
		},
		Acknowledgement: [][]string{
			{"thank", "application"},
			{"danke", "bewerbung"},
		},
		Related: []string{"application"},
	}
}
