package dashboard

// Band is the qualitative label attached to a credit intelligence score.
type Band struct {
	Label string
	// Color is the hex colour of the label, Badge the background behind the score.
	Color string
	Badge string
}

var (
	BandExcellent = Band{Label: "Excellent", Color: "#059669", Badge: "#059669"}
	BandGood      = Band{Label: "Good", Color: "#F59E0B", Badge: "#D97706"}
	BandFair      = Band{Label: "Fair", Color: "#EF4444", Badge: "#DC2626"}
)

// BandFor maps a 0-100 score: >=80 excellent, >=70 good, anything else fair.
func BandFor(score float64) Band {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 70:
		return BandGood
	default:
		return BandFair
	}
}
