package deck

var sampleColors = []struct{ label, color string }{
	{"Pink", "#ff2d55"},
	{"Red", "#ff3b30"},
	{"Orange", "#ff9500"},
	{"Brown", "#a2845e"},
	{"Yellow", "#ffcc00"},
	{"Green", "#34c759"},
	{"Mint", "#00c7be"},
	{"Cyan", "#32ade6"},
	{"Teal", "#30b0c7"},
	{"Blue", "#007aff"},
	{"Purple", "#af52de"},
	{"Gray", "#8e8e93"},
}

// Sample returns the twelve-card demo deck: 200x350 cards, five side cards,
// a 15 degree tilt and one card per system color.
func Sample() *Deck {
	d := &Deck{
		Fan: Settings{
			CardWidth:        200,
			CardHeight:       350,
			MinCardScale:     0.5,
			MaxXTranslate:    80,
			MaxRotationDeg:   -15,
			VisibleSideCards: 5,
			ViewWidth:        DefaultViewWidth,
			ViewHeight:       DefaultViewHeight,
		},
	}
	for _, c := range sampleColors {
		d.Cards = append(d.Cards, Card{Label: c.label, Color: c.color})
	}
	d.fillCards()
	return d
}
