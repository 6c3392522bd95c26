package corpus

import "github.com/sepme/sepme/internal/scoring"

// PlaceholderNotice is shown whenever placeholder items are in play.
const PlaceholderNotice = "Sample essays: the real corpus could not be loaded, these are synthetic examples."

// Placeholder returns the built-in synthetic corpus for category. Every item
// is marked Synthetic and uses negative IDs so it can never collide with a
// real record or resolve to a real feedback image.
func Placeholder(category Category) []Item {
	items := []Item{
		{
			ID:     -1,
			Text:   "[Sample essay] I think school should start later. Students are tired in the morning. When they sleep more they learn more. So school should start at ten.",
			Grade:  3,
			Scores: scoring.Scores{Content: 9, Organization: 6, Expression: 6},
		},
		{
			ID: -2,
			Text: "[Sample essay] Libraries matter to a town for three reasons. First, they give everyone free access to books and the internet. " +
				"Second, they offer a quiet place to study. Finally, they host events that bring neighbours together. " +
				"For these reasons our town should fund its library instead of closing it.",
			Grade:  1,
			Scores: scoring.Scores{Content: 16, Organization: 11, Expression: 10},
		},
		{
			ID:     -3,
			Text:   "[Sample essay] Phones. Phones are good and bad. I like games. Some people dont like it. The end.",
			Grade:  5,
			Scores: scoring.Scores{Content: 4, Organization: 3, Expression: 3},
		},
	}
	for i := range items {
		items[i].Category = category
		items[i].Key = "placeholder"
		items[i].Synthetic = true
	}
	return items
}
