package quotes

import (
	"math/rand"
	"testing"
)

func TestMotivationalNeverRepeatsBackToBack(t *testing.T) {
	picker := NewPicker(rand.NewSource(1))

	previous := picker.Motivational()
	for i := 0; i < 200; i++ {
		quote := picker.Motivational()
		if quote == previous {
			t.Fatalf("quote repeated back to back: %q", quote.Text)
		}
		previous = quote
	}
}

func TestBreakNeverRepeatsBackToBack(t *testing.T) {
	picker := NewPicker(rand.NewSource(1))

	previous := picker.Break()
	for i := 0; i < 200; i++ {
		quote := picker.Break()
		if quote == previous {
			t.Fatalf("quote repeated back to back: %q", quote.Text)
		}
		previous = quote
	}
}

func TestQuotesHaveTextAndAuthor(t *testing.T) {
	for _, quote := range motivational {
		if quote.Text == "" || quote.Author == "" {
			t.Errorf("incomplete quote: %+v", quote)
		}
	}
	for _, quote := range breaks {
		if quote.Text == "" || quote.Author == "" {
			t.Errorf("incomplete quote: %+v", quote)
		}
	}
}
