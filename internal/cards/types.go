package cards

// Discipline partitions decks. The set of valid values comes from config.
type Discipline = string

// Card is a single piece of advice inside one section of one deck.
type Card struct {
	ID               string   `json:"id"`
	Content          string   `json:"content"`
	Tags             []string `json:"tags,omitempty"`
	Priority         bool     `json:"priority"`
	HelpfulnessScore int      `json:"helpfulness_score"`
	CreatedAt        int64    `json:"created_at"`                // Unix millis
	LastUpvotedAt    *int64   `json:"last_upvoted_at,omitempty"` // Unix millis, nil until first vote
	MarkedForMerge   bool     `json:"marked_for_merge"`
}

// DeckContext is the owning deck and section of a card, denormalized so the
// card can be handled outside its deck.
type DeckContext struct {
	DeckID       string     `json:"deck_id"`
	DeckName     string     `json:"deck_name"`
	SectionID    string     `json:"section_id"`
	SectionTitle string     `json:"section_title"`
	Discipline   Discipline `json:"discipline"`
}

// CardWithContext pairs a card with where it lives.
type CardWithContext struct {
	Card
	DeckContext
}

// ReinforcedAt is the later of the last vote and creation time.
func (c Card) ReinforcedAt() int64 {
	if c.LastUpvotedAt != nil && *c.LastUpvotedAt > c.CreatedAt {
		return *c.LastUpvotedAt
	}
	return c.CreatedAt
}

// Default section titles seeded into every new deck.
const (
	SectionReminders       = "Reminders"
	SectionTroubleshooting = "Troubleshooting"
	SectionTheory          = "Theory"
	SectionExercises       = "Exercises"
)

// DefaultSections lists the seeded sections in display order.
func DefaultSections() []string {
	return []string{SectionReminders, SectionTroubleshooting, SectionTheory, SectionExercises}
}
