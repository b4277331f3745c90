package store

// Deck represents a row in the decks table
type Deck struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Discipline string `json:"discipline"`
	CreatedAt  int64  `json:"created_at"` // Unix millis
}

// Section represents a row in the sections table
type Section struct {
	ID        string `json:"id"`
	DeckID    string `json:"deck_id"`
	Title     string `json:"title"`
	Position  int    `json:"position"`
	CreatedAt int64  `json:"created_at"` // Unix millis
}

// Card represents a row in the cards table
type Card struct {
	ID               string   `json:"id"`
	SectionID        string   `json:"section_id"`
	Content          string   `json:"content"`
	Tags             []string `json:"tags"` // stored as a JSON array
	Priority         bool     `json:"priority"`
	HelpfulnessScore int      `json:"helpfulness_score"`
	CreatedAt        int64    `json:"created_at"`      // Unix millis
	LastUpvotedAt    *int64   `json:"last_upvoted_at"` // Unix millis
	MarkedForMerge   bool     `json:"marked_for_merge"`
}

// CardContext is a card joined with its section and deck.
type CardContext struct {
	Card
	DeckID       string `json:"deck_id"`
	DeckName     string `json:"deck_name"`
	SectionTitle string `json:"section_title"`
	Discipline   string `json:"discipline"`
}

// Goal represents a row in the goals table
type Goal struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Discipline string `json:"discipline"`
	WeekStart  int64  `json:"week_start"` // Unix millis, Monday 00:00 local
	Done       bool   `json:"done"`
	CreatedAt  int64  `json:"created_at"` // Unix millis
}
