package recall

import "errors"

var (
	ErrTopicNotFound = errors.New("topic not found")
	ErrItemNotFound  = errors.New("item not found")
	ErrNoActiveTopic = errors.New("no topic selected")
	ErrEmptyTopic    = errors.New("topic has no vocabulary")
	ErrEmptyName     = errors.New("topic name is required")
	ErrInvalidItem   = errors.New("vocabulary item needs a word and at least one synonym")
)

// DiscoverOutcome is the result of a discovery attempt
type DiscoverOutcome int

const (
	Discovered DiscoverOutcome = iota
	AlreadyRevealed
	NotFound
)

func (o DiscoverOutcome) String() string {
	switch o {
	case Discovered:
		return "discovered"
	case AlreadyRevealed:
		return "already_revealed"
	default:
		return "not_found"
	}
}

// Message renders a user-facing line for the outcome
func (o DiscoverOutcome) Message(word string) string {
	switch o {
	case Discovered:
		return `Discovered: "` + word + `"!`
	case AlreadyRevealed:
		return `"` + word + `" is already revealed.`
	default:
		return "Word not found. Try another spelling!"
	}
}
