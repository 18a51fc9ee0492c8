package models

// Phase is the stage of a practice session
type Phase string

const (
	PhaseTopicList Phase = "topic-list"
	PhasePreview   Phase = "preview"
	PhasePlaying   Phase = "playing"
)

// Stats are derived counts over a session's items
type Stats struct {
	DiscoveredCount int `json:"discoveredCount"`
	MasteredCount   int `json:"masteredCount"`
	TotalCount      int `json:"totalCount"`
}

// ComputeStats counts revealed and mastered items
func ComputeStats(items []VocabItem) Stats {
	s := Stats{TotalCount: len(items)}
	for _, item := range items {
		if item.Status.Revealed() {
			s.DiscoveredCount++
		}
		if item.Status == StatusMastered {
			s.MasteredCount++
		}
	}
	return s
}

// SessionState is a point-in-time snapshot of a session
type SessionState struct {
	Phase         Phase       `json:"phase"`
	ActiveTopicID string      `json:"activeTopicId,omitempty"`
	TopicName     string      `json:"topicName,omitempty"`
	Items         []VocabItem `json:"items"`
	Score         int         `json:"score"`
	Stats         Stats       `json:"stats"`
}
