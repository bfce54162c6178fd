package domain

// SentimentPoint is one topic score returned by the chat backend
type SentimentPoint struct {
	Topic     string  `json:"topic"`
	Score     float64 `json:"score"`
	Sentiment string  `json:"sentiment,omitempty"`
}

// ChatAnswer is the chat backend response
type ChatAnswer struct {
	Answer         string           `json:"answer"`
	SentimentChart []SentimentPoint `json:"sentimentChart,omitempty"`
}
