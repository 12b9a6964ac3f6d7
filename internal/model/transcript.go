package model

import "time"

// QAPair is one question/answer exchange in a chat session transcript.
type QAPair struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}
