package model

import "time"

// SolveRequest — тело POST /solve
type SolveRequest struct {
	Question  string `json:"question"`
	Processor string `json:"processor,omitempty"`
}

// ResultView — результат процессора в JSON
type ResultView struct {
	Processor string `json:"processor"`
	OK        bool   `json:"ok"`
	Answer    string `json:"answer,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SolveResponse — вопрос и ответы всех процессоров
type SolveResponse struct {
	Question string       `json:"question"`
	Results  []ResultView `json:"results"`
}

// Answer — строка истории
type Answer struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Processor string    `json:"processor"`
	Answer    string    `json:"answer,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
