package queue

import (
	"encoding/json"

	"critique/internal/domain"
)

// WelcomeJob is the welcome-queue element. Verification-queue elements are bare
// email addresses and have no envelope.
type WelcomeJob struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func EncodeWelcomeJob(job WelcomeJob) (string, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeWelcomeJob parses a welcome-queue element. Missing fields decode to
// empty strings; field presence is checked by the dispatch service.
func DecodeWelcomeJob(element string) (WelcomeJob, error) {
	var job WelcomeJob
	if err := json.Unmarshal([]byte(element), &job); err != nil {
		return WelcomeJob{}, domain.ParseError("queue.DecodeWelcomeJob", err)
	}
	return job, nil
}
