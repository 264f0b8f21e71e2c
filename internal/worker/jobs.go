// Package worker dispatches push notification jobs received over Pub/Sub.
package worker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/clinicmate/clinicmate/internal/pushrelay"
)

// Job types.
const (
	JobTypePushSend    = "push_send"
	JobTypeHealthCheck = "health_check"
)

// ErrMalformedJob is returned for payloads that cannot be processed.
var ErrMalformedJob = errors.New("malformed job")

// Job is the Pub/Sub message envelope.
type Job struct {
	JobType string             `json:"job_type"`
	Message *pushrelay.Message `json:"message,omitempty"`
}

// ParseJob decodes a job envelope.
func ParseJob(data []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}
	if job.JobType == "" {
		return Job{}, fmt.Errorf("%w: missing job_type", ErrMalformedJob)
	}
	return job, nil
}

// EncodePushSend builds a push_send job for msg.
func EncodePushSend(msg pushrelay.Message) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(Job{JobType: JobTypePushSend, Message: &msg})
}
