package routing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTaskType is returned for names outside the task enumeration
var ErrUnknownTaskType = errors.New("unknown task type")

// TaskType classifies a completion for routing and prompt selection.
type TaskType string

const (
	TaskClaimTriage        TaskType = "claim_triage"
	TaskQuestionGeneration TaskType = "question_generation"
	TaskCoverageAnalysis   TaskType = "coverage_analysis"
	TaskFileNotes          TaskType = "file_notes"
	TaskExtraction         TaskType = "extraction"
	TaskGeneral            TaskType = "general"
)

// TaskTypes returns every task type in declaration order.
func TaskTypes() []TaskType {
	return []TaskType{
		TaskClaimTriage,
		TaskQuestionGeneration,
		TaskCoverageAnalysis,
		TaskFileNotes,
		TaskExtraction,
		TaskGeneral,
	}
}

// ParseTaskType converts a name into a TaskType. An empty name means general.
func ParseTaskType(name string) (TaskType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return TaskGeneral, nil
	}
	for _, t := range TaskTypes() {
		if string(t) == n {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTaskType, name)
}
