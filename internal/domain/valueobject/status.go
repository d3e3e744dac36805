package valueobject

import "github.com/ignatzorin/postjob-backend/internal/pkg/apperror"

type JobStatus string

const (
	JobStatusNew       JobStatus = "new"
	JobStatusHot       JobStatus = "hot"
	JobStatusFilling   JobStatus = "filling"
	JobStatusFilled    JobStatus = "filled"
	JobStatusCancelled JobStatus = "cancelled"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusNew, JobStatusHot, JobStatusFilling, JobStatusFilled, JobStatusCancelled:
		return true
	}
	return false
}

// IsTerminal сообщает, что статус больше не пересчитывается.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusFilled || s == JobStatusCancelled
}

func NewJobStatus(status string) (JobStatus, error) {
	s := JobStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус задания")
	}
	return s, nil
}

type DurationType string

const (
	DurationHours DurationType = "hours"
	DurationDays  DurationType = "days"
	DurationWeeks DurationType = "weeks"
)

func (d DurationType) IsValid() bool {
	switch d {
	case DurationHours, DurationDays, DurationWeeks:
		return true
	}
	return false
}

func NewDurationType(value string) (DurationType, error) {
	d := DurationType(value)
	if !d.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный тип длительности")
	}
	return d, nil
}
