package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
)

type Poster struct {
	Name  string
	Phone string
}

type Job struct {
	ID            uuid.UUID
	Title         string
	Description   string
	Status        valueobject.JobStatus
	WorkersNeeded int
	Duration      int
	DurationType  valueobject.DurationType
	Location      string
	Pay           string
	Skills        []valueobject.SkillTag
	Poster        Poster
	AcceptedBy    []uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Views         int
	MatchScores   map[uuid.UUID]int
}

type NewJobParams struct {
	Title         string
	Description   string
	WorkersNeeded int
	Duration      int
	DurationType  valueobject.DurationType
	Location      string
	Pay           string
	Skills        []valueobject.SkillTag
	Poster        Poster
}

func NewJob(p NewJobParams, now time.Time) (*Job, error) {
	if p.Title == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название задания обязательно")
	}
	if p.WorkersNeeded < 1 {
		return nil, apperror.New(apperror.ErrCodeValidation, "нужен хотя бы один работник")
	}
	if p.Duration < 1 {
		return nil, apperror.New(apperror.ErrCodeValidation, "длительность должна быть положительной")
	}
	if !p.DurationType.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный тип длительности")
	}
	if p.Poster.Phone == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "телефон заказчика обязателен")
	}

	skills := make([]valueobject.SkillTag, len(p.Skills))
	copy(skills, p.Skills)

	return &Job{
		ID:            uuid.New(),
		Title:         p.Title,
		Description:   p.Description,
		Status:        valueobject.JobStatusNew,
		WorkersNeeded: p.WorkersNeeded,
		Duration:      p.Duration,
		DurationType:  p.DurationType,
		Location:      p.Location,
		Pay:           p.Pay,
		Skills:        skills,
		Poster:        p.Poster,
		AcceptedBy:    []uuid.UUID{},
		CreatedAt:     now,
		UpdatedAt:     now,
		Views:         0,
	}, nil
}

// AcceptanceRate возвращает долю занятых мест, от 0 до 1.
func (j *Job) AcceptanceRate() float64 {
	if j.WorkersNeeded <= 0 {
		return 0
	}
	return float64(len(j.AcceptedBy)) / float64(j.WorkersNeeded)
}

func (j *Job) IsFull() bool {
	return len(j.AcceptedBy) >= j.WorkersNeeded
}

func (j *Job) IsClosed() bool {
	return j.Status.IsTerminal()
}

func (j *Job) HasAccepted(workerID uuid.UUID) bool {
	for _, id := range j.AcceptedBy {
		if id == workerID {
			return true
		}
	}
	return false
}

// CheckOpen проверяет, что на задание ещё можно откликнуться.
func (j *Job) CheckOpen() error {
	if j.Status == valueobject.JobStatusCancelled {
		return apperror.ErrJobClosed
	}
	if j.Status == valueobject.JobStatusFilled || j.IsFull() {
		return apperror.ErrJobFilled
	}
	return nil
}

// Accept добавляет работника и закрывает задание, когда все места заняты.
func (j *Job) Accept(workerID uuid.UUID, now time.Time) error {
	if err := j.CheckOpen(); err != nil {
		return err
	}
	if j.HasAccepted(workerID) {
		return apperror.ErrAlreadyAccepted
	}

	j.AcceptedBy = append(j.AcceptedBy, workerID)
	if len(j.AcceptedBy) == j.WorkersNeeded {
		j.Status = valueobject.JobStatusFilled
	}
	j.UpdatedAt = now
	return nil
}

func (j *Job) RecordView() {
	j.Views++
}

// ChangeStatus применяет явное изменение статуса заказчиком.
// Отметить задание заполненным можно только когда заняты все места.
func (j *Job) ChangeStatus(status valueobject.JobStatus, now time.Time) error {
	if !status.IsValid() {
		return apperror.New(apperror.ErrCodeValidation, "некорректный статус задания")
	}

	switch status {
	case valueobject.JobStatusFilled:
		if !j.IsFull() {
			return apperror.New(apperror.ErrCodeValidation, "нельзя отметить задание заполненным, пока есть свободные места")
		}
	case valueobject.JobStatusCancelled:
		if j.Status == valueobject.JobStatusCancelled {
			return nil
		}
	default:
		if j.IsFull() {
			return apperror.New(apperror.ErrCodeConflict, "нельзя открыть задание без свободных мест")
		}
	}

	j.Status = status
	j.UpdatedAt = now
	return nil
}

// ChangeWorkersNeeded меняет количество мест. Меньше уже принявших быть не может.
func (j *Job) ChangeWorkersNeeded(n int, now time.Time) error {
	if n < 1 {
		return apperror.New(apperror.ErrCodeValidation, "нужен хотя бы один работник")
	}
	if n < len(j.AcceptedBy) {
		return apperror.New(apperror.ErrCodeConflict, "нельзя сделать мест меньше, чем уже принявших работников")
	}

	j.WorkersNeeded = n
	switch {
	case n == len(j.AcceptedBy) && j.Status != valueobject.JobStatusCancelled:
		j.Status = valueobject.JobStatusFilled
	case n > len(j.AcceptedBy) && j.Status == valueobject.JobStatusFilled:
		j.Status = valueobject.JobStatusNew
	}
	j.UpdatedAt = now
	return nil
}

type JobChanges struct {
	Title        *string
	Description  *string
	Location     *string
	Pay          *string
	Duration     *int
	DurationType *valueobject.DurationType
	Skills       []valueobject.SkillTag
}

// Update применяет непустые поля. Возвращает true, если изменилось что-то,
// от чего зависят оценки совпадения.
func (j *Job) Update(c JobChanges, now time.Time) (bool, error) {
	matchInputsChanged := false

	if c.Title != nil {
		if *c.Title == "" {
			return false, apperror.New(apperror.ErrCodeValidation, "название задания обязательно")
		}
		j.Title = *c.Title
	}
	if c.Description != nil {
		j.Description = *c.Description
	}
	if c.Pay != nil {
		j.Pay = *c.Pay
	}
	if c.Duration != nil {
		if *c.Duration < 1 {
			return false, apperror.New(apperror.ErrCodeValidation, "длительность должна быть положительной")
		}
		j.Duration = *c.Duration
	}
	if c.DurationType != nil {
		if !c.DurationType.IsValid() {
			return false, apperror.New(apperror.ErrCodeValidation, "некорректный тип длительности")
		}
		j.DurationType = *c.DurationType
	}
	if c.Location != nil && *c.Location != j.Location {
		j.Location = *c.Location
		matchInputsChanged = true
	}
	if c.Skills != nil {
		j.Skills = append([]valueobject.SkillTag(nil), c.Skills...)
		matchInputsChanged = true
	}

	j.UpdatedAt = now
	return matchInputsChanged, nil
}

func (j *Job) SetMatchScores(scores map[uuid.UUID]int) {
	j.MatchScores = scores
}

// SetMatchScore обновляет оценку одного работника в сохранённом снимке.
func (j *Job) SetMatchScore(workerID uuid.UUID, score int) {
	if j.MatchScores == nil {
		j.MatchScores = make(map[uuid.UUID]int)
	}
	j.MatchScores[workerID] = score
}

func (j *Job) IsPostedBy(phone string) bool {
	return j.Poster.Phone == phone
}

// Clone возвращает независимую копию задания.
func (j *Job) Clone() *Job {
	c := *j
	c.Skills = append([]valueobject.SkillTag(nil), j.Skills...)
	c.AcceptedBy = append([]uuid.UUID{}, j.AcceptedBy...)
	if j.MatchScores != nil {
		c.MatchScores = make(map[uuid.UUID]int, len(j.MatchScores))
		for k, v := range j.MatchScores {
			c.MatchScores[k] = v
		}
	}
	return &c
}
