package valueobject

import (
	"fmt"
	"strings"

	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
)

type SkillTag string

const (
	SkillPhysicalLabor SkillTag = "physical-labor"
	SkillPackaging     SkillTag = "packaging"
	SkillPlumbing      SkillTag = "plumbing"
	SkillElectrical    SkillTag = "electrical"
	SkillTeaching      SkillTag = "teaching"
	SkillHandicraft    SkillTag = "handicraft"
	SkillCooking       SkillTag = "cooking"
	SkillCleaning      SkillTag = "cleaning"
	SkillDriving       SkillTag = "driving"
	SkillConstruction  SkillTag = "construction"
	SkillTutoring      SkillTag = "tutoring"
	SkillEmergency     SkillTag = "emergency"
)

var validSkills = map[SkillTag]struct{}{
	SkillPhysicalLabor: {},
	SkillPackaging:     {},
	SkillPlumbing:      {},
	SkillElectrical:    {},
	SkillTeaching:      {},
	SkillHandicraft:    {},
	SkillCooking:       {},
	SkillCleaning:      {},
	SkillDriving:       {},
	SkillConstruction:  {},
	SkillTutoring:      {},
	SkillEmergency:     {},
}

func (s SkillTag) IsValid() bool {
	_, ok := validSkills[s]
	return ok
}

// NewSkillTags проверяет теги и убирает повторы, сохраняя исходный порядок.
func NewSkillTags(raw []string) ([]SkillTag, error) {
	result := make([]SkillTag, 0, len(raw))
	seen := make(map[SkillTag]struct{}, len(raw))

	for _, value := range raw {
		tag := SkillTag(strings.ToLower(strings.TrimSpace(value)))
		if !tag.IsValid() {
			return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неизвестный навык %q", value))
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}

	return result, nil
}

// SkillStrings переводит теги обратно в строки для ответов и хранилища.
func SkillStrings(tags []SkillTag) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, string(tag))
	}
	return out
}
