package job

import (
	"context"
	"sort"
	"strings"

	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/repository"
	"github.com/ignatzorin/postjob-backend/internal/domain/status"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
	"github.com/ignatzorin/postjob-backend/internal/validation"
	"golang.org/x/text/cases"
)

const (
	SortByStatus  = "status"
	SortByUrgency = "urgency"

	FeedSnapshotKey = "jobs"
)

type ListJobsInput struct {
	Skills       []string
	DurationType string
	Search       string
	Statuses     []string
	PosterPhone  string
	Sort         string
}

type ListJobsUseCase struct {
	jobRepo repository.JobRepository
	cache   FeedCache
	clock   Clock
}

func NewListJobsUseCase(jobRepo repository.JobRepository, cache FeedCache, clock Clock) *ListJobsUseCase {
	return &ListJobsUseCase{jobRepo: jobRepo, cache: cacheOrNoop(cache), clock: clock}
}

type feedFilter struct {
	skills       []valueobject.SkillTag
	durationType valueobject.DurationType
	search       string
	statuses     map[valueobject.JobStatus]bool
	posterPhone  string
	sort         string
}

// Execute возвращает ленту со свежими статусами. Заполненные и отменённые
// задания видны только в выборке по телефону заказчика.
func (uc *ListJobsUseCase) Execute(ctx context.Context, input ListJobsInput) ([]*entity.Job, error) {
	filter, err := input.parse()
	if err != nil {
		return nil, err
	}

	all, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.clock.now()
	jobs := make([]*entity.Job, 0, len(all))
	for _, j := range all {
		status.Refresh(j, now)
		if filter.match(j) {
			jobs = append(jobs, j)
		}
	}

	sortFeed(jobs, filter.sort)
	return jobs, nil
}

// snapshot отдаёт задания из кэша или из хранилища. В кэше лежат сырые
// записи, статус и фильтры применяются к ним на каждом запросе.
func (uc *ListJobsUseCase) snapshot(ctx context.Context) ([]*entity.Job, error) {
	if jobs, ok := uc.cache.GetFeed(ctx, FeedSnapshotKey); ok {
		return jobs, nil
	}

	jobs, err := uc.jobRepo.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить задания")
	}

	uc.cache.SetFeed(ctx, FeedSnapshotKey, jobs)
	return jobs, nil
}

func (in ListJobsInput) parse() (feedFilter, error) {
	f := feedFilter{
		search:      cases.Fold().String(strings.TrimSpace(in.Search)),
		posterPhone: validation.NormalizePhone(in.PosterPhone),
		sort:        in.Sort,
	}

	skills, err := valueobject.NewSkillTags(in.Skills)
	if err != nil {
		return f, err
	}
	f.skills = skills

	if in.DurationType != "" {
		d, err := valueobject.NewDurationType(in.DurationType)
		if err != nil {
			return f, err
		}
		f.durationType = d
	}

	if len(in.Statuses) > 0 {
		f.statuses = make(map[valueobject.JobStatus]bool, len(in.Statuses))
		for _, raw := range in.Statuses {
			s, err := valueobject.NewJobStatus(strings.TrimSpace(raw))
			if err != nil {
				return f, err
			}
			f.statuses[s] = true
		}
	}

	switch f.sort {
	case "":
		f.sort = SortByStatus
	case SortByStatus, SortByUrgency:
	default:
		return f, apperror.New(apperror.ErrCodeValidation, "неизвестный порядок сортировки")
	}

	return f, nil
}

func (f feedFilter) match(j *entity.Job) bool {
	if f.posterPhone != "" {
		if !j.IsPostedBy(f.posterPhone) {
			return false
		}
	} else if j.IsClosed() {
		return false
	}

	if len(f.statuses) > 0 && !f.statuses[j.Status] {
		return false
	}
	if f.durationType != "" && j.DurationType != f.durationType {
		return false
	}
	if len(f.skills) > 0 && !hasAnySkill(j, f.skills) {
		return false
	}
	if f.search != "" {
		fold := cases.Fold()
		if !strings.Contains(fold.String(j.Title), f.search) &&
			!strings.Contains(fold.String(j.Description), f.search) {
			return false
		}
	}
	return true
}

func hasAnySkill(j *entity.Job, skills []valueobject.SkillTag) bool {
	for _, want := range skills {
		for _, have := range j.Skills {
			if want == have {
				return true
			}
		}
	}
	return false
}

func sortFeed(jobs []*entity.Job, by string) {
	sort.SliceStable(jobs, func(a, b int) bool {
		ja, jb := jobs[a], jobs[b]
		if by == SortByUrgency {
			ua, ub := status.UrgencyScore(ja), status.UrgencyScore(jb)
			if ua != ub {
				return ua > ub
			}
		} else {
			ra, rb := status.SortRank(ja.Status), status.SortRank(jb.Status)
			if ra != rb {
				return ra < rb
			}
		}
		return ja.CreatedAt.After(jb.CreatedAt)
	})
}
