package service

import (
	"context"
	"testing"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/merial523/graduate-git/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture 一个内存库上的全部仓储
type fixture struct {
	db        *gorm.DB
	users     *repository.UserRepository
	exams     *repository.ExamRepository
	badges    *repository.BadgeRepository
	questions *repository.QuestionRepository
	results   *repository.ResultRepository
	courses   *repository.CourseRepository
	modules   *repository.ModuleRepository
	progress  *repository.ProgressRepository
	news      *repository.NewsRepository
	mylists   *repository.MylistRepository
	constants *repository.ConstantRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:        db,
		users:     repository.NewUserRepository(db),
		exams:     repository.NewExamRepository(db),
		badges:    repository.NewBadgeRepository(db),
		questions: repository.NewQuestionRepository(db),
		results:   repository.NewResultRepository(db),
		courses:   repository.NewCourseRepository(db),
		modules:   repository.NewModuleRepository(db),
		progress:  repository.NewProgressRepository(db),
		news:      repository.NewNewsRepository(db),
		mylists:   repository.NewMylistRepository(db),
		constants: repository.NewConstantRepository(db),
	}
}

func (f *fixture) examService() *ExamService {
	return NewExamService(f.db, f.exams, f.badges)
}

func (f *fixture) gradingService() *GradingService {
	return NewGradingService(f.db, f.exams, f.questions, f.results)
}

func (f *fixture) courseService() *CourseService {
	return NewCourseService(f.db, f.courses, f.modules)
}

func (f *fixture) progressService() *ProgressService {
	return NewProgressService(f.db, f.courses, f.modules, f.progress)
}

func (f *fixture) user(t *testing.T, username string, rank model.UserRank) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Rank:     rank,
		IsActive: true,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) exam(t *testing.T, title string, typ model.ExamType, prereq *uint) *model.Exam {
	t.Helper()
	exam, err := f.examService().CreateExam(context.Background(), CreateExamRequest{
		Title:          title,
		ExamType:       typ,
		PrerequisiteID: prereq,
	})
	require.NoError(t, err)
	return exam
}

// question 第一个选项为正确答案
func (f *fixture) question(t *testing.T, examID uint, text string) *model.Question {
	t.Helper()
	q := &model.Question{
		ExamID: examID,
		Text:   text,
		Choices: []model.Choice{
			{Text: "正解", IsCorrect: true},
			{Text: "不正解"},
		},
	}
	require.NoError(t, f.questions.Create(context.Background(), q))
	return q
}

func (f *fixture) course(t *testing.T, subject string, modules int) (*model.Course, []*model.TrainingModule) {
	t.Helper()
	ctx := context.Background()
	svc := f.courseService()
	c, err := svc.CreateCourse(ctx, CourseRequest{Subject: subject})
	require.NoError(t, err)
	out := make([]*model.TrainingModule, 0, modules)
	for i := 0; i < modules; i++ {
		m, err := svc.CreateModule(ctx, c.ID, ModuleRequest{Title: subject + " module", Order: i})
		require.NoError(t, err)
		out = append(out, m)
	}
	return c, out
}

func ptr[T any](v T) *T {
	return &v
}
