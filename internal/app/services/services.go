package services

import (
	"github.com/tahmid/qpaper/internal/app/repositories"
	"github.com/tahmid/qpaper/internal/db"
	"github.com/tahmid/qpaper/internal/pkg/auth"
	"github.com/tahmid/qpaper/internal/pkg/filestorage"
)

// Services bundles every service for injection into controllers.
type Services struct {
	Auth        AuthService
	Users       UserService
	Questions   QuestionService
	Departments DepartmentService
	Courses     CourseService
	Semesters   SemesterService
	ExamTypes   ExamTypeService
	Contact     ContactService
}

// NewServices wires the service layer over the repositories. views may
// be nil when the Redis view cache is disabled.
func NewServices(
	repos *repositories.Repositories,
	database *db.PostgresDB,
	jwtService *auth.JWTService,
	storage filestorage.FileStorage,
	views viewRecorder,
	maxUploadBytes int64,
) *Services {
	return &Services{
		Auth:  NewAuthService(repos.Users, repos.Tokens, jwtService),
		Users: NewUserService(repos.Users, repos.Tokens),
		Questions: NewQuestionService(
			repos.Questions,
			repos.Departments,
			repos.Courses,
			repos.Semesters,
			repos.ExamTypes,
			repos.FilterOptions,
			storage,
			views,
			maxUploadBytes,
		),
		Departments: NewDepartmentService(repos.Departments, database),
		Courses:     NewCourseService(repos.Courses, repos.Departments, database),
		Semesters:   NewSemesterService(repos.Semesters, database),
		ExamTypes:   NewExamTypeService(repos.ExamTypes, database),
		Contact:     NewContactService(repos.Contacts),
	}
}
