package repositories

// Repositories holds all the repository instances. Constructed once at
// startup and injected into services; no module-level singletons.
type Repositories struct {
	Departments   *DepartmentRepository
	Courses       *CourseRepository
	Semesters     *SemesterRepository
	ExamTypes     *ExamTypeRepository
	Users         *UserRepository
	Questions     *QuestionRepository
	Contacts      *ContactRepository
	Tokens        *TokenRepository
	FilterOptions *FilterOptionsRepository
}

// NewRepositories initializes all repositories over one shared pool.
func NewRepositories(db Querier) *Repositories {
	departments := NewDepartmentRepository(db)
	courses := NewCourseRepository(db)
	semesters := NewSemesterRepository(db)
	examTypes := NewExamTypeRepository(db)

	return &Repositories{
		Departments:   departments,
		Courses:       courses,
		Semesters:     semesters,
		ExamTypes:     examTypes,
		Users:         NewUserRepository(db),
		Questions:     NewQuestionRepository(db),
		Contacts:      NewContactRepository(db),
		Tokens:        NewTokenRepository(db),
		FilterOptions: NewFilterOptionsRepository(departments, courses, semesters, examTypes),
	}
}
