package coursecontent

import "context"

// Service is the single mutation surface over the course catalog. The raw
// nested structure is never exposed for direct external mutation; every
// returned entity is a copy.
type Service interface {
	// Read operations
	ListCourses(ctx context.Context) ([]Course, error)
	ListTopics(ctx context.Context, courseName string) ([]Topic, error)
	ListQuestions(ctx context.Context, courseName string, topicID int64) ([]Question, error)

	// Create operations
	CreateCourse(ctx context.Context, req CreateCourseRequest) (*Course, error)
	CreateTopic(ctx context.Context, req CreateTopicRequest) (*Topic, error)
	CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*Question, error)

	// Update operations
	RenameCourse(ctx context.Context, courseID int64, name string) (*Course, error)
	RenameTopic(ctx context.Context, courseName string, topicID int64, name string) (*Topic, error)
	UpdateQuestion(ctx context.Context, req UpdateQuestionRequest) (*Question, error)

	// Delete operations (course and topic deletion cascade to descendants)
	DeleteCourse(ctx context.Context, courseID int64) error
	DeleteTopic(ctx context.Context, courseName string, topicID int64) error
	DeleteQuestion(ctx context.Context, courseName string, topicID int64, questionID int64) error
}

// Store loads and saves the whole catalog document. Load returns an empty
// catalog only when no document exists yet; any I/O failure must surface as a
// StoreError instead.
type Store interface {
	Load(ctx context.Context) (*Catalog, error)
	Save(ctx context.Context, catalog *Catalog) error
}
