package coursecontent

// Request DTOs

// CreateCourseRequest contains parameters for creating a course.
type CreateCourseRequest struct {
	Name string
}

// CreateTopicRequest contains parameters for creating a topic under the
// course resolved by case-insensitive name.
type CreateTopicRequest struct {
	CourseName string
	Name       string
}

// CreateQuestionRequest contains parameters for creating a question under the
// topic resolved by course name then topic id.
type CreateQuestionRequest struct {
	CourseName string
	TopicID    int64
	Question   string
	Options    []string
	Answer     string
}

// UpdateQuestionRequest overwrites a question's text, options and answer
// wholesale.
type UpdateQuestionRequest struct {
	CourseName string
	TopicID    int64
	QuestionID int64
	Question   string
	Options    []string
	Answer     string
}
