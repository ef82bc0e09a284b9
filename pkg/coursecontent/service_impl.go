package coursecontent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// service implements the Service interface. A single RWMutex serializes all
// writers so the check-then-act invariant checks (uniqueness, resolution) are
// atomic per operation; readers share a lock and never observe a partially
// written catalog.
type service struct {
	mu     sync.RWMutex
	store  Store
	events EventSink
	ids    *idGenerator

	permissiveAnswers bool
	saveAttempts      int
	retryBackoff      time.Duration
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithStore sets the catalog store for the service.
func WithStore(store Store) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithEventSink sets the event sink for the service.
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.events = sink
	}
}

// WithPermissiveAnswers disables the answer-must-be-an-option check on
// question creation and update, restoring the legacy permissive behavior.
// The check is on by default.
func WithPermissiveAnswers() Option {
	return func(s *service) {
		s.permissiveAnswers = true
	}
}

// WithSaveRetry configures retry of catalog saves on store failure. Retries
// apply to store I/O only; validation and conflict errors are never retried.
func WithSaveRetry(attempts int, backoff time.Duration) Option {
	return func(s *service) {
		if attempts > 0 {
			s.saveAttempts = attempts
		}
		if backoff > 0 {
			s.retryBackoff = backoff
		}
	}
}

// New creates a new service instance with the given options.
func New(options ...Option) (Service, error) {
	s := &service{
		events:       NewNoopEventSink(),
		ids:          newIDGenerator(),
		saveAttempts: 3,
		retryBackoff: 100 * time.Millisecond,
	}

	for _, option := range options {
		option(s)
	}

	if s.store == nil {
		return nil, fmt.Errorf("store is required")
	}

	return s, nil
}

// Read operations

func (s *service) ListCourses(ctx context.Context) ([]Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Clone().Courses, nil
}

func (s *service) ListTopics(ctx context.Context, courseName string) ([]Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	course := cat.CourseByName(courseName)
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course.clone().Topics, nil
}

func (s *service) ListQuestions(ctx context.Context, courseName string, topicID int64) ([]Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	course := cat.CourseByName(courseName)
	if course == nil {
		return nil, ErrCourseNotFound
	}
	topic := course.TopicByID(topicID)
	if topic == nil {
		return nil, ErrTopicNotFound
	}
	return topic.clone().Questions, nil
}

// Create operations

func (s *service) CreateCourse(ctx context.Context, req CreateCourseRequest) (*Course, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewValidationError("name", "course name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if cat.CourseByName(name) != nil {
		return nil, ErrCourseExists
	}

	s.ids.Reserve(cat.maxID())
	course := Course{ID: s.ids.Next(), Name: name, Topics: []Topic{}}
	cat.Courses = append(cat.Courses, course)

	if err := s.saveCatalog(ctx, cat); err != nil {
		return nil, err
	}

	s.emit(ctx, "course created", func() error { return s.events.CourseCreated(ctx, course.clone()) })
	return course.clone(), nil
}

func (s *service) CreateTopic(ctx context.Context, req CreateTopicRequest) (*Topic, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewValidationError("name", "topic name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	course := cat.CourseByName(req.CourseName)
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if course.TopicByName(name) != nil {
		return nil, ErrTopicExists
	}

	s.ids.Reserve(cat.maxID())
	topic := Topic{ID: s.ids.Next(), Name: name, Questions: []Question{}}
	course.Topics = append(course.Topics, topic)

	if err := s.saveCatalog(ctx, cat); err != nil {
		return nil, err
	}

	courseID := course.ID
	s.emit(ctx, "topic created", func() error { return s.events.TopicCreated(ctx, courseID, topic.clone()) })
	return topic.clone(), nil
}

func (s *service) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*Question, error) {
	if err := s.validateQuestionFields(req.Question, req.Options, req.Answer); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	course := cat.CourseByName(req.CourseName)
	if course == nil {
		return nil, ErrCourseNotFound
	}
	topic := course.TopicByID(req.TopicID)
	if topic == nil {
		return nil, ErrTopicNotFound
	}
	if topic.QuestionByText(req.Question) != nil {
		return nil, ErrQuestionExists
	}

	s.ids.Reserve(cat.maxID())
	question := Question{
		ID:       s.ids.Next(),
		Question: req.Question,
		Options:  append([]string(nil), req.Options...),
		Answer:   req.Answer,
	}
	topic.Questions = append(topic.Questions, question)

	if err := s.saveCatalog(ctx, cat); err != nil {
		return nil, err
	}

	courseID, topicID := course.ID, topic.ID
	s.emit(ctx, "question created", func() error {
		return s.events.QuestionCreated(ctx, courseID, topicID, question.clone())
	})
	return question.clone(), nil
}

// Update operations

// RenameCourse overwrites the course name unconditionally. There is no
// duplicate re-check against sibling courses; creation is the only place
// uniqueness is enforced (legacy contract).
func (s *service) RenameCourse(ctx context.Context, courseID int64, name string) (*Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "course name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	course := cat.CourseByID(courseID)
	if course == nil {
		return nil, ErrCourseNotFound
	}
	course.Name = name

	if err := s.saveCatalog(ctx, cat); err != nil {
		return nil, err
	}

	updated := course.clone()
	s.emit(ctx, "course renamed", func() error { return s.events.CourseRenamed(ctx, updated.clone()) })
	return updated, nil
}

func (s *service) RenameTopic(ctx context.Context, courseName string, topicID int64, name string) (*Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "topic name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	course := cat.CourseByName(courseName)
	if course == nil {
		return nil, ErrCourseNotFound
	}
	topic := course.TopicByID(topicID)
	if topic == nil {
		return nil, ErrTopicNotFound
	}
	topic.Name = name

	if err := s.saveCatalog(ctx, cat); err != nil {
		return nil, err
	}

	courseID := course.ID
	updated := topic.clone()
	s.emit(ctx, "topic renamed", func() error { return s.events.TopicRenamed(ctx, courseID, updated.clone()) })
	return updated, nil
}

func (s *service) UpdateQuestion(ctx context.Context, req UpdateQuestionRequest) (*Question, error) {
	if err := s.validateQuestionFields(req.Question, req.Options, req.Answer); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	course := cat.CourseByName(req.CourseName)
	if course == nil {
		return nil, ErrCourseNotFound
	}
	topic := course.TopicByID(req.TopicID)
	if topic == nil {
		return nil, ErrTopicNotFound
	}
	question := topic.QuestionByID(req.QuestionID)
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	question.Question = req.Question
	question.Options = append([]string(nil), req.Options...)
	question.Answer = req.Answer

	if err := s.saveCatalog(ctx, cat); err != nil {
		return nil, err
	}

	courseID, topicID := course.ID, topic.ID
	updated := question.clone()
	s.emit(ctx, "question updated", func() error {
		return s.events.QuestionUpdated(ctx, courseID, topicID, updated.clone())
	})
	return updated, nil
}

// Delete operations

// DeleteCourse removes the course and, by containment, all of its topics and
// their questions.
func (s *service) DeleteCourse(ctx context.Context, courseID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range cat.Courses {
		if cat.Courses[i].ID == courseID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrCourseNotFound
	}
	cat.Courses = append(cat.Courses[:idx], cat.Courses[idx+1:]...)

	if err := s.saveCatalog(ctx, cat); err != nil {
		return err
	}

	s.emit(ctx, "course deleted", func() error { return s.events.CourseDeleted(ctx, courseID) })
	return nil
}

// DeleteTopic removes the topic and, by containment, all of its questions.
func (s *service) DeleteTopic(ctx context.Context, courseName string, topicID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return err
	}
	course := cat.CourseByName(courseName)
	if course == nil {
		return ErrCourseNotFound
	}
	idx := -1
	for i := range course.Topics {
		if course.Topics[i].ID == topicID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrTopicNotFound
	}
	course.Topics = append(course.Topics[:idx], course.Topics[idx+1:]...)

	if err := s.saveCatalog(ctx, cat); err != nil {
		return err
	}

	courseID := course.ID
	s.emit(ctx, "topic deleted", func() error { return s.events.TopicDeleted(ctx, courseID, topicID) })
	return nil
}

func (s *service) DeleteQuestion(ctx context.Context, courseName string, topicID int64, questionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return err
	}
	course := cat.CourseByName(courseName)
	if course == nil {
		return ErrCourseNotFound
	}
	topic := course.TopicByID(topicID)
	if topic == nil {
		return ErrTopicNotFound
	}
	idx := -1
	for i := range topic.Questions {
		if topic.Questions[i].ID == questionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrQuestionNotFound
	}
	topic.Questions = append(topic.Questions[:idx], topic.Questions[idx+1:]...)

	if err := s.saveCatalog(ctx, cat); err != nil {
		return err
	}

	courseID := course.ID
	s.emit(ctx, "question deleted", func() error {
		return s.events.QuestionDeleted(ctx, courseID, topicID, questionID)
	})
	return nil
}

// Helpers

func (s *service) validateQuestionFields(text string, options []string, answer string) error {
	if strings.TrimSpace(text) == "" {
		return NewValidationError("question", "question text is required")
	}
	if len(options) == 0 {
		return NewValidationError("options", "at least one option is required")
	}
	for _, opt := range options {
		if strings.TrimSpace(opt) == "" {
			return NewValidationError("options", "options must not be empty")
		}
	}
	if strings.TrimSpace(answer) == "" {
		return NewValidationError("answer", "answer is required")
	}
	if !s.permissiveAnswers {
		found := false
		for _, opt := range options {
			if opt == answer {
				found = true
				break
			}
		}
		if !found {
			return NewValidationError("answer", "answer must be one of the options")
		}
	}
	return nil
}

func (s *service) loadCatalog(ctx context.Context) (*Catalog, error) {
	cat, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		cat = &Catalog{}
	}
	if cat.Courses == nil {
		cat.Courses = []Course{}
	}
	return cat, nil
}

// saveCatalog persists the catalog, retrying transient store failures with
// exponential backoff. The last store error is returned when all attempts
// fail.
func (s *service) saveCatalog(ctx context.Context, cat *Catalog) error {
	backoff := s.retryBackoff
	var err error
	for attempt := 0; attempt < s.saveAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return NewStoreError("catalog", "save", ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		if err = s.store.Save(ctx, cat); err == nil {
			return nil
		}
	}
	return err
}

func (s *service) emit(ctx context.Context, event string, fire func() error) {
	if err := fire(); err != nil {
		slog.ErrorContext(ctx, "event sink failed", "event", event, "error", err)
	}
}
