package coursecontent

import (
	"context"
	"log/slog"
)

// EventSink receives notifications after a mutation has been persisted.
// Sink failures are logged and never fail the originating operation.
type EventSink interface {
	CourseCreated(ctx context.Context, course *Course) error
	CourseRenamed(ctx context.Context, course *Course) error
	CourseDeleted(ctx context.Context, courseID int64) error

	TopicCreated(ctx context.Context, courseID int64, topic *Topic) error
	TopicRenamed(ctx context.Context, courseID int64, topic *Topic) error
	TopicDeleted(ctx context.Context, courseID, topicID int64) error

	QuestionCreated(ctx context.Context, courseID, topicID int64, question *Question) error
	QuestionUpdated(ctx context.Context, courseID, topicID int64, question *Question) error
	QuestionDeleted(ctx context.Context, courseID, topicID, questionID int64) error
}

// LogEventSink emits a structured log line per catalog change.
type LogEventSink struct {
	logger *slog.Logger
}

// NewLogEventSink creates an EventSink that logs through the given logger.
// A nil logger falls back to slog.Default.
func NewLogEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEventSink{logger: logger}
}

func (s *LogEventSink) CourseCreated(ctx context.Context, course *Course) error {
	s.logger.InfoContext(ctx, "course created", "course_id", course.ID, "name", course.Name)
	return nil
}

func (s *LogEventSink) CourseRenamed(ctx context.Context, course *Course) error {
	s.logger.InfoContext(ctx, "course renamed", "course_id", course.ID, "name", course.Name)
	return nil
}

func (s *LogEventSink) CourseDeleted(ctx context.Context, courseID int64) error {
	s.logger.InfoContext(ctx, "course deleted", "course_id", courseID)
	return nil
}

func (s *LogEventSink) TopicCreated(ctx context.Context, courseID int64, topic *Topic) error {
	s.logger.InfoContext(ctx, "topic created", "course_id", courseID, "topic_id", topic.ID, "name", topic.Name)
	return nil
}

func (s *LogEventSink) TopicRenamed(ctx context.Context, courseID int64, topic *Topic) error {
	s.logger.InfoContext(ctx, "topic renamed", "course_id", courseID, "topic_id", topic.ID, "name", topic.Name)
	return nil
}

func (s *LogEventSink) TopicDeleted(ctx context.Context, courseID, topicID int64) error {
	s.logger.InfoContext(ctx, "topic deleted", "course_id", courseID, "topic_id", topicID)
	return nil
}

func (s *LogEventSink) QuestionCreated(ctx context.Context, courseID, topicID int64, question *Question) error {
	s.logger.InfoContext(ctx, "question created", "course_id", courseID, "topic_id", topicID, "question_id", question.ID)
	return nil
}

func (s *LogEventSink) QuestionUpdated(ctx context.Context, courseID, topicID int64, question *Question) error {
	s.logger.InfoContext(ctx, "question updated", "course_id", courseID, "topic_id", topicID, "question_id", question.ID)
	return nil
}

func (s *LogEventSink) QuestionDeleted(ctx context.Context, courseID, topicID, questionID int64) error {
	s.logger.InfoContext(ctx, "question deleted", "course_id", courseID, "topic_id", topicID, "question_id", questionID)
	return nil
}
