package coursecontent

import "context"

// NoopEventSink is a no-operation implementation of EventSink. It is the
// default when no sink is configured.
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink.
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) CourseCreated(ctx context.Context, course *Course) error { return nil }

func (n *NoopEventSink) CourseRenamed(ctx context.Context, course *Course) error { return nil }

func (n *NoopEventSink) CourseDeleted(ctx context.Context, courseID int64) error { return nil }

func (n *NoopEventSink) TopicCreated(ctx context.Context, courseID int64, topic *Topic) error {
	return nil
}

func (n *NoopEventSink) TopicRenamed(ctx context.Context, courseID int64, topic *Topic) error {
	return nil
}

func (n *NoopEventSink) TopicDeleted(ctx context.Context, courseID, topicID int64) error {
	return nil
}

func (n *NoopEventSink) QuestionCreated(ctx context.Context, courseID, topicID int64, question *Question) error {
	return nil
}

func (n *NoopEventSink) QuestionUpdated(ctx context.Context, courseID, topicID int64, question *Question) error {
	return nil
}

func (n *NoopEventSink) QuestionDeleted(ctx context.Context, courseID, topicID, questionID int64) error {
	return nil
}
