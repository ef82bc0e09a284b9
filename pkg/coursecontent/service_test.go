package coursecontent_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizcraft/course-content/pkg/coursecontent"
	"github.com/quizcraft/course-content/pkg/coursecontent/store/memory"
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []coursecontent.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []coursecontent.Option{},
			expectError: true,
		},
		{
			name: "with store should succeed",
			options: []coursecontent.Option{
				coursecontent.WithStore(memory.New()),
			},
			expectError: false,
		},
		{
			name: "with store and event sink should succeed",
			options: []coursecontent.Option{
				coursecontent.WithStore(memory.New()),
				coursecontent.WithEventSink(coursecontent.NewNoopEventSink()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := coursecontent.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T, extra ...coursecontent.Option) coursecontent.Service {
	t.Helper()

	options := append([]coursecontent.Option{
		coursecontent.WithStore(memory.New()),
	}, extra...)

	svc, err := coursecontent.New(options...)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return svc
}

func TestCourseUniqueness(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	first, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Algorithms"})
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.NotZero(t, first.ID)
	assert.Empty(t, first.Topics)

	_, err = svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "ALGORITHMS"})
	assert.ErrorIs(t, err, coursecontent.ErrCourseExists)

	courses, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Algorithms", courses[0].Name)
	assert.Equal(t, first.ID, courses[0].ID)
}

func TestTopicAndQuestionUniqueness(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Go"})
	require.NoError(t, err)

	topic, err := svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "go", Name: "Channels"})
	require.NoError(t, err)

	_, err = svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "Go", Name: "channels"})
	assert.ErrorIs(t, err, coursecontent.ErrTopicExists)

	_, err = svc.CreateQuestion(ctx, coursecontent.CreateQuestionRequest{
		CourseName: "Go",
		TopicID:    topic.ID,
		Question:   "What does close(ch) do?",
		Options:    []string{"Closes the channel", "Drains the channel"},
		Answer:     "Closes the channel",
	})
	require.NoError(t, err)

	_, err = svc.CreateQuestion(ctx, coursecontent.CreateQuestionRequest{
		CourseName: "Go",
		TopicID:    topic.ID,
		Question:   "WHAT DOES CLOSE(CH) DO?",
		Options:    []string{"A", "B"},
		Answer:     "A",
	})
	assert.ErrorIs(t, err, coursecontent.ErrQuestionExists)
}

func TestCascadingDeleteCourse(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Networks"})
	require.NoError(t, err)

	topic, err := svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "Networks", Name: "TCP"})
	require.NoError(t, err)

	_, err = svc.CreateQuestion(ctx, coursecontent.CreateQuestionRequest{
		CourseName: "Networks",
		TopicID:    topic.ID,
		Question:   "What is a SYN packet?",
		Options:    []string{"Handshake start", "Handshake end"},
		Answer:     "Handshake start",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCourse(ctx, course.ID))

	_, err = svc.ListTopics(ctx, "Networks")
	assert.ErrorIs(t, err, coursecontent.ErrCourseNotFound)

	courses, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestIDStabilityAcrossRename(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Databases"})
	require.NoError(t, err)

	topic, err := svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "Databases", Name: "Joins"})
	require.NoError(t, err)

	renamed, err := svc.RenameCourse(ctx, course.ID, "Data Systems")
	require.NoError(t, err)
	assert.Equal(t, course.ID, renamed.ID)
	assert.Equal(t, "Data Systems", renamed.Name)

	// The old id still resolves after the rename, under the new name.
	renamedTopic, err := svc.RenameTopic(ctx, "Data Systems", topic.ID, "Join Algorithms")
	require.NoError(t, err)
	assert.Equal(t, topic.ID, renamedTopic.ID)
	assert.Equal(t, "Join Algorithms", renamedTopic.Name)

	topics, err := svc.ListTopics(ctx, "Data Systems")
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, topic.ID, topics[0].ID)
}

func TestRenameSkipsSiblingDuplicateCheck(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Alpha"})
	require.NoError(t, err)
	beta, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Beta"})
	require.NoError(t, err)

	// Renames overwrite unconditionally; only creation enforces uniqueness.
	renamed, err := svc.RenameCourse(ctx, beta.ID, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", renamed.Name)
}

func TestResolutionScoping(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Compilers"})
	require.NoError(t, err)
	_, err = svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Parsing"})
	require.NoError(t, err)

	topic, err := svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "Compilers", Name: "Lexing"})
	require.NoError(t, err)

	// Valid course, but the topic id belongs to another course: topic-scoped
	// not-found, not course-scoped.
	_, err = svc.ListQuestions(ctx, "Parsing", topic.ID)
	assert.ErrorIs(t, err, coursecontent.ErrTopicNotFound)

	_, err = svc.ListQuestions(ctx, "Nonexistent", topic.ID)
	assert.ErrorIs(t, err, coursecontent.ErrCourseNotFound)
}

func TestQuestionRoundTrip(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Quizzes"})
	require.NoError(t, err)
	topic, err := svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "Quizzes", Name: "General"})
	require.NoError(t, err)

	created, err := svc.CreateQuestion(ctx, coursecontent.CreateQuestionRequest{
		CourseName: "Quizzes",
		TopicID:    topic.ID,
		Question:   "Pick B",
		Options:    []string{"A", "B", "C", "D"},
		Answer:     "B",
	})
	require.NoError(t, err)

	questions, err := svc.ListQuestions(ctx, "Quizzes", topic.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, created.ID, questions[0].ID)
	assert.Equal(t, []string{"A", "B", "C", "D"}, questions[0].Options)
	assert.Equal(t, "B", questions[0].Answer)
}

func TestFullLifecycle(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Databases"})
	require.NoError(t, err)
	assert.NotZero(t, course.ID)

	topic, err := svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "Databases", Name: "Indexing"})
	require.NoError(t, err)

	question, err := svc.CreateQuestion(ctx, coursecontent.CreateQuestionRequest{
		CourseName: "Databases",
		TopicID:    topic.ID,
		Question:   "What is a B-tree?",
		Options:    []string{"A balanced tree", "A binary heap", "A hash table", "A linked list"},
		Answer:     "A balanced tree",
	})
	require.NoError(t, err)

	questions, err := svc.ListQuestions(ctx, "Databases", topic.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, question.ID, questions[0].ID)
	assert.Equal(t, "What is a B-tree?", questions[0].Question)

	require.NoError(t, svc.DeleteTopic(ctx, "Databases", topic.ID))

	topics, err := svc.ListTopics(ctx, "Databases")
	require.NoError(t, err)
	assert.Empty(t, topics)

	// The prior topic was fully removed, so re-creating it hits no stale
	// duplicate.
	recreated, err := svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "Databases", Name: "Indexing"})
	require.NoError(t, err)
	assert.NotEqual(t, topic.ID, recreated.ID)
	assert.Empty(t, recreated.Questions)
}

func TestValidation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Science"})
	require.NoError(t, err)
	topic, err := svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "Science", Name: "Physics"})
	require.NoError(t, err)

	var ve *coursecontent.ValidationError

	t.Run("empty course name", func(t *testing.T) {
		_, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "   "})
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "name", ve.Field)
	})

	t.Run("empty topic name", func(t *testing.T) {
		_, err := svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "Science", Name: ""})
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "name", ve.Field)
	})

	t.Run("empty rename", func(t *testing.T) {
		_, err := svc.RenameTopic(ctx, "Science", topic.ID, "")
		require.ErrorAs(t, err, &ve)
	})

	t.Run("question without options", func(t *testing.T) {
		_, err := svc.CreateQuestion(ctx, coursecontent.CreateQuestionRequest{
			CourseName: "Science",
			TopicID:    topic.ID,
			Question:   "What is gravity?",
			Answer:     "A force",
		})
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "options", ve.Field)
	})

	t.Run("answer not among options", func(t *testing.T) {
		_, err := svc.CreateQuestion(ctx, coursecontent.CreateQuestionRequest{
			CourseName: "Science",
			TopicID:    topic.ID,
			Question:   "What is gravity?",
			Options:    []string{"A force", "A field"},
			Answer:     "Magic",
		})
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "answer", ve.Field)
	})

	t.Run("validation precedes resolution", func(t *testing.T) {
		_, err := svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "Nonexistent", Name: ""})
		require.ErrorAs(t, err, &ve)
	})
}

func TestPermissiveAnswers(t *testing.T) {
	svc := setupTestService(t, coursecontent.WithPermissiveAnswers())
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "History"})
	require.NoError(t, err)
	topic, err := svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "History", Name: "Rome"})
	require.NoError(t, err)

	// Legacy behavior: the answer is stored even when it matches no option.
	question, err := svc.CreateQuestion(ctx, coursecontent.CreateQuestionRequest{
		CourseName: "History",
		TopicID:    topic.ID,
		Question:   "Who founded Rome?",
		Options:    []string{"Romulus", "Remus"},
		Answer:     "Numa",
	})
	require.NoError(t, err)
	assert.Equal(t, "Numa", question.Answer)
}

func TestUpdateQuestion(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Math"})
	require.NoError(t, err)
	topic, err := svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "Math", Name: "Algebra"})
	require.NoError(t, err)
	question, err := svc.CreateQuestion(ctx, coursecontent.CreateQuestionRequest{
		CourseName: "Math",
		TopicID:    topic.ID,
		Question:   "2+2?",
		Options:    []string{"3", "4"},
		Answer:     "4",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateQuestion(ctx, coursecontent.UpdateQuestionRequest{
		CourseName: "Math",
		TopicID:    topic.ID,
		QuestionID: question.ID,
		Question:   "What is 2+2?",
		Options:    []string{"3", "4", "5"},
		Answer:     "4",
	})
	require.NoError(t, err)
	assert.Equal(t, question.ID, updated.ID)
	assert.Equal(t, "What is 2+2?", updated.Question)
	assert.Equal(t, []string{"3", "4", "5"}, updated.Options)

	_, err = svc.UpdateQuestion(ctx, coursecontent.UpdateQuestionRequest{
		CourseName: "Math",
		TopicID:    topic.ID,
		QuestionID: question.ID + 999,
		Question:   "?",
		Options:    []string{"a"},
		Answer:     "a",
	})
	assert.ErrorIs(t, err, coursecontent.ErrQuestionNotFound)
}

func TestDeleteQuestion(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Art"})
	require.NoError(t, err)
	topic, err := svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "Art", Name: "Painting"})
	require.NoError(t, err)
	question, err := svc.CreateQuestion(ctx, coursecontent.CreateQuestionRequest{
		CourseName: "Art",
		TopicID:    topic.ID,
		Question:   "Who painted the Mona Lisa?",
		Options:    []string{"Da Vinci", "Michelangelo"},
		Answer:     "Da Vinci",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteQuestion(ctx, "Art", topic.ID, question.ID))

	questions, err := svc.ListQuestions(ctx, "Art", topic.ID)
	require.NoError(t, err)
	assert.Empty(t, questions)

	err = svc.DeleteQuestion(ctx, "Art", topic.ID, question.ID)
	assert.ErrorIs(t, err, coursecontent.ErrQuestionNotFound)
}

// failingStore fails every operation with the given errors.
type failingStore struct {
	loadErr error
	saveErr error
	catalog *coursecontent.Catalog
}

func (s *failingStore) Load(ctx context.Context) (*coursecontent.Catalog, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.catalog == nil {
		return &coursecontent.Catalog{}, nil
	}
	return s.catalog.Clone(), nil
}

func (s *failingStore) Save(ctx context.Context, catalog *coursecontent.Catalog) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.catalog = catalog.Clone()
	return nil
}

func TestStoreFailurePropagation(t *testing.T) {
	t.Run("load failure is never an empty result", func(t *testing.T) {
		loadErr := coursecontent.NewStoreError("test", "load", errors.New("disk gone"))
		svc, err := coursecontent.New(coursecontent.WithStore(&failingStore{loadErr: loadErr}))
		require.NoError(t, err)

		_, err = svc.ListCourses(context.Background())
		var se *coursecontent.StoreError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "load", se.Op)
	})

	t.Run("save failure aborts the mutation", func(t *testing.T) {
		saveErr := coursecontent.NewStoreError("test", "save", errors.New("disk full"))
		store := &failingStore{saveErr: saveErr}
		svc, err := coursecontent.New(
			coursecontent.WithStore(store),
			coursecontent.WithSaveRetry(2, time.Millisecond),
		)
		require.NoError(t, err)

		_, err = svc.CreateCourse(context.Background(), coursecontent.CreateCourseRequest{Name: "Doomed"})
		var se *coursecontent.StoreError
		require.ErrorAs(t, err, &se)

		// The failed write must not leave the course behind.
		store.saveErr = nil
		courses, err := svc.ListCourses(context.Background())
		require.NoError(t, err)
		assert.Empty(t, courses)
	})
}

// flakyStore fails the first failures saves, then delegates to memory.
type flakyStore struct {
	inner    coursecontent.Store
	failures int
	attempts int
}

func (s *flakyStore) Load(ctx context.Context) (*coursecontent.Catalog, error) {
	return s.inner.Load(ctx)
}

func (s *flakyStore) Save(ctx context.Context, catalog *coursecontent.Catalog) error {
	s.attempts++
	if s.attempts <= s.failures {
		return coursecontent.NewStoreError("flaky", "save", errors.New("transient"))
	}
	return s.inner.Save(ctx, catalog)
}

func TestSaveRetry(t *testing.T) {
	store := &flakyStore{inner: memory.New(), failures: 2}
	svc, err := coursecontent.New(
		coursecontent.WithStore(store),
		coursecontent.WithSaveRetry(3, time.Millisecond),
	)
	require.NoError(t, err)

	course, err := svc.CreateCourse(context.Background(), coursecontent.CreateCourseRequest{Name: "Persistent"})
	require.NoError(t, err)
	assert.Equal(t, 3, store.attempts)

	courses, err := svc.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, course.ID, courses[0].ID)
}

func TestConcurrentCreateSameName(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	errs := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Singleton"})
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, coursecontent.ErrCourseExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, writers-1, conflicts)

	courses, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}

func TestUniqueIDsUnderRapidCreation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	seen := make(map[int64]bool)
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for _, name := range names {
		course, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: name})
		require.NoError(t, err)
		assert.False(t, seen[course.ID], "duplicate id %d", course.ID)
		seen[course.ID] = true
	}
}

// recordingSink records event names in order.
type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) record(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, name)
	return nil
}

func (s *recordingSink) CourseCreated(ctx context.Context, course *coursecontent.Course) error {
	return s.record("course created")
}
func (s *recordingSink) CourseRenamed(ctx context.Context, course *coursecontent.Course) error {
	return s.record("course renamed")
}
func (s *recordingSink) CourseDeleted(ctx context.Context, courseID int64) error {
	return s.record("course deleted")
}
func (s *recordingSink) TopicCreated(ctx context.Context, courseID int64, topic *coursecontent.Topic) error {
	return s.record("topic created")
}
func (s *recordingSink) TopicRenamed(ctx context.Context, courseID int64, topic *coursecontent.Topic) error {
	return s.record("topic renamed")
}
func (s *recordingSink) TopicDeleted(ctx context.Context, courseID, topicID int64) error {
	return s.record("topic deleted")
}
func (s *recordingSink) QuestionCreated(ctx context.Context, courseID, topicID int64, question *coursecontent.Question) error {
	return s.record("question created")
}
func (s *recordingSink) QuestionUpdated(ctx context.Context, courseID, topicID int64, question *coursecontent.Question) error {
	return s.record("question updated")
}
func (s *recordingSink) QuestionDeleted(ctx context.Context, courseID, topicID, questionID int64) error {
	return s.record("question deleted")
}

func TestEventSinkNotifications(t *testing.T) {
	sink := &recordingSink{}
	svc := setupTestService(t, coursecontent.WithEventSink(sink))
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Events"})
	require.NoError(t, err)
	topic, err := svc.CreateTopic(ctx, coursecontent.CreateTopicRequest{CourseName: "Events", Name: "T"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTopic(ctx, "Events", topic.ID))
	require.NoError(t, svc.DeleteCourse(ctx, course.ID))

	assert.Equal(t, []string{"course created", "topic created", "topic deleted", "course deleted"}, sink.events)

	// A failed create persists nothing and fires nothing.
	_, err = svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: ""})
	require.Error(t, err)
	assert.Len(t, sink.events, 4)
}
