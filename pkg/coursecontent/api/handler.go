// Package api exposes the course content store over HTTP, preserving the
// route surface and response envelope of the legacy quiz platform backend.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"

	"github.com/quizcraft/course-content/pkg/coursecontent"
)

// Handler handles HTTP requests for the course content store.
type Handler struct {
	service   coursecontent.Service
	auth      *jwtauth.JWTAuth
	adminRole string
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithAuth gates all mutation routes behind a bearer token whose "role" claim
// must equal role. Read routes stay public. Token issuance is an external
// collaborator's concern; the handler only verifies.
func WithAuth(auth *jwtauth.JWTAuth, role string) HandlerOption {
	return func(h *Handler) {
		h.auth = auth
		h.adminRole = role
	}
}

// NewHandler creates a new course content handler.
func NewHandler(service coursecontent.Service, opts ...HandlerOption) *Handler {
	h := &Handler{service: service}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the routes for the course content store.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListCourses)
	r.Get("/topics/{courseName}", h.ListTopics)
	r.Get("/questions/{courseName}/{topicID}", h.ListQuestions)

	r.Group(func(r chi.Router) {
		if h.auth != nil {
			r.Use(jwtauth.Verifier(h.auth))
			r.Use(jwtauth.Authenticator)
			r.Use(RequireRole(h.adminRole))
		}

		r.Post("/addcourse", h.CreateCourse)
		r.Post("/addcourse/{courseName}/topics", h.CreateTopic)
		r.Post("/addcourse/{courseName}/topics/{topicID}/questions", h.CreateQuestion)

		r.Put("/updatecourse/{courseID}", h.RenameCourse)
		r.Put("/updatetopic/{courseName}/{topicID}", h.RenameTopic)
		r.Put("/updatequestion/{courseName}/{topicID}/{questionID}", h.UpdateQuestion)

		r.Delete("/deletecourse/{courseID}", h.DeleteCourse)
		r.Delete("/deletetopic/{courseName}/{topicID}", h.DeleteTopic)
		r.Delete("/deletequestion/{courseName}/{topicID}/{questionID}", h.DeleteQuestion)
	})

	return r
}

// NameRequest is the request body for creating or renaming a course or topic.
type NameRequest struct {
	Name string `json:"name"`
}

// QuestionRequest is the request body for creating or updating a question.
type QuestionRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// MessageResponse carries a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// CourseResponse carries a message plus the affected course.
type CourseResponse struct {
	Message string                `json:"message"`
	Course  *coursecontent.Course `json:"course"`
}

// TopicResponse carries a message plus the affected topic.
type TopicResponse struct {
	Message string               `json:"message"`
	Topic   *coursecontent.Topic `json:"topic"`
}

// QuestionResponse carries a message plus the affected question.
type QuestionResponse struct {
	Message  string                  `json:"message"`
	Question *coursecontent.Question `json:"question"`
}

// ListCourses returns all courses.
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListCourses(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, courses)
}

// ListTopics returns the topics of the course resolved by name.
func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.service.ListTopics(r.Context(), chi.URLParam(r, "courseName"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, topics)
}

// ListQuestions returns the questions of the topic resolved by course name
// and topic id.
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	topicID, ok := h.pathID(w, r, "topicID", coursecontent.ErrTopicNotFound)
	if !ok {
		return
	}
	questions, err := h.service.ListQuestions(r.Context(), chi.URLParam(r, "courseName"), topicID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, questions)
}

// CreateCourse creates a new course.
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "Invalid request body")
		return
	}

	course, err := h.service.CreateCourse(r.Context(), coursecontent.CreateCourseRequest{Name: req.Name})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CourseResponse{Message: "Course added successfully", Course: course})
}

// CreateTopic creates a new topic under a course.
func (h *Handler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "Invalid request body")
		return
	}

	topic, err := h.service.CreateTopic(r.Context(), coursecontent.CreateTopicRequest{
		CourseName: chi.URLParam(r, "courseName"),
		Name:       req.Name,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, TopicResponse{Message: "Topic added", Topic: topic})
}

// CreateQuestion creates a new question under a topic.
func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	topicID, ok := h.pathID(w, r, "topicID", coursecontent.ErrTopicNotFound)
	if !ok {
		return
	}
	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "Invalid request body")
		return
	}

	question, err := h.service.CreateQuestion(r.Context(), coursecontent.CreateQuestionRequest{
		CourseName: chi.URLParam(r, "courseName"),
		TopicID:    topicID,
		Question:   req.Question,
		Options:    req.Options,
		Answer:     req.Answer,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, QuestionResponse{Message: "Question added", Question: question})
}

// RenameCourse overwrites a course name.
func (h *Handler) RenameCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.pathID(w, r, "courseID", coursecontent.ErrCourseNotFound)
	if !ok {
		return
	}
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "Invalid request body")
		return
	}

	course, err := h.service.RenameCourse(r.Context(), courseID, req.Name)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, CourseResponse{Message: "Course updated", Course: course})
}

// RenameTopic overwrites a topic name.
func (h *Handler) RenameTopic(w http.ResponseWriter, r *http.Request) {
	topicID, ok := h.pathID(w, r, "topicID", coursecontent.ErrTopicNotFound)
	if !ok {
		return
	}
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "Invalid request body")
		return
	}

	topic, err := h.service.RenameTopic(r.Context(), chi.URLParam(r, "courseName"), topicID, req.Name)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, TopicResponse{Message: "Topic updated", Topic: topic})
}

// UpdateQuestion overwrites a question's text, options and answer.
func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	topicID, ok := h.pathID(w, r, "topicID", coursecontent.ErrTopicNotFound)
	if !ok {
		return
	}
	questionID, ok := h.pathID(w, r, "questionID", coursecontent.ErrQuestionNotFound)
	if !ok {
		return
	}
	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "Invalid request body")
		return
	}

	question, err := h.service.UpdateQuestion(r.Context(), coursecontent.UpdateQuestionRequest{
		CourseName: chi.URLParam(r, "courseName"),
		TopicID:    topicID,
		QuestionID: questionID,
		Question:   req.Question,
		Options:    req.Options,
		Answer:     req.Answer,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, QuestionResponse{Message: "Question updated", Question: question})
}

// DeleteCourse deletes a course and all of its topics and questions.
func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.pathID(w, r, "courseID", coursecontent.ErrCourseNotFound)
	if !ok {
		return
	}
	if err := h.service.DeleteCourse(r.Context(), courseID); err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, MessageResponse{Message: "Course deleted successfully"})
}

// DeleteTopic deletes a topic and all of its questions.
func (h *Handler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	topicID, ok := h.pathID(w, r, "topicID", coursecontent.ErrTopicNotFound)
	if !ok {
		return
	}
	if err := h.service.DeleteTopic(r.Context(), chi.URLParam(r, "courseName"), topicID); err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, MessageResponse{Message: "Topic deleted successfully"})
}

// DeleteQuestion deletes a question.
func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	topicID, ok := h.pathID(w, r, "topicID", coursecontent.ErrTopicNotFound)
	if !ok {
		return
	}
	questionID, ok := h.pathID(w, r, "questionID", coursecontent.ErrQuestionNotFound)
	if !ok {
		return
	}
	if err := h.service.DeleteQuestion(r.Context(), chi.URLParam(r, "courseName"), topicID, questionID); err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, MessageResponse{Message: "Question deleted successfully"})
}

// pathID parses an integer path parameter. A non-numeric value cannot
// resolve to any entity, so it reports the same scoped not-found the lookup
// would (legacy surface).
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, param string, notFound error) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		h.renderError(w, r, notFound)
		return 0, false
	}
	return id, true
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, MessageResponse{Message: message})
}

// renderError maps domain errors to the legacy status/message surface.
// Store failures are logged with detail and reported generically.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *coursecontent.ValidationError
	var se *coursecontent.StoreError

	switch {
	case errors.Is(err, coursecontent.ErrCourseNotFound):
		h.message(w, r, http.StatusNotFound, "Course not found")
	case errors.Is(err, coursecontent.ErrTopicNotFound):
		h.message(w, r, http.StatusNotFound, "Topic not found")
	case errors.Is(err, coursecontent.ErrQuestionNotFound):
		h.message(w, r, http.StatusNotFound, "Question not found")
	case errors.Is(err, coursecontent.ErrCourseExists):
		h.message(w, r, http.StatusConflict, "Course already exists")
	case errors.Is(err, coursecontent.ErrTopicExists):
		h.message(w, r, http.StatusConflict, "Topic already exists in this course")
	case errors.Is(err, coursecontent.ErrQuestionExists):
		h.message(w, r, http.StatusConflict, "Question already exists")
	case errors.As(err, &ve):
		h.message(w, r, http.StatusBadRequest, ve.Message)
	case errors.As(err, &se):
		slog.ErrorContext(r.Context(), "catalog store failure", "op", se.Op, "store", se.Store, "error", se.Err)
		h.message(w, r, http.StatusInternalServerError, "Storage failure")
	default:
		slog.ErrorContext(r.Context(), "unexpected error", "error", err)
		h.message(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) message(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, MessageResponse{Message: message})
}
