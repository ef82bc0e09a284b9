package coursecontent

import "strings"

// Course is the top-level content grouping. Names are unique among courses
// under case-insensitive comparison.
type Course struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Topics []Topic `json:"topics"`
}

// Topic is a named subdivision of a Course. The ID is unique within its
// course, not globally.
type Topic struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// Question is a single quiz item. Answer is expected to be one of Options;
// whether that is enforced is a service option (see WithPermissiveAnswers).
type Question struct {
	ID       int64    `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Catalog is the whole content hierarchy and the unit of persistence: every
// mutation loads the full catalog, applies one change and saves it back.
type Catalog struct {
	Courses []Course `json:"courses"`
}

// CourseByName resolves a course by case-insensitive name.
func (c *Catalog) CourseByName(name string) *Course {
	for i := range c.Courses {
		if strings.EqualFold(c.Courses[i].Name, name) {
			return &c.Courses[i]
		}
	}
	return nil
}

// CourseByID resolves a course by its id.
func (c *Catalog) CourseByID(id int64) *Course {
	for i := range c.Courses {
		if c.Courses[i].ID == id {
			return &c.Courses[i]
		}
	}
	return nil
}

// TopicByID resolves a topic within the course by its id.
func (c *Course) TopicByID(id int64) *Topic {
	for i := range c.Topics {
		if c.Topics[i].ID == id {
			return &c.Topics[i]
		}
	}
	return nil
}

// TopicByName resolves a topic within the course by case-insensitive name.
func (c *Course) TopicByName(name string) *Topic {
	for i := range c.Topics {
		if strings.EqualFold(c.Topics[i].Name, name) {
			return &c.Topics[i]
		}
	}
	return nil
}

// QuestionByID resolves a question within the topic by its id.
func (t *Topic) QuestionByID(id int64) *Question {
	for i := range t.Questions {
		if t.Questions[i].ID == id {
			return &t.Questions[i]
		}
	}
	return nil
}

// QuestionByText resolves a question within the topic by case-insensitive
// question text.
func (t *Topic) QuestionByText(text string) *Question {
	for i := range t.Questions {
		if strings.EqualFold(t.Questions[i].Question, text) {
			return &t.Questions[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the catalog. Stores and the service hand out
// copies so callers can never mutate shared state directly.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{Courses: make([]Course, len(c.Courses))}
	for i, course := range c.Courses {
		out.Courses[i] = *course.clone()
	}
	return out
}

func (c *Course) clone() *Course {
	out := *c
	out.Topics = make([]Topic, len(c.Topics))
	for i, topic := range c.Topics {
		out.Topics[i] = *topic.clone()
	}
	return &out
}

func (t *Topic) clone() *Topic {
	out := *t
	out.Questions = make([]Question, len(t.Questions))
	for i, q := range t.Questions {
		out.Questions[i] = *q.clone()
	}
	return &out
}

func (q *Question) clone() *Question {
	out := *q
	out.Options = append([]string(nil), q.Options...)
	return &out
}

// maxID returns the largest id anywhere in the catalog. Used to re-seed the
// id generator so ids from a previously persisted catalog are never reused.
func (c *Catalog) maxID() int64 {
	var max int64
	for i := range c.Courses {
		course := &c.Courses[i]
		if course.ID > max {
			max = course.ID
		}
		for j := range course.Topics {
			topic := &course.Topics[j]
			if topic.ID > max {
				max = topic.ID
			}
			for k := range topic.Questions {
				if topic.Questions[k].ID > max {
					max = topic.Questions[k].ID
				}
			}
		}
	}
	return max
}
