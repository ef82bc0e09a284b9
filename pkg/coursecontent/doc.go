// Package coursecontent implements the course content store for the quiz
// platform: a three-level Course -> Topic -> Question hierarchy persisted as a
// single catalog document.
//
// The package is organized around a small Service interface backed by a
// pluggable Store (see the store subpackages for memory, file, S3, Postgres
// and Redis implementations). All mutations are funneled through a single
// writer so uniqueness checks and id assignment are atomic per operation;
// reads never observe a partially written catalog.
//
// Basic usage:
//
//	svc, err := coursecontent.New(
//	    coursecontent.WithStore(memory.New()),
//	)
//	if err != nil { ... }
//	course, err := svc.CreateCourse(ctx, coursecontent.CreateCourseRequest{Name: "Databases"})
package coursecontent
