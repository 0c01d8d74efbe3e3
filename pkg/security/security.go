// Package security carries the identity of a task's submitter through
// every job execution. A Context is attached exactly once, at the
// submission gateway, and is never mutated afterwards. The engine does
// not enforce identity matching centrally; jobs assert it themselves
// through the accessor on their execution context.
package security

import (
	"sync"

	"github.com/google/uuid"

	"github.com/overmesh/gridexec/model"
	derror "github.com/overmesh/gridexec/pkg/errors"
)

// Context is an immutable token identifying the subject a task was
// submitted by. It is copied by value into every job slot of the task.
type Context struct {
	subjectID model.SubjectID
	login     string
}

// SubjectID returns the unique ID of the submitting subject.
func (c Context) SubjectID() model.SubjectID {
	return c.subjectID
}

// Login returns the login the subject authenticated with.
func (c Context) Login() string {
	return c.login
}

// Verify reports whether the context belongs to the expected login.
func (c Context) Verify(expectedLogin string) bool {
	return c.login == expectedLogin
}

// Zero reports whether the context carries no subject.
func (c Context) Zero() bool {
	return c.subjectID == ""
}

// Registry mints security contexts for authenticated logins and resolves
// subject IDs back to logins for auditing. Authentication itself happens
// upstream in the front-door transports; the registry trusts the login
// it is given.
type Registry struct {
	mu       sync.RWMutex
	subjects map[model.SubjectID]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		subjects: make(map[model.SubjectID]string),
	}
}

// Attach mints a new immutable Context for the given login and records
// the subject for later resolution.
func (r *Registry) Attach(login string) Context {
	subjectID := model.SubjectID(uuid.New().String())

	r.mu.Lock()
	r.subjects[subjectID] = login
	r.mu.Unlock()

	return Context{
		subjectID: subjectID,
		login:     login,
	}
}

// ResolveSubject returns the login a subject ID was attached for.
func (r *Registry) ResolveSubject(id model.SubjectID) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	login, ok := r.subjects[id]
	if !ok {
		return "", derror.ErrSubjectNotFound.GenWithStackByArgs(id)
	}
	return login, nil
}
