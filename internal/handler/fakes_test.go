package handler

import (
	"context"
	"net/url"
	"sync"
	"time"

	"bais_express/internal/model"
	"bais_express/internal/repository"
)

type memUsers struct {
	mu     sync.Mutex
	nextID int
	byMail map[string]model.User
}

func (r *memUsers) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byMail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	r.nextID++
	u.ID = r.nextID
	r.byMail[u.Email] = *u
	return nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byMail[email]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *memUsers) UpdatePasswordByEmail(_ context.Context, email, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byMail[email]
	if !ok {
		return false, nil
	}
	u.PasswordHash = hash
	r.byMail[email] = u
	return true, nil
}

func (r *memUsers) setRole(email, role string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.byMail[email]
	u.Role = role
	r.byMail[email] = u
}

type memRequests struct {
	mu     sync.Mutex
	nextID int64
	rows   []model.RequestCall
}

func (r *memRequests) Create(_ context.Context, rc *model.RequestCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rc.ID = r.nextID
	rc.CreatedAt = time.Now()
	r.rows = append(r.rows, *rc)
	return nil
}

func (r *memRequests) FindAll(_ context.Context) ([]model.RequestCall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.RequestCall{}
	for i := len(r.rows) - 1; i >= 0; i-- {
		out = append(out, r.rows[i])
	}
	return out, nil
}

func (r *memRequests) UpdateStatus(_ context.Context, id int64, status string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

func (r *memRequests) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// outbox stands in for the notifier
type outbox struct {
	mu       sync.Mutex
	links    map[string]string
	requests []model.RequestCall
	fail     error
}

func (o *outbox) SendPasswordReset(_ context.Context, email, link string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail != nil {
		return o.fail
	}
	o.links[email] = link
	return nil
}

func (o *outbox) NotifyNewRequest(rc model.RequestCall) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests = append(o.requests, rc)
}

func (o *outbox) resetToken(email string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	u, err := url.Parse(o.links[email])
	if err != nil {
		return ""
	}
	return u.Query().Get("token")
}
