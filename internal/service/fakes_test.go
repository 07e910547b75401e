package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"bais_express/internal/model"
	"bais_express/internal/repository"
)

type memUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*model.User
	err    error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users[user.Email] = &stored
	return nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) UpdatePasswordByEmail(_ context.Context, email, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	u, ok := r.users[email]
	if !ok {
		return false, nil
	}
	u.PasswordHash = hash
	return true, nil
}

type memLedger struct {
	mu   sync.Mutex
	used map[string]bool
	err  error
}

func (l *memLedger) MarkUsed(_ context.Context, id string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	if l.used == nil {
		l.used = map[string]bool{}
	}
	if l.used[id] {
		return false, nil
	}
	l.used[id] = true
	return true, nil
}

type capturedReset struct {
	email, link string
}

type fakeResetSender struct {
	mu   sync.Mutex
	sent []capturedReset
	err  error
}

func (f *fakeResetSender) SendPasswordReset(_ context.Context, email, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, capturedReset{email, link})
	return nil
}

type memRequestCallRepo struct {
	mu     sync.Mutex
	nextID int64
	calls  []model.RequestCall
	err    error
}

func (r *memRequestCallRepo) Create(_ context.Context, rc *model.RequestCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	rc.ID = r.nextID
	rc.CreatedAt = time.Now()
	r.calls = append(r.calls, *rc)
	return nil
}

func (r *memRequestCallRepo) FindAll(_ context.Context) ([]model.RequestCall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []model.RequestCall{}
	for i := len(r.calls) - 1; i >= 0; i-- {
		out = append(out, r.calls[i])
	}
	return out, nil
}

func (r *memRequestCallRepo) UpdateStatus(_ context.Context, id int64, status string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	for i := range r.calls {
		if r.calls[i].ID == id {
			r.calls[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

func (r *memRequestCallRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	for i := range r.calls {
		if r.calls[i].ID == id {
			r.calls = append(r.calls[:i], r.calls[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	received []model.RequestCall
}

func (n *recordingNotifier) NotifyNewRequest(rc model.RequestCall) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, rc)
}

var errStorage = errors.New("connection refused")
