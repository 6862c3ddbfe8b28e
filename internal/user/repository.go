package user

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("email already registered")
)

type Repository interface {
	List() ([]User, error)
	GetByID(id int) (User, error)
	Create(u User) (User, error)
	Update(id int, u User) (User, error)
	Delete(id int) error
}

// InMemoryRepository keeps users in a slice ordered by id. It enforces the
// same guarantees as the Postgres repository: unique emails, ascending ids,
// storage-assigned id and created_at. Safe for concurrent use.
type InMemoryRepository struct {
	mu     sync.Mutex
	users  []User
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) List() ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]User, len(r.users))
	copy(users, r.users)
	return users, nil
}

func (r *InMemoryRepository) GetByID(id int) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) Create(u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return User{}, ErrEmailExists
		}
	}

	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now().UTC()
	r.users = append(r.users, u)
	return u, nil
}

func (r *InMemoryRepository) Update(id int, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.users {
		if existing.ID != id {
			continue
		}
		for _, other := range r.users {
			if other.ID != id && other.Email == u.Email {
				return User{}, ErrEmailExists
			}
		}
		u.ID = existing.ID
		u.CreatedAt = existing.CreatedAt
		r.users[i] = u
		return u, nil
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.users {
		if existing.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
