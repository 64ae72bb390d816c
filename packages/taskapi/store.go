package taskapi

import "sync"

type Task struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

type TaskCreate struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// TaskUpdate carries only the fields to change; nil fields are left as-is.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// Sequence hands out task ids.
type Sequence interface {
	Next() int
}

// Counter is a Sequence yielding start, start+1, ...
type Counter struct {
	mu   sync.Mutex
	next int
}

func NewCounter(start int) *Counter {
	return &Counter{next: start}
}

func (c *Counter) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.next
	c.next++
	return v
}

// Store keeps tasks in creation order. Ids are never reused, even after a
// delete.
type Store struct {
	mu    sync.RWMutex
	tasks []Task
	seq   Sequence
}

func NewStore(seq Sequence) *Store {
	if seq == nil {
		seq = NewCounter(1)
	}
	return &Store{seq: seq}
}

func (s *Store) Create(in TaskCreate) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := Task{ID: s.seq.Next(), Title: in.Title, Description: in.Description}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *Store) List() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Get(id int) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

func (s *Store) Update(id int, in TaskUpdate) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	t := s.tasks[i]
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	s.tasks[i] = t
	return t, true
}

func (s *Store) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true
}

func (s *Store) indexOf(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
