package notify

import "sync"

// Recorder накапливает уведомления в памяти. Используется в тестах.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(kind Kind, title, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append(r.notifications, Notification{
		Kind:        kind,
		Title:       title,
		Description: description,
	})
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.notifications) == 0 {
		return Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
}
