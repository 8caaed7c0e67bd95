package notify

import (
	"context"
	"sync"
)

// Mock records comments for verification in tests.
type Mock struct {
	mu sync.Mutex

	// Err is returned by every Comment call when set.
	Err error

	// Comments records every posted comment.
	Comments []PostedComment
}

// PostedComment is one recorded notification.
type PostedComment struct {
	Issue string
	Body  string
}

// NewMock creates an empty mock notifier.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Comment(ctx context.Context, issue string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Comments = append(m.Comments, PostedComment{Issue: issue, Body: body})
	return nil
}

// For returns all comments posted to an issue.
func (m *Mock) For(issue string) []PostedComment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []PostedComment
	for _, c := range m.Comments {
		if c.Issue == issue {
			out = append(out, c)
		}
	}
	return out
}
