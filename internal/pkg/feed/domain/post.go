package feed

import (
	"time"

	chat "github.com/Sayed1-11/Social-Media--sub000/internal/pkg/chat/domain"
)

// Post is one feed entry.
type Post struct {
	ID        string    `json:"_id"`
	Author    chat.User `json:"author"`
	Content   string    `json:"content"`
	MediaURL  string    `json:"mediaUrl,omitempty"`
	Likes     []string  `json:"likes,omitempty"` // user ids
	Comments  []Comment `json:"comments,omitempty"`
	Shares    int       `json:"shares"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikedBy tells whether userID already liked the post.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Comment is one comment under a post.
type Comment struct {
	ID        string    `json:"_id"`
	Author    chat.User `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Story is a short-lived media entry shown in the stories rail.
type Story struct {
	ID        string    `json:"_id"`
	Author    chat.User `json:"author"`
	MediaURL  string    `json:"mediaUrl"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
