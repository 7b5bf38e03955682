package feed

// Table identifies which backend table a change event touched
type Table string

const (
	TablePosts    Table = "posts"
	TableLikes    Table = "likes"
	TableComments Table = "comments"
)

// Op identifies the kind of change
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ChangeEvent is a realtime notification that a feed-relevant row changed.
// For like and comment changes EntityID carries the affected post's id, so
// suppression lines up with the interaction guard.
type ChangeEvent struct {
	Table    Table  `json:"table"`
	Op       Op     `json:"op"`
	EntityID string `json:"entity_id"`
}
