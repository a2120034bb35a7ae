package types

import "time"

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type BoardResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	OwnerID     string        `json:"ownerId"`
	Owner       *UserResponse `json:"owner,omitempty"`
	Members     []string      `json:"members"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type ListResponse struct {
	ID       string `json:"id"`
	BoardID  string `json:"boardId"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}
