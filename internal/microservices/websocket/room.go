package websocket

// Room groups the open connections of one user: a user with two terminals
// gets every notification on both. Rooms are owned by the hub goroutine and
// need no locking.
type Room struct {
	UserID  string
	Clients map[*Client]struct{}
}

func NewRoom(userID string) *Room {
	return &Room{
		UserID:  userID,
		Clients: make(map[*Client]struct{}),
	}
}

func (r *Room) Add(c *Client) {
	r.Clients[c] = struct{}{}
}

// Remove reports whether c was in the room.
func (r *Room) Remove(c *Client) bool {
	if _, ok := r.Clients[c]; !ok {
		return false
	}
	delete(r.Clients, c)
	return true
}

func (r *Room) Len() int {
	return len(r.Clients)
}
