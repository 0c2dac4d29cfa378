package game

// Snake is the player. Body[0] is the head.
type Snake struct {
	Body      []Point
	Direction Direction
	// Pending is the buffered direction applied on the next Advance.
	Pending Direction
}

// NewSnake lays out a straight snake of the given length with its head at
// head, trailing away from dir.
func NewSnake(head Point, dir Direction, length int) Snake {
	if length < 1 {
		length = 1
	}
	dx, dy := dir.Delta()
	body := make([]Point, length)
	for i := range body {
		body[i] = Point{X: head.X - dx*int32(i), Y: head.Y - dy*int32(i)}
	}
	return Snake{Body: body, Direction: dir, Pending: dir}
}

// Clone deep-copies the body.
func (s Snake) Clone() Snake {
	out := s
	if len(s.Body) > 0 {
		out.Body = make([]Point, len(s.Body))
		copy(out.Body, s.Body)
	}
	return out
}

// Head returns the first segment.
func (s *Snake) Head() Point {
	return s.Body[0]
}

// Len is the number of segments.
func (s *Snake) Len() int {
	return len(s.Body)
}

// ChangeDirection buffers d for the next move. Invalid directions and the
// exact reverse of the current direction are refused.
func (s *Snake) ChangeDirection(d Direction) bool {
	if !d.Valid() || d == s.Direction.Opposite() {
		return false
	}
	s.Pending = d
	return true
}

// Advance applies the pending direction, pushes a new head and pops the tail.
// The popped tail is returned so a growing tick can restore it with Grow.
func (s *Snake) Advance(g Grid) (head, vacated Point) {
	if s.Pending.Valid() {
		s.Direction = s.Pending
	}
	head = g.Step(s.Head(), s.Direction)

	vacated = s.Body[len(s.Body)-1]
	copy(s.Body[1:], s.Body[:len(s.Body)-1])
	s.Body[0] = head
	return head, vacated
}

// Grow re-attaches the tail vacated by the last Advance.
func (s *Snake) Grow(vacated Point) {
	s.Body = append(s.Body, vacated)
}

// Occupies reports whether p matches a segment at index >= from.
// Spawn checks pass 0; self-collision passes 1 to skip the head.
func (s *Snake) Occupies(p Point, from int) bool {
	for i := from; i < len(s.Body); i++ {
		if s.Body[i] == p {
			return true
		}
	}
	return false
}
