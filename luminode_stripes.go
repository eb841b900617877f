package lumina

// Stripes places a rotating striped square per note. Squares are laid out so
// that no two overlap; a note whose square cannot be placed is skipped.
type Stripes struct {
	s   Surface
	cfg *Config
}

// NewStripes creates a Stripes luminode drawing onto s.
func NewStripes(s Surface, cfg *Config) *Stripes {
	return &Stripes{s: s, cfg: cfg}
}

// Name returns "stripes".
func (l *Stripes) Name() string { return "stripes" }

// Params declares square size, stripe width and rotation speed.
func (l *Stripes) Params() []ParamSpec {
	return []ParamSpec{
		numberParam("size", 10, 400, 1, 80),
		numberParam("stripe", 1, 40, 1, 6),
		numberParam("rotation", -4, 4, 0.05, 0.4),
	}
}

// Draw places and draws one striped square per note.
func (l *Stripes) Draw(t float64, notes []Note, p *Params) {
	if len(notes) == 0 {
		return
	}
	w, h := l.s.Size()
	squares := placeSquares(notes, w, h, p.Float("size"))
	for i, sq := range squares {
		if sq.Size == 0 {
			continue
		}
		n := notes[i]
		angle := t*p.Float("rotation") + float64(n.Pitch)*0.2
		DrawStripedSquare(l.s, sq.X, sq.Y, sq.Size, angle, p.Float("stripe"), PitchColor(n.Pitch, n.Velocity))
	}
}

// placeAttempts bounds the search for a free spot per square.
const placeAttempts = 8

// placeSquares returns one square per note (zero Size when no free spot was
// found). Positions are derived from pitch so a held note stays put; on a
// collision the square steps right, wrapping to the next row.
func placeSquares(notes []Note, w, h, base float64) []Square {
	out := make([]Square, len(notes))
	placed := make([]Square, 0, len(notes))
	for i, n := range notes {
		size := base * (0.5 + n.Velocity)
		if size <= 0 || size > w || size > h {
			continue
		}
		x := float64((n.Pitch*37)%100) / 100 * (w - size)
		y := float64((n.Pitch*53)%100) / 100 * (h - size)
		for attempt := 0; attempt < placeAttempts; attempt++ {
			sq := Square{X: x, Y: y, Size: size}
			if !overlapsAny(sq, placed) {
				out[i] = sq
				placed = append(placed, sq)
				break
			}
			x += size
			if x > w-size {
				x = 0
				y += size
				if y > h-size {
					y = 0
				}
			}
		}
	}
	return out
}

func overlapsAny(sq Square, others []Square) bool {
	for _, o := range others {
		if CheckOverlap(sq, o) {
			return true
		}
	}
	return false
}
