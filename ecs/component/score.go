package component

// Score tracks points and the running combo streak.
type Score struct {
	Points     int
	Combo      int
	BestCombo  int
	ComboValue int
}

var ScoreComponent = NewComponent[Score]()

// AddToCombo extends the current streak by one.
func (s *Score) AddToCombo() {
	if s == nil {
		return
	}
	s.Combo++
}

// EndCombo banks the current streak into Points and resets it.
func (s *Score) EndCombo() {
	if s == nil || s.Combo == 0 {
		return
	}
	value := s.ComboValue
	if value <= 0 {
		value = 100
	}
	// each link is worth more than the last
	s.Points += value * s.Combo * (s.Combo + 1) / 2
	if s.Combo > s.BestCombo {
		s.BestCombo = s.Combo
	}
	s.Combo = 0
}
