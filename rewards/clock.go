package rewards

import "time"

// CivilClock answers "what day is it" in a fixed named timezone. Every
// daily reset in the engine compares civil-day strings produced here,
// never raw UTC-day boundaries.
type CivilClock struct {
	loc *time.Location
}

func NewCivilClock(timezone string) (*CivilClock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &CivilClock{loc: loc}, nil
}

// TodayString returns the civil date of the given instant as YYYY-MM-DD.
func (c *CivilClock) TodayString(now time.Time) string {
	return now.In(c.loc).Format("2006-01-02")
}

// NextMidnight returns the instant the next local day starts. time.Date
// resolves the zone offset at the candidate midnight, so the result stays
// correct across daylight-saving transitions.
func (c *CivilClock) NextMidnight(now time.Time) time.Time {
	local := now.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, c.loc)
}

// Location exposes the configured zone for formatting.
func (c *CivilClock) Location() *time.Location {
	return c.loc
}
