package model

import (
	"fmt"
	"math"
	"time"
)

// Hours is an [open, close] pair in decimal hours (9.5 = 09:30).
// The zero pair means closed for the day.
type Hours [2]float64

// WeeklyHours holds one Hours pair per weekday, indexed by time.Weekday.
type WeeklyHours [7]Hours

// Closed reports whether h is the (0,0) closed marker.
func (h Hours) Closed() bool { return h[0] == 0 && h[1] == 0 }

func (h Hours) String() string {
	if h.Closed() {
		return "Closed"
	}
	return clock(h[0]) + "–" + clock(h[1])
}

// Contains reports whether the decimal hour t falls inside h. Ranges that
// close after midnight (close < open) wrap around.
func (h Hours) Contains(t float64) bool {
	if h.Closed() {
		return false
	}
	if h[1] < h[0] {
		return t >= h[0] || t < h[1]
	}
	return t >= h[0] && t < h[1]
}

// Day returns the hours for wd.
func (w WeeklyHours) Day(wd time.Weekday) Hours { return w[int(wd)%7] }

// OpenAt reports whether the store is open at t (in t's location).
func (w WeeklyHours) OpenAt(t time.Time) bool {
	dec := float64(t.Hour()) + float64(t.Minute())/60
	return w.Day(t.Weekday()).Contains(dec)
}

func clock(dec float64) string {
	h := int(math.Floor(dec))
	m := int(math.Round((dec - float64(h)) * 60))
	if m == 60 {
		h, m = h+1, 0
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}
