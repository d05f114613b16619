package utils

import (
	"log"
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers business-day questions for a symbol's venue using
// scmhub/calendar. Crypto pairs trade around the clock and bypass the MIC
// lookup entirely.
type TradingCalendar struct {
	Calendar   *calendar.Calendar
	Continuous bool // 24/7 venue (crypto pairs)
	Fallback   bool
	Timezone   *time.Location
}

// -----------------------------------------------------------------------------

func GetCalendar(symbol string) *TradingCalendar {
	// Crypto pairs on Yahoo carry a -USD / -EUR quote suffix and never close.
	if strings.Contains(symbol, "-USD") || strings.Contains(symbol, "-EUR") {
		return &TradingCalendar{Continuous: true, Timezone: time.UTC}
	}

	// Map the Yahoo exchange suffix to a MIC code (ISO 10383).
	mic := "xnys" // Default US NYSE
	switch {
	case strings.HasSuffix(symbol, ".L"):
		mic = "xlon"
	case strings.HasSuffix(symbol, ".PA"):
		mic = "xpar"
	case strings.HasSuffix(symbol, ".DE"):
		mic = "xfra"
	case strings.HasSuffix(symbol, ".AS"):
		mic = "xams"
	case strings.HasSuffix(symbol, ".MI"):
		mic = "xmil"
	case strings.HasSuffix(symbol, ".SW"):
		mic = "xswx"
	case strings.HasSuffix(symbol, ".TO"):
		mic = "xtse"
	case strings.HasSuffix(symbol, ".T"):
		mic = "xtks"
	case strings.HasSuffix(symbol, ".HK"):
		mic = "xhkg"
	case strings.HasSuffix(symbol, ".AX"):
		mic = "xasx"
	}

	cal := calendar.GetCalendar(mic)
	if cal == nil {
		cal = calendar.GetCalendar("xnys")
	}

	if cal == nil {
		log.Printf("WARNING: Failed to load calendar for MIC '%s' and fallback 'xnys'. Using simple fallback (Mon-Fri).", mic)
		nyLoc, _ := time.LoadLocation("America/New_York")
		if nyLoc == nil {
			nyLoc = time.UTC
		}
		return &TradingCalendar{Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{Calendar: cal, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Continuous {
		return true
	}
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// IsOpenOnMinute reports whether the venue is open at a specific minute.
func (tc *TradingCalendar) IsOpenOnMinute(t time.Time) bool {
	if tc.Continuous {
		return true
	}
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}

	if tc.Fallback {
		if !tc.IsTradingDay(t) {
			return false
		}
		hour, minute := t.Hour(), t.Minute()
		// 9:30 - 16:00 NY time
		return (hour > 9 || (hour == 9 && minute >= 30)) && hour < 16
	}

	return tc.Calendar.IsOpen(t)
}
