package value

import (
	"cmp"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const (
	secondsPerDay = 86400
	nanosPerDay   = secondsPerDay * int64(time.Second)

	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Date is a calendar date with no time zone, counted in days from 1970-01-01.
type Date struct {
	days int64
}

// DateOf returns the date for the given calendar fields. Out-of-range fields
// normalize the way time.Date does.
func DateOf(year int, month time.Month, day int) Date {
	return Date{days: time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay}
}

// DateFromTime returns the calendar date of t in t's own location.
func DateFromTime(t time.Time) Date {
	y, m, d := t.Date()
	return DateOf(y, m, d)
}

// ParseDate parses yyyy-mm-dd.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateFromTime(t), nil
}

// Time returns midnight of d in UTC.
func (d Date) Time() time.Time {
	return time.Unix(d.days*secondsPerDay, 0).UTC()
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int64) Date {
	return Date{days: d.days + n}
}

// DaysSince returns the signed number of days from o to d.
func (d Date) DaysSince(o Date) int64 {
	return d.days - o.days
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	return cmp.Compare(d.days, o.days)
}

// String formats d as yyyy-mm-dd.
func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.Time(), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateFromTime(v)
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanText(s string) error {
	if len(s) > len(dateLayout) {
		// drivers may hand back a full timestamp for DATE columns
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Time is a time of day with no date or zone, held as nanoseconds since midnight.
type Time struct {
	nanos int64
}

// TimeOf returns the time of day for the given fields. The result wraps into a single day.
func TimeOf(hour, minute, sec, nsec int) Time {
	total := (int64(hour)*3600+int64(minute)*60+int64(sec))*int64(time.Second) + int64(nsec)
	return wrapNanos(total)
}

// TimeFromTime returns the wall-clock time of day of t.
func TimeFromTime(t time.Time) Time {
	return TimeOf(t.Hour(), t.Minute(), t.Second(), t.Nanosecond())
}

// ParseTime parses hh:mm:ss with an optional fractional second.
func ParseTime(s string) (Time, error) {
	t, err := time.Parse("15:04:05.999999999", strings.TrimSpace(s))
	if err != nil {
		return Time{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return TimeFromTime(t), nil
}

func wrapNanos(n int64) Time {
	n %= nanosPerDay
	if n < 0 {
		n += nanosPerDay
	}
	return Time{nanos: n}
}

// AddSeconds returns t shifted by n seconds, wrapping around midnight.
func (t Time) AddSeconds(n int64) Time {
	return wrapNanos(t.nanos + (n%secondsPerDay)*int64(time.Second))
}

// SecondsSince returns the signed whole seconds from o to t within the same day.
// Fractions are truncated toward zero.
func (t Time) SecondsSince(o Time) int64 {
	return (t.nanos - o.nanos) / int64(time.Second)
}

// Compare returns -1, 0 or +1.
func (t Time) Compare(o Time) int {
	return cmp.Compare(t.nanos, o.nanos)
}

// Clock returns the hour, minute, second and nanosecond of t.
func (t Time) Clock() (hour, minute, sec, nsec int) {
	secs := t.nanos / int64(time.Second)
	return int(secs / 3600), int(secs / 60 % 60), int(secs % 60), int(t.nanos % int64(time.Second))
}

// String formats t as hh:mm:ss.
func (t Time) String() string {
	h, m, s, _ := t.Clock()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Value implements driver.Valuer.
func (t Time) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner.
func (t *Time) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = TimeFromTime(v)
		return nil
	case string:
		parsed, err := ParseTime(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Time", src)
	}
}

// Timestamp is a date and time of day with no zone. The wall clock is stored in UTC.
type Timestamp struct {
	t time.Time
}

// TimestampOf returns the timestamp for the given fields.
func TimestampOf(year int, month time.Month, day, hour, minute, sec, nsec int) Timestamp {
	return Timestamp{t: time.Date(year, month, day, hour, minute, sec, nsec, time.UTC)}
}

// TimestampFromTime keeps the wall clock of t and drops its location.
func TimestampFromTime(t time.Time) Timestamp {
	return TimestampOf(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond())
}

// Midnight returns the timestamp at the start of d.
func Midnight(d Date) Timestamp {
	return Timestamp{t: d.Time()}
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	dateLayout,
}

// ParseTimestamp parses yyyy-mm-dd hh:mm:ss[.fff]. A bare date means midnight.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimestampFromTime(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

// Time returns the wall clock as a UTC time.Time.
func (ts Timestamp) Time() time.Time {
	return ts.t
}

// Date returns the calendar date of ts.
func (ts Timestamp) Date() Date {
	return DateFromTime(ts.t)
}

// AddMillis returns ts shifted by n milliseconds.
func (ts Timestamp) AddMillis(n int64) Timestamp {
	secs, ms := n/1000, n%1000
	return Timestamp{t: ts.t.Add(time.Duration(secs) * time.Second).Add(time.Duration(ms) * time.Millisecond)}
}

// MillisSince returns the signed whole milliseconds from o to ts, truncated toward zero.
func (ts Timestamp) MillisSince(o Timestamp) int64 {
	secs := ts.t.Unix() - o.t.Unix()
	nanos := int64(ts.t.Nanosecond() - o.t.Nanosecond())
	if secs > 0 && nanos < 0 {
		secs--
		nanos += int64(time.Second)
	} else if secs < 0 && nanos > 0 {
		secs++
		nanos -= int64(time.Second)
	}
	return secs*1000 + nanos/int64(time.Millisecond)
}

// Compare returns -1, 0 or +1.
func (ts Timestamp) Compare(o Timestamp) int {
	return ts.t.Compare(o.t)
}

// String formats ts as yyyy-mm-dd hh:mm:ss.SSS.
func (ts Timestamp) String() string {
	return ts.t.Format("2006-01-02 15:04:05.000")
}

// Value implements driver.Valuer.
func (ts Timestamp) Value() (driver.Value, error) {
	return ts.t, nil
}

// Scan implements sql.Scanner.
func (ts *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts = TimestampFromTime(v)
		return nil
	case string:
		parsed, err := ParseTimestamp(v)
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	case []byte:
		return ts.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
}
