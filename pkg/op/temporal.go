package op

import "github.com/leapstack-labs/leapsp/pkg/value"

type (
	// Int is a nullable INT, the type of temporal offsets.
	Int = value.N[int32]
	// Date is a nullable DATE.
	Date = value.N[value.Date]
	// Time is a nullable TIME.
	Time = value.N[value.Time]
	// Timestamp is a nullable DATETIME.
	Timestamp = value.N[value.Timestamp]
)

// AddDate is d + n days.
func AddDate(d Date, n Int) Date {
	return lift2(d, n, func(x value.Date, days int32) value.Date { return x.AddDays(int64(days)) })
}

// SubDate is d - n days.
func SubDate(d Date, n Int) Date {
	return lift2(d, n, func(x value.Date, days int32) value.Date { return x.AddDays(-int64(days)) })
}

// DiffDate is l - r in days.
func DiffDate(l, r Date) Bigint {
	return lift2(l, r, value.Date.DaysSince)
}

// AddTime is t + n seconds, wrapping around midnight.
func AddTime(t Time, n Int) Time {
	return lift2(t, n, func(x value.Time, secs int32) value.Time { return x.AddSeconds(int64(secs)) })
}

// SubTime is t - n seconds, wrapping around midnight.
func SubTime(t Time, n Int) Time {
	return lift2(t, n, func(x value.Time, secs int32) value.Time { return x.AddSeconds(-int64(secs)) })
}

// DiffTime is l - r in whole seconds within one day.
func DiffTime(l, r Time) Bigint {
	return lift2(l, r, value.Time.SecondsSince)
}

// AddTimestamp is ts + n milliseconds.
func AddTimestamp(ts Timestamp, n Int) Timestamp {
	return lift2(ts, n, func(x value.Timestamp, ms int32) value.Timestamp { return x.AddMillis(int64(ms)) })
}

// SubTimestamp is ts - n milliseconds.
func SubTimestamp(ts Timestamp, n Int) Timestamp {
	return lift2(ts, n, func(x value.Timestamp, ms int32) value.Timestamp { return x.AddMillis(-int64(ms)) })
}

// DiffTimestamp is l - r in milliseconds.
func DiffTimestamp(l, r Timestamp) Bigint {
	return lift2(l, r, value.Timestamp.MillisSince)
}

// DiffDateTimestamp is d - ts in milliseconds, taking d at midnight.
func DiffDateTimestamp(d Date, ts Timestamp) Bigint {
	return lift2(d, ts, func(x value.Date, y value.Timestamp) int64 { return value.Midnight(x).MillisSince(y) })
}

// DiffTimestampDate is ts - d in milliseconds, taking d at midnight.
func DiffTimestampDate(ts Timestamp, d Date) Bigint {
	return lift2(ts, d, func(x value.Timestamp, y value.Date) int64 { return x.MillisSince(value.Midnight(y)) })
}
