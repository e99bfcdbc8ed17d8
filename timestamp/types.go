package timestamp

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Value is implemented by Instant and OffsetDatetime
type Value interface {
	Time() time.Time
}

// Instant is an absolute point in time without an offset. It maps to a
// "timestamp without time zone" column and is always held in UTC.
type Instant struct {
	t time.Time
}

// InstantOf returns the Instant for t, discarding its location
func InstantOf(t time.Time) Instant {
	return Instant{t: t.UTC()}
}

// Now returns the current Instant from clock, or the system clock if nil
func Now(clock func() time.Time) Instant {
	if clock == nil {
		clock = time.Now
	}
	return InstantOf(clock())
}

// Time returns the instant as a UTC time.Time
func (i Instant) Time() time.Time {
	return i.t
}

// IsZero reports whether i is the zero Instant
func (i Instant) IsZero() bool {
	return i.t.IsZero()
}

// Equal reports whether both values are the same point in time
func (i Instant) Equal(o Instant) bool {
	return i.t.Equal(o.t)
}

func (i Instant) String() string {
	return ISOFractional.format(i.t)
}

// Value implements driver.Valuer. The UTC wall clock is what a timestamp
// column stores.
func (i Instant) Value() (driver.Value, error) {
	return i.t, nil
}

// Scan implements sql.Scanner
func (i *Instant) Scan(src any) error {
	t, err := scanTime(src)
	if err != nil {
		return err
	}
	// timestamp columns come back without a zone; the wall clock is UTC
	*i = InstantOf(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC))
	return nil
}

// OffsetDatetime is an absolute point in time annotated with a UTC offset.
// It maps to a "timestamp with time zone" column.
type OffsetDatetime struct {
	t time.Time
}

// OffsetDatetimeOf returns t with its location reduced to a fixed offset
func OffsetDatetimeOf(t time.Time) OffsetDatetime {
	_, offset := t.Zone()
	if offset == 0 {
		return OffsetDatetime{t: t.UTC()}
	}
	return OffsetDatetime{t: t.In(time.FixedZone("", offset))}
}

// Time returns the datetime in its own offset
func (o OffsetDatetime) Time() time.Time {
	return o.t
}

// Offset returns the UTC offset in seconds east of UTC
func (o OffsetDatetime) Offset() int {
	_, offset := o.t.Zone()
	return offset
}

// UTC returns the same instant with a zero offset
func (o OffsetDatetime) UTC() OffsetDatetime {
	return OffsetDatetime{t: o.t.UTC()}
}

// IsZero reports whether o is the zero OffsetDatetime
func (o OffsetDatetime) IsZero() bool {
	return o.t.IsZero()
}

// Equal reports whether both values are the same instant with the same offset
func (o OffsetDatetime) Equal(other OffsetDatetime) bool {
	return o.t.Equal(other.t) && o.Offset() == other.Offset()
}

// SameInstant reports whether both values are the same point in time,
// ignoring offsets
func (o OffsetDatetime) SameInstant(other OffsetDatetime) bool {
	return o.t.Equal(other.t)
}

func (o OffsetDatetime) String() string {
	return ISOFractional.format(o.t)
}

// Value implements driver.Valuer
func (o OffsetDatetime) Value() (driver.Value, error) {
	return o.t, nil
}

// Scan implements sql.Scanner. Stored values are collapsed to UTC.
func (o *OffsetDatetime) Scan(src any) error {
	t, err := scanTime(src)
	if err != nil {
		return err
	}
	*o = OffsetDatetime{t: t.UTC()}
	return nil
}

// ToInstant drops the offset, keeping the absolute point in time
func ToInstant(o OffsetDatetime) Instant {
	return InstantOf(o.t)
}

// ToOffsetDatetimeUTC reinterprets the instant with a zero offset
func ToOffsetDatetimeUTC(i Instant) OffsetDatetime {
	return OffsetDatetime{t: i.t.UTC()}
}

func scanTime(src any) (time.Time, error) {
	switch v := src.(type) {
	case time.Time:
		return v, nil
	case []byte:
		return parseDBTime(string(v))
	case string:
		return parseDBTime(v)
	case nil:
		return time.Time{}, ErrNullTime
	default:
		return time.Time{}, fmt.Errorf("%w: %T", ErrUnsupportedSource, src)
	}
}

// Text forms used by PostgreSQL for timestamp and timestamptz
const (
	timestampFormat    = "2006-01-02 15:04:05.999999999"
	timestamptzFormat  = "2006-01-02 15:04:05.999999999-07:00"
	timestamptzFormat2 = "2006-01-02 15:04:05.999999999-07"
	timestamptzFormat3 = "2006-01-02 15:04:05.999999999-07:00:00"
)

func parseDBTime(s string) (time.Time, error) {
	if len(s) > 9 {
		if c := s[len(s)-9]; c == '+' || c == '-' {
			return time.Parse(timestamptzFormat3, s)
		}
	}
	if len(s) > 6 {
		if c := s[len(s)-6]; c == '+' || c == '-' {
			return time.Parse(timestamptzFormat, s)
		}
	}
	if len(s) > 3 {
		if c := s[len(s)-3]; c == '+' || c == '-' {
			return time.Parse(timestamptzFormat2, s)
		}
	}
	return time.Parse(timestampFormat, s)
}
