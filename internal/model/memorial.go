// Package model はドメインモデルを定義する。
package model

import (
	"strconv"
	"time"
)

// MemorialDateLayout は記念日の日付文字列フォーマット。
const MemorialDateLayout = "2006-01-02"

// Memorial は追悼記念日レコードを表す。
// Dateは "YYYY-MM-DD" 形式のカレンダー日付文字列として保持する。
type Memorial struct {
	ID          string
	UserID      string
	Description string
	Date        string
	CreatedAt   time.Time
}

// DayCountKind は記念日と今日の関係を表す。
type DayCountKind string

const (
	// DayCountOnTheDay は記念日当日であることを示す。
	DayCountOnTheDay DayCountKind = "on_the_day"
	// DayCountUpcoming は記念日が未来であることを示す。
	DayCountUpcoming DayCountKind = "upcoming"
	// DayCountElapsed は記念日が過去であることを示す。
	DayCountElapsed DayCountKind = "elapsed"
)

// DayCount は記念日と今日のカレンダー日付差を表す。
// Daysは常に非負で、Kindが方向を示す。
type DayCount struct {
	Kind DayCountKind
	Days int
}

// Label はD-Day表記のラベルを返す。
// 当日は "D-Day"、n日後は "D-n"、n日前は "D+n"。
func (d DayCount) Label() string {
	switch d.Kind {
	case DayCountOnTheDay:
		return "D-Day"
	case DayCountUpcoming:
		return "D-" + strconv.Itoa(d.Days)
	default:
		return "D+" + strconv.Itoa(d.Days)
	}
}
