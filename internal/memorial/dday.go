package memorial

import (
	"time"

	"github.com/hitoshi/omoide/internal/model"
)

// ComputeDayCount は対象日と現在時刻からD-Dayカウントを算出する。
// 比較は暦日単位で行い、時刻成分は無視する。日付の切り替わりは深夜0時。
//   - 対象日が今日: on_the_day（D-Day）
//   - 対象日が未来: upcoming（D-n、nは残り日数）
//   - 対象日が過去: elapsed（D+n、nは経過日数）
func ComputeDayCount(target, now time.Time) model.DayCount {
	targetDay := truncateToDay(target)
	today := truncateToDay(now)

	diff := int(targetDay.Sub(today).Hours() / 24)

	switch {
	case diff == 0:
		return model.DayCount{Kind: model.DayCountOnTheDay, Days: 0}
	case diff > 0:
		return model.DayCount{Kind: model.DayCountUpcoming, Days: diff}
	default:
		return model.DayCount{Kind: model.DayCountElapsed, Days: -diff}
	}
}

// truncateToDay は暦日をUTC深夜0時に正規化する。
// 記念日は日付のみを保持するため、ロケーションをUTCに揃えて日数差を整数にする。
func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
