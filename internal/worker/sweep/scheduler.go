package sweep

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler は掃除ジョブを一定間隔で繰り返し実行する。
type Scheduler struct {
	job    *Job
	logger *slog.Logger
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
func NewScheduler(job *Job, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		job:    job,
		logger: logger,
	}
}

// Start は指定間隔のティッカーでスケジューラを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("掃除スケジューラを開始しました",
		slog.Duration("interval", interval),
		slog.Duration("grace_period", s.job.GracePeriod),
	)

	// 起動直後に1回実行
	if err := s.job.Run(ctx); err != nil {
		s.logger.Error("掃除ジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("掃除スケジューラを停止しました")
			return
		case <-ticker.C:
			if err := s.job.Run(ctx); err != nil {
				s.logger.Error("掃除ジョブの実行に失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
