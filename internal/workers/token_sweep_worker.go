package workers

import (
	"context"
	"time"

	"innerai_backend/internal/logger"

	"gorm.io/gorm"
)

const tokenSweepWorkerName = "token_sweep"

// TokenSweeper - то, что умеет чистить просроченные токены и коды
type TokenSweeper interface {
	SweepExpired(db *gorm.DB) (tokens int64, codes int64, err error)
}

// TokenSweepWorker периодически удаляет просроченные auth_tokens и verification_codes.
// Ленивая очистка в Authenticate остается, воркер только не дает таблицам расти.
type TokenSweepWorker struct {
	db       *gorm.DB
	sweeper  TokenSweeper
	interval time.Duration
}

func NewTokenSweepWorker(db *gorm.DB, sweeper TokenSweeper, interval time.Duration) *TokenSweepWorker {
	return &TokenSweepWorker{db: db, sweeper: sweeper, interval: interval}
}

// Start запускает цикл в отдельной горутине; done закрывается после остановки
func (w *TokenSweepWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.run(ctx)
	}()
	return done
}

func (w *TokenSweepWorker) run(ctx context.Context) {
	if w.interval <= 0 {
		logger.Info("Token sweep worker disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Token sweep worker started", "interval", w.interval.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("Token sweep worker stopped")
			return
		case <-ticker.C:
			w.SweepOnce(ctx)
		}
	}
}

// SweepOnce - один проход очистки
func (w *TokenSweepWorker) SweepOnce(ctx context.Context) {
	tokens, codes, err := w.sweeper.SweepExpired(w.db.WithContext(ctx))
	if err != nil {
		logger.WorkerLog(tokenSweepWorkerName, "sweep_expired", 0, err)
		return
	}
	logger.WorkerLog(tokenSweepWorkerName, "delete_expired_tokens", tokens, nil)
	logger.WorkerLog(tokenSweepWorkerName, "delete_expired_codes", codes, nil)
}
