package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"charter-ops.backend/internal/usecases"
	"charter-ops.backend/pkg/logger"
)

const defaultSweepBatch = 100

// ContractExpiryJob periodically persists the expired status for
// pending-sign contracts past their deadline. Read paths already report the
// derived status, so the sweep only makes the terminal state durable.
type ContractExpiryJob struct {
	contracts *usecases.ContractUsecase
	interval  time.Duration
	batchSize int
	stop      chan struct{}
}

func NewContractExpiryJob(contracts *usecases.ContractUsecase, interval time.Duration, batchSize int) *ContractExpiryJob {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if batchSize <= 0 {
		batchSize = defaultSweepBatch
	}
	return &ContractExpiryJob{
		contracts: contracts,
		interval:  interval,
		batchSize: batchSize,
		stop:      make(chan struct{}),
	}
}

func (j *ContractExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting contract expiry job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "contract expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "contract expiry job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *ContractExpiryJob) Stop() {
	close(j.stop)
}

func (j *ContractExpiryJob) sweep(ctx context.Context) {
	expired, err := j.contracts.ExpireDue(ctx, j.batchSize)
	if err != nil {
		logger.Error(ctx, "contract expiry sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		logger.Info(ctx, "expired contracts", zap.Int("count", expired))
	}
}
