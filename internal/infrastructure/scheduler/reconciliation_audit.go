package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/forwardops/backend/internal/domain/ledger"
	"github.com/forwardops/backend/internal/domain/partner"
	"github.com/forwardops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const auditPageSize = 200

// Reconciler replays a party's ledger and persists the corrected chain
type Reconciler interface {
	Reconcile(ctx context.Context, kind partner.PartyKind, partyID uuid.UUID) (ledger.ReplayResult, error)
}

// AuditConfig holds the nightly reconciliation audit configuration
type AuditConfig struct {
	CronSchedule string
	JobTimeout   time.Duration
}

// ReconciliationAudit sweeps every party on a cron schedule, replays their
// ledgers and logs any drift between the cached balance and the replayed one.
// Drift means a write path updated a balance without going through replay;
// the sweep both reports it and heals it.
type ReconciliationAudit struct {
	config     AuditConfig
	customers  partner.CustomerRepository
	vendors    partner.VendorRepository
	reconciler Reconciler
	logger     *zap.Logger

	cron *cron.Cron
	mu   sync.Mutex
	// Last sweep tracking
	lastRunAt *time.Time
}

// NewReconciliationAudit creates a new reconciliation audit job
func NewReconciliationAudit(
	config AuditConfig,
	customers partner.CustomerRepository,
	vendors partner.VendorRepository,
	reconciler Reconciler,
	logger *zap.Logger,
) *ReconciliationAudit {
	return &ReconciliationAudit{
		config:     config,
		customers:  customers,
		vendors:    vendors,
		reconciler: reconciler,
		logger:     logger,
		cron:       cron.New(),
	}
}

// Start registers the audit on its cron schedule and starts the scheduler
func (a *ReconciliationAudit) Start() error {
	_, err := a.cron.AddFunc(a.config.CronSchedule, a.runSweep)
	if err != nil {
		return err
	}
	a.cron.Start()

	a.logger.Info("Reconciliation audit started",
		zap.String("schedule", a.config.CronSchedule),
		zap.Duration("job_timeout", a.config.JobTimeout),
	)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (a *ReconciliationAudit) Stop(ctx context.Context) error {
	stopped := a.cron.Stop()
	select {
	case <-stopped.Done():
		a.logger.Info("Reconciliation audit stopped")
		return nil
	case <-ctx.Done():
		a.logger.Warn("Reconciliation audit stop timed out")
		return ctx.Err()
	}
}

// TriggerManualRun runs a sweep outside the schedule
func (a *ReconciliationAudit) TriggerManualRun() {
	go a.runSweep()
}

// LastRunAt returns when the last sweep started
func (a *ReconciliationAudit) LastRunAt() *time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastRunAt
}

func (a *ReconciliationAudit) runSweep() {
	now := time.Now()
	a.mu.Lock()
	a.lastRunAt = &now
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), a.config.JobTimeout)
	defer cancel()

	a.logger.Info("Starting ledger reconciliation sweep")

	audited, drifted := a.sweepCustomers(ctx)
	vAudited, vDrifted := a.sweepVendors(ctx)

	a.logger.Info("Ledger reconciliation sweep completed",
		zap.Int("parties_audited", audited+vAudited),
		zap.Int("balances_drifted", drifted+vDrifted),
		zap.Duration("elapsed", time.Since(now)),
	)
}

func (a *ReconciliationAudit) sweepCustomers(ctx context.Context) (audited, drifted int) {
	for page := 1; ; page++ {
		filter := shared.Filter{Page: page, PageSize: auditPageSize, OrderBy: "created_at", OrderDir: "asc"}
		customers, _, err := a.customers.FindAll(ctx, filter)
		if err != nil {
			a.logger.Error("Audit failed to list customers", zap.Error(err))
			return audited, drifted
		}
		if len(customers) == 0 {
			return audited, drifted
		}
		for _, c := range customers {
			if ctx.Err() != nil {
				return audited, drifted
			}
			if a.auditParty(ctx, partner.PartyKindCustomer, c.ID, c.Balance()) {
				drifted++
			}
			audited++
		}
		if len(customers) < auditPageSize {
			return audited, drifted
		}
	}
}

func (a *ReconciliationAudit) sweepVendors(ctx context.Context) (audited, drifted int) {
	for page := 1; ; page++ {
		filter := shared.Filter{Page: page, PageSize: auditPageSize, OrderBy: "created_at", OrderDir: "asc"}
		vendors, _, err := a.vendors.FindAll(ctx, filter)
		if err != nil {
			a.logger.Error("Audit failed to list vendors", zap.Error(err))
			return audited, drifted
		}
		if len(vendors) == 0 {
			return audited, drifted
		}
		for _, v := range vendors {
			if ctx.Err() != nil {
				return audited, drifted
			}
			if a.auditParty(ctx, partner.PartyKindVendor, v.ID, v.Balance()) {
				drifted++
			}
			audited++
		}
		if len(vendors) < auditPageSize {
			return audited, drifted
		}
	}
}

// auditParty replays one party and reports whether the cached balance drifted
func (a *ReconciliationAudit) auditParty(ctx context.Context, kind partner.PartyKind, partyID uuid.UUID, cached decimal.Decimal) bool {
	result, err := a.reconciler.Reconcile(ctx, kind, partyID)
	if err != nil {
		a.logger.Error("Audit reconcile failed",
			zap.String("party_kind", string(kind)),
			zap.String("party_id", partyID.String()),
			zap.Error(err),
		)
		return false
	}

	if !result.CurrentBalance.Equal(cached) {
		a.logger.Warn("Cached balance drifted from replayed balance",
			zap.String("party_kind", string(kind)),
			zap.String("party_id", partyID.String()),
			zap.String("cached_balance", cached.String()),
			zap.String("replayed_balance", result.CurrentBalance.String()),
		)
		return true
	}
	return false
}
