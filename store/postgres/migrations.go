package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Tally store.
var Migrations = migrate.NewGroup("tally")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_tally_entries",
			Version: "20260101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tally_entries (
    id              TEXT PRIMARY KEY,
    kind            TEXT NOT NULL DEFAULT 'receivable',
    currency        TEXT NOT NULL DEFAULT 'brl',
    description     TEXT NOT NULL DEFAULT '',
    document_value  BIGINT NOT NULL DEFAULT 0,
    discount        BIGINT NOT NULL DEFAULT 0,
    interest        BIGINT NOT NULL DEFAULT 0,
    total_value     BIGINT NOT NULL DEFAULT 0,
    down_payment    BIGINT NOT NULL DEFAULT 0,
    issue_date      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    manually_edited BOOLEAN NOT NULL DEFAULT FALSE,
    metadata        JSONB NOT NULL DEFAULT '{}',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_tally_entries_kind ON tally_entries (kind, created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tally_entries`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_tally_installments",
			Version: "20260101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tally_installments (
    id              TEXT PRIMARY KEY,
    entry_id        TEXT NOT NULL DEFAULT '',
    number          INT NOT NULL DEFAULT 0,
    currency        TEXT NOT NULL DEFAULT 'brl',
    due_date        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expected_amount BIGINT NOT NULL DEFAULT 0,
    paid_amount     BIGINT NOT NULL DEFAULT 0,
    paid_date       TIMESTAMPTZ,
    canceled        BOOLEAN NOT NULL DEFAULT FALSE,
    status          TEXT NOT NULL DEFAULT 'pending',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_tally_installments_entry_number ON tally_installments (entry_id, number);
CREATE INDEX IF NOT EXISTS idx_tally_installments_due ON tally_installments (due_date, status);
CREATE INDEX IF NOT EXISTS idx_tally_installments_status ON tally_installments (entry_id, status);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tally_installments`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_tally_payments",
			Version: "20260101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tally_payments (
    id                 TEXT PRIMARY KEY,
    entry_id           TEXT NOT NULL DEFAULT '',
    installment_id     TEXT NOT NULL DEFAULT '',
    installment_number INT NOT NULL DEFAULT 0,
    currency           TEXT NOT NULL DEFAULT 'brl',
    amount             BIGINT NOT NULL DEFAULT 0,
    paid_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    reference          TEXT NOT NULL DEFAULT '',
    metadata           JSONB NOT NULL DEFAULT '{}',
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_tally_payments_entry ON tally_payments (entry_id, paid_at);
CREATE INDEX IF NOT EXISTS idx_tally_payments_installment ON tally_payments (installment_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tally_payments`)
				return err
			},
		},
	)
}
