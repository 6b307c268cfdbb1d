package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'project_status') THEN
			CREATE TYPE project_status AS ENUM ('OPEN', 'IN_PROGRESS', 'COMPLETED', 'CANCELLED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'proposal_status') THEN
			CREATE TYPE proposal_status AS ENUM ('PENDING', 'ACCEPTED', 'REJECTED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_status') THEN
			CREATE TYPE contract_status AS ENUM ('ACTIVE', 'COMPLETED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'milestone_status') THEN
			CREATE TYPE milestone_status AS ENUM ('PENDING', 'IN_PROGRESS', 'COMPLETED', 'APPROVED', 'PAID');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		title VARCHAR(200) NOT NULL,
		budget NUMERIC(18,2) NOT NULL CHECK (budget > 0),
		deadline TIMESTAMPTZ NOT NULL,
		status project_status NOT NULL DEFAULT 'OPEN',
		company_id UUID NOT NULL,
		freelancer_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS proposals (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id),
		freelancer_id UUID NOT NULL,
		budget NUMERIC(18,2) NOT NULL CHECK (budget > 0),
		message TEXT NOT NULL DEFAULT '',
		status proposal_status NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_proposal_project_freelancer ON proposals (project_id, freelancer_id);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_proposal_accepted_per_project ON proposals (project_id) WHERE status = 'ACCEPTED';`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_project_status ON proposals (project_id, status);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id),
		freelancer_id UUID NOT NULL,
		company_id UUID NOT NULL,
		total_amount NUMERIC(18,2) NOT NULL CHECK (total_amount > 0),
		deadline TIMESTAMPTZ NOT NULL,
		status contract_status NOT NULL DEFAULT 'ACTIVE',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_contract_project ON contracts (project_id);`,
	`CREATE TABLE IF NOT EXISTS milestones (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		due_date TIMESTAMPTZ NOT NULL,
		deliverables JSONB NOT NULL DEFAULT '[]',
		status milestone_status NOT NULL DEFAULT 'PENDING',
		completed_at TIMESTAMPTZ,
		approved_at TIMESTAMPTZ,
		paid_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_milestones_contract_id ON milestones (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_milestones_status ON milestones (status);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
