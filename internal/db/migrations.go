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
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN
			CREATE TYPE user_role AS ENUM ('FLEET_MANAGER', 'BROKER', 'PROVIDER');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'quote_status') THEN
			CREATE TYPE quote_status AS ENUM ('PENDING', 'GENERATED', 'SENT', 'ACCEPTED', 'DECLINED', 'EXPIRED', 'CONVERTED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'policy_status') THEN
			CREATE TYPE policy_status AS ENUM ('PENDING', 'ACTIVE', 'EXPIRED', 'CANCELLED', 'SUSPENDED');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) NOT NULL,
		first_name VARCHAR(128) NOT NULL DEFAULT '',
		last_name VARCHAR(128) NOT NULL DEFAULT '',
		company_name VARCHAR(255) NOT NULL DEFAULT '',
		role user_role NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		fleet_size INT,
		industry_type VARCHAR(128),
		broker_license_number VARCHAR(64),
		commission_rate NUMERIC(10,4),
		provider_license_number VARCHAR(64),
		financial_rating VARCHAR(16),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_email ON users (email);`,
	`CREATE TABLE IF NOT EXISTS insurance_products (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		provider_id UUID NOT NULL REFERENCES users(id),
		product_code VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		base_rate NUMERIC(18,2) NOT NULL,
		broker_markup_percentage NUMERIC(10,4) NOT NULL DEFAULT 0,
		coverage_options JSONB NOT NULL DEFAULT '[]',
		rating_factors JSONB NOT NULL DEFAULT '[]',
		underwriting_rules JSONB NOT NULL DEFAULT '[]',
		supported_vehicle_types JSONB NOT NULL DEFAULT '[]',
		supported_industry_types JSONB NOT NULL DEFAULT '[]',
		available_states JSONB NOT NULL DEFAULT '[]',
		minimum_fleet_size INT NOT NULL DEFAULT 1,
		maximum_fleet_size INT NOT NULL DEFAULT 1000,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		effective_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expiration_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_products_provider_id ON insurance_products (provider_id);`,
	`CREATE INDEX IF NOT EXISTS idx_products_is_active ON insurance_products (is_active);`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		quote_number VARCHAR(64) NOT NULL,
		fleet_manager_id UUID NOT NULL,
		broker_id UUID NOT NULL,
		product_id UUID NOT NULL REFERENCES insurance_products(id),
		vehicle_ids JSONB NOT NULL DEFAULT '[]',
		selected_coverages JSONB NOT NULL DEFAULT '[]',
		base_premium NUMERIC(18,2) NOT NULL,
		broker_markup NUMERIC(18,2) NOT NULL,
		total_premium NUMERIC(18,2) NOT NULL,
		valid_until TIMESTAMPTZ NOT NULL,
		status quote_status NOT NULL DEFAULT 'PENDING',
		decline_reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_quote_number ON quotes (quote_number);`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_broker_id ON quotes (broker_id);`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_fleet_manager_id ON quotes (fleet_manager_id);`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_status ON quotes (status);`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_valid_until ON quotes (valid_until) WHERE status = 'GENERATED';`,
	`CREATE TABLE IF NOT EXISTS insurance_policies (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		policy_number VARCHAR(64) NOT NULL,
		quote_id UUID NOT NULL REFERENCES quotes(id),
		fleet_manager_id UUID NOT NULL,
		broker_id UUID NOT NULL,
		provider_id UUID NOT NULL,
		product_id UUID NOT NULL REFERENCES insurance_products(id),
		vehicle_ids JSONB NOT NULL DEFAULT '[]',
		coverage_details JSONB NOT NULL DEFAULT '[]',
		premium_amount NUMERIC(18,2) NOT NULL,
		broker_commission NUMERIC(18,2) NOT NULL,
		effective_date TIMESTAMPTZ NOT NULL,
		expiration_date TIMESTAMPTZ NOT NULL,
		status policy_status NOT NULL DEFAULT 'PENDING',
		claims JSONB NOT NULL DEFAULT '[]',
		documents JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_policy_number ON insurance_policies (policy_number);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_policy_quote_id ON insurance_policies (quote_id);`,
	`CREATE INDEX IF NOT EXISTS idx_policies_broker_id ON insurance_policies (broker_id);`,
	`CREATE INDEX IF NOT EXISTS idx_policies_provider_id ON insurance_policies (provider_id);`,
	`CREATE INDEX IF NOT EXISTS idx_policies_status ON insurance_policies (status);`,
	`CREATE INDEX IF NOT EXISTS idx_policies_effective_date ON insurance_policies (effective_date);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
