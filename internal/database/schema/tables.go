// Package schema defines the database schema for development.
//
// DEVELOPMENT USE ONLY
// This file contains the current database schema and is used for development and testing.
// Before deploying to production, these table definitions should be converted to proper migrations.
package schema

// TableDefinitions contains all the SQL statements to create the database tables
// Don't put REFERENCES and don't put CHECK constraints in the CREATE TABLE statements
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS groups (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		pin VARCHAR(4),
		description TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS members (
		id UUID PRIMARY KEY,
		group_id UUID NOT NULL,
		name VARCHAR(255) NOT NULL,
		emails JSONB NOT NULL DEFAULT '[]',
		phones JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		channel VARCHAR(20) NOT NULL,
		recipient_type VARCHAR(20) NOT NULL,
		group_ids JSONB NOT NULL DEFAULT '[]',
		recipients JSONB NOT NULL DEFAULT '[]',
		payload JSONB NOT NULL,
		status VARCHAR(20) NOT NULL,
		total_count INTEGER NOT NULL DEFAULT 0,
		success_count INTEGER NOT NULL DEFAULT 0,
		fail_count INTEGER NOT NULL DEFAULT 0,
		sent_by JSONB,
		sent_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS recipient_logs (
		id UUID PRIMARY KEY,
		message_id UUID NOT NULL,
		address VARCHAR(255) NOT NULL,
		external_id VARCHAR(255),
		status VARCHAR(20) NOT NULL,
		error_code VARCHAR(50),
		error_message VARCHAR(500),
		created_at TIMESTAMP NOT NULL,
		UNIQUE (message_id, address)
	)`,
	`CREATE TABLE IF NOT EXISTS scheduled_messages (
		id UUID PRIMARY KEY,
		channel VARCHAR(20) NOT NULL,
		group_ids JSONB NOT NULL DEFAULT '[]',
		manual_recipients JSONB NOT NULL DEFAULT '[]',
		payload JSONB NOT NULL,
		scheduled_for TIMESTAMP NOT NULL,
		status VARCHAR(20) NOT NULL,
		message_id UUID,
		error_message VARCHAR(500),
		sent_by JSONB,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_members_group_id ON members(group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_channel ON messages(channel)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_sent_at ON messages(sent_at)`,
	`CREATE INDEX IF NOT EXISTS idx_recipient_logs_message_id ON recipient_logs(message_id)`,
	`CREATE INDEX IF NOT EXISTS idx_scheduled_messages_due ON scheduled_messages(status, scheduled_for)`,
}

// TableNames returns a list of all table names in creation order
var TableNames = []string{
	"groups",
	"members",
	"messages",
	"recipient_logs",
	"scheduled_messages",
}
