// Package repository implements the durable availability store on MySQL.
//
// Expected schema (owned by the marketplace migrations):
//
//	fields      (id VARCHAR(36) PRIMARY KEY, name VARCHAR(255), ...)
//	commitments (id VARCHAR(36) PRIMARY KEY,
//	             field_id VARCHAR(36) NOT NULL,
//	             kind ENUM('booking','block') NOT NULL,
//	             status ENUM('pending','confirmed','cancelled') NULL,
//	             reason ENUM('maintenance','personal','event') NULL,
//	             note TEXT NULL,
//	             owner_ref VARCHAR(64) NOT NULL,
//	             starts_at DATETIME NOT NULL,
//	             ends_at DATETIME NOT NULL,
//	             created_at DATETIME NOT NULL,
//	             KEY idx_field_window (field_id, starts_at, ends_at))
//
// The fields table belongs to the external catalog; this service only reads
// it for existence checks and row locks. Driver and sentinel mapping: rows
// not found and duplicate keys surface as the model package's sentinels so
// higher layers never see driver errors.
package repository
