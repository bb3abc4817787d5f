// Package persistence stores key pair metadata and PEMs through GORM on
// SQLite or PostgreSQL.
package persistence
