// Package models contains the GORM models backing the key store. They are
// kept apart from the domain entities and converted with ToDomain/FromDomain.
package models
