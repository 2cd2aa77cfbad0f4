// Package sqlite persists web sessions in SQLite so logins survive restarts.
package sqlite
