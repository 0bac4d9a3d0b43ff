// Package catalog persists scan run history in a SQLite database. Each scan
// stores one run row plus one row per task, so past normalization outcomes
// can be listed and inspected without rescanning the dataset.
package catalog
