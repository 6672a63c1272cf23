//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// AuditPolicy selects which evaluated messages are written to the audit log
// ENUM(matches,all)
type AuditPolicy string
