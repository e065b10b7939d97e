// Package assets embeds the static files shipped with the binaries:
// SQL migrations and email templates.
package assets

import "embed"

//go:embed migrations/*.sql templates/email/*
var FS embed.FS

const (
	MigrationsDir     = "migrations"
	EmailTemplatesDir = "templates/email"
)
