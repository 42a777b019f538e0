// Package embedded bundles the html templates and the sqlite
// migrations into the server binary.
package embedded

import "embed"

//go:embed "views"
var Views embed.FS

//go:embed "migrations"
var ServerMigrations embed.FS

//go:embed "bot/migrations"
var BotMigrations embed.FS

//go:embed "auth/migrations/sqlite"
var AuthMigrations embed.FS
