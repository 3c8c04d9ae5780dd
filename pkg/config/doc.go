// Package config resolves runtime settings from cobra flags with
// environment-variable fallbacks, in the style of the teacher's
// cmd/warren/main.go (flags read via cmd.Flags().GetString). Flags are
// registered empty; Load applies the defaults when neither a flag nor an
// environment variable is set. DATABASE_URL is repurposed as the
// on-disk data directory for the embedded event log and view stores,
// since this runtime embeds its store rather than dialing one.
package config
