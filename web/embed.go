package web

import "embed"

// Templates embeds HTML templates.
//
//go:embed templates/**/*.html
var Templates embed.FS

// Static embeds the browser assets served under /dist.
//
//go:embed static/**/*
var Static embed.FS
