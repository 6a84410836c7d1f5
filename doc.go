// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the allocpoll API server.

allocpoll is a budget-allocation survey service. A survey owner picks a
pair-generation strategy; each respondent submits their ideal allocation
vector, receives a set of comparison pairs built around it, and picks one
option from each pair. The reports aggregate those choices into preference
and consistency statistics.

# Starting the Server

The server reads environment variables (optionally from a .env file) or CLI
flags for configuration:

	DATABASE_URL=allocpoll.db go run main.go

Or with flags:

	go run main.go -p 3319 -d "postgres://..." -t postgres

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file path or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC
  - SURVEY_SLUG_SALT (--slug-salt): Secret for share slug generation

Optional settings:

  - PORT (-p): Server port (default: 3319)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"

# Architecture

The server uses a handler-based architecture with dependency injection:

  - pairgen: vector utilities, the twelve pair-generation strategies, and
    the strategy registry
  - stats: choice, consistency, and transitivity calculators
  - handlers: HTTP request handlers (surveys, responses, reports, strategies)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types and stored records
  - auth: Token generation and validation
  - db: Schema creation and driver selection
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
