// Package config handles configuration loading, parsing, and validation
// from various sources (a .env file, environment variables, an optional
// config file). It provides type-safe access to application settings needed
// by different components while keeping configuration details separate from
// business logic.
//
// Every key can be set through an environment variable with the FLASHNOTES_
// prefix, e.g. FLASHNOTES_SERVER_PORT. The variable names used by earlier
// deployments (DATABASE_URL, HUGGINGFACE_API_KEY, PORT) are still honoured.
package config
