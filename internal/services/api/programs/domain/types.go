// Package domain holds DTOs and ports for the programs catalog API
package domain

import "progdex/internal/core/catalog"

// Program re-exports the catalog record served by the API
type Program = catalog.ProgramRecord

// Snapshot re-exports the catalog snapshot shape
type Snapshot = catalog.Snapshot
