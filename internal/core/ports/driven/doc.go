// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - IndexStore: Relational + full-text persistence and query execution
//   - PlanCache: Durable, append-only store of compiled query plans
//   - Planner: Proposes candidate filters for a natural-language query
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AliasTable: Raw-key to canonical-key lookups. Without it,
//     normalisation stops at stage-A cleaning.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
