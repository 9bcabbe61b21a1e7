// Package models defines the core domain models for the Apex agency backend.
//
// # Models
//
//   - User: a registered client or admin account
//   - Project: a unit of work requested by a user, identified by a human-readable code
//   - AIAgent: a role slot assigned to a project (not an autonomous process)
//   - Payment: a completed payment together with its fund distribution
//
// # Design Principles
//
// 1. **No back-pointers**: entities reference each other by ID strings only
// 2. **Closed value sets**: roles and statuses are typed string constants
// 3. **Exact money**: amounts use decimal.Decimal, never float64
package models
