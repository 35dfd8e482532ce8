// Package task defines study tasks, validates user input, and encodes the
// task collection for storage.
//
// The collection is stored as a single JSON array under one storage key:
//
//	[
//	  {
//	    "id": 1718000000000,
//	    "subject": "Math",
//	    "topic": "Algebra",
//	    "date": "2024-06-10",
//	    "priority": "high",
//	    "completed": false
//	  }
//	]
//
// # Validation
//
// Decoding validates the blob against an embedded JSON Schema
// (tasks.schema.json, draft 2020-12) and then runs checks the schema cannot
// express, such as id uniqueness.
//
// Input validation happens before a task is created:
//   - topic must be non-blank (trimmed)
//   - date must parse as YYYY-MM-DD
//   - blank subject becomes "General"
//   - priority must be low, medium or high; blank uses the configured default
//
// # Priority Values
//
//   - "low"
//   - "medium"
//   - "high"
package task
