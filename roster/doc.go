// Package roster loads profile records from the employees JSON envelope.
//
// The on-disk format is a single object {"employees": [...]} where each entry
// carries id, name, position, department, skills, experience_years,
// availability, and projects. The loader is deliberately dumb: it decodes,
// trims, and case-normalizes, but leaves per-record validation to the
// document builder so that one malformed record never sinks a whole roster.
// Only structural problems (an unreadable file, invalid JSON, an empty
// employee list) are errors here.
//
// Legacy rosters carry numeric ids and bare-string projects; both forms are
// accepted alongside string ids and {name, description} project objects.
package roster
