package core

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// HashContent generates a deterministic 64-bit digest from text content using
// BLAKE2b hashing. This ensures that identical content produces identical digests.
func HashContent(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Availability indicates whether a person can take on new assignments.
type Availability int

const (
	// AvailabilityAvailable marks a person as open for new assignments.
	AvailabilityAvailable Availability = iota + 1
	// AvailabilityUnavailable marks a person as fully allocated.
	AvailabilityUnavailable
)

// String returns the canonical lowercase form used in roster files and queries.
func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("availability(%d)", int(a))
	}
}

// ParseAvailability converts a status string to an Availability.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseAvailability(s string) (Availability, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available":
		return AvailabilityAvailable, nil
	case "unavailable":
		return AvailabilityUnavailable, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAvailability, s)
	}
}

// Project describes one project a person worked on. Description is optional;
// roster files often carry bare project names.
type Project struct {
	Name        string
	Description string
}

// ProfileRecord represents one person in the roster.
// Records are immutable once loaded for a given index build.
type ProfileRecord struct {
	Id              string
	Name            string
	Position        string
	Department      string
	Skills          []string // case-normalized set, see NormalizeSkills
	ExperienceYears int
	Availability    Availability
	Projects        []Project
}

// NormalizeSkills lowercases, trims, deduplicates and sorts a skill list.
// Records carry skills as a case-normalized set so that filtering and keyword
// matching never depend on source-file casing. Blank entries are dropped.
func NormalizeSkills(skills []string) []string {
	if len(skills) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(skills))
	normalized := make([]string, 0, len(skills))
	for _, skill := range skills {
		s := strings.ToLower(strings.TrimSpace(skill))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		normalized = append(normalized, s)
	}
	if len(normalized) == 0 {
		return nil
	}
	slices.Sort(normalized)
	return normalized
}

// DocumentKind identifies which slice of a profile a document renders.
type DocumentKind int

const (
	// DocumentKindProfile is the full profile summary document.
	DocumentKindProfile DocumentKind = iota + 1
	// DocumentKindSkill is a per-skill document.
	DocumentKindSkill
	// DocumentKindProject is a per-project document.
	DocumentKindProject
)

// String returns the lowercase kind name used in document identifiers.
func (k DocumentKind) String() string {
	switch k {
	case DocumentKindProfile:
		return "profile"
	case DocumentKindSkill:
		return "skill"
	case DocumentKindProject:
		return "project"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DocumentID is the composite key of a retrievable document. One profile
// expands into several documents (profile summary, one per skill, one per
// project); Kind and Key distinguish the variants while ProfileId ties them
// back to the owning record.
type DocumentID struct {
	ProfileId string
	Kind      DocumentKind
	Key       string // skill or project name; empty for the profile document
}

// String renders the canonical "<profile-id>/<kind>[:<key>]" form.
func (d DocumentID) String() string {
	if d.Key == "" {
		return d.ProfileId + "/" + d.Kind.String()
	}
	return d.ProfileId + "/" + d.Kind.String() + ":" + d.Key
}

// Compare orders document IDs by profile id, then kind, then key.
// It is the total order used for deterministic tie-breaking.
func (d DocumentID) Compare(other DocumentID) int {
	if c := strings.Compare(d.ProfileId, other.ProfileId); c != 0 {
		return c
	}
	if d.Kind != other.Kind {
		return int(d.Kind) - int(other.Kind)
	}
	return strings.Compare(d.Key, other.Key)
}

// DocumentMeta carries the structured attributes copied from the owning
// ProfileRecord onto each derived document. The filter engine evaluates
// queries against these fields without touching source records.
type DocumentMeta struct {
	ProfileId       string
	Name            string
	Position        string
	Department      string
	Skills          []string
	ExperienceYears int
	Availability    Availability
}

// Document is a retrievable unit derived from exactly one ProfileRecord.
// It is immutable after the builder emits it.
type Document struct {
	Id        DocumentID
	Text      string    // the content that gets embedded
	Embedding []float32 // populated by the ingestion pipeline
	Meta      DocumentMeta
}

// Query describes one retrieval request. Zero values mean "not set": K and
// ScoreThreshold fall back to the searcher defaults, empty filters are
// inactive.
type Query struct {
	RawText        string
	Name           string   // case-insensitive substring match on profile name
	Skills         []string // any-of match, case-insensitive
	Department     string
	MinExperience  int
	Availability   Availability
	K              int
	ScoreThreshold float32
}

// SimilarityMatch represents a document match from vector similarity search.
type SimilarityMatch struct {
	DocumentId DocumentID
	Score      float32
}

// SearchResult is one ranked hit: the best-scoring document variant of a
// single profile, with the metadata of that document.
type SearchResult struct {
	ProfileId  string
	Score      float32
	DocumentId DocumentID
	Meta       DocumentMeta
}
