// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/paperscreen/pkg/types"
)

// QueryOptions holds parameters for history queries.
type QueryOptions struct {
	// Query is an FTS5 full-text search over rationales.
	Query string

	// RunID restricts results to one run.
	RunID string

	// Conference filters by predicted conference.
	Conference string

	// PlagiarismOnly keeps flagged results only.
	PlagiarismOnly bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.RunID == "" && q.Conference == "" && !q.PlagiarismOnly
}

// Retrieve queries stored results with optional full-text search and
// filters. Full-text queries are ranked by relevance; other queries list
// the newest run first, then file name.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.ClassificationResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)
	if useFTS {
		qb.WriteString(
			`SELECT r.run_id, r.filename, r.publishable, r.conference, r.matched_with,
				r.similarity, r.plagiarism, r.rationale, r.verdict_source
			FROM results_fts
			JOIN results r ON r.rowid = results_fts.rowid
			JOIN runs ON runs.id = r.run_id
			WHERE results_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT r.run_id, r.filename, r.publishable, r.conference, r.matched_with,
				r.similarity, r.plagiarism, r.rationale, r.verdict_source
			FROM results r
			JOIN runs ON runs.id = r.run_id
			WHERE 1=1`)
	}

	if opts.RunID != "" {
		qb.WriteString(` AND r.run_id = ?`)
		args = append(args, opts.RunID)
	}
	if opts.Conference != "" {
		qb.WriteString(` AND r.conference = ?`)
		args = append(args, opts.Conference)
	}
	if opts.PlagiarismOnly {
		qb.WriteString(` AND r.plagiarism = 1`)
	}

	if useFTS {
		qb.WriteString(` ORDER BY results_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY runs.started_at DESC, r.filename`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var results []types.ClassificationResult
	for rows.Next() {
		var (
			r      types.ClassificationResult
			source string
		)
		if err := rows.Scan(&r.RunID, &r.Filename, &r.PredictedPublishable, &r.PredictedConference,
			&r.MatchedReferenceID, &r.SimilarityScore, &r.PlagiarismFlag, &r.Rationale, &source); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.VerdictSource = types.VerdictSource(source)
		results = append(results, r)
	}
	return results, rows.Err()
}
