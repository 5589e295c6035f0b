// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

// ReferenceCorpus holds every reference document of a run, partitioned by
// publishability and, for publishable references, by conference. It is
// built once and read-only afterwards.
type ReferenceCorpus struct {
	docs           []Document
	byConference   map[string][]Document
	nonPublishable []Document
}

// NewReferenceCorpus partitions docs. Non-reference documents are ignored.
// Input order is preserved within every partition.
func NewReferenceCorpus(docs []Document) *ReferenceCorpus {
	c := &ReferenceCorpus{byConference: make(map[string][]Document)}
	for _, d := range docs {
		if !d.IsReference {
			continue
		}
		c.docs = append(c.docs, d)
		if d.Publishable() {
			c.byConference[d.Conference()] = append(c.byConference[d.Conference()], d)
		} else {
			c.nonPublishable = append(c.nonPublishable, d)
		}
	}
	return c
}

// Documents returns all references in input order.
func (c *ReferenceCorpus) Documents() []Document {
	out := make([]Document, len(c.docs))
	copy(out, c.docs)
	return out
}

// IDs returns the reference IDs in input order.
func (c *ReferenceCorpus) IDs() []string {
	ids := make([]string, len(c.docs))
	for i, d := range c.docs {
		ids[i] = d.ID
	}
	return ids
}

// Lookup returns the reference with the given ID.
func (c *ReferenceCorpus) Lookup(id string) (Document, bool) {
	for _, d := range c.docs {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

// Conferences returns the sorted set of publishable conference labels.
func (c *ReferenceCorpus) Conferences() []string {
	names := make([]string, 0, len(c.byConference))
	for name := range c.byConference {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByConference returns the publishable references labeled with name.
func (c *ReferenceCorpus) ByConference(name string) []Document {
	return append([]Document(nil), c.byConference[name]...)
}

// NonPublishable returns the references under the Non-Publishable branch.
func (c *ReferenceCorpus) NonPublishable() []Document {
	return append([]Document(nil), c.nonPublishable...)
}

// Len returns the number of references.
func (c *ReferenceCorpus) Len() int { return len(c.docs) }
